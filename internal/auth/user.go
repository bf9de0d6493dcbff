package auth

import "time"

type User struct {
	ID             uint64    `gorm:"primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Role           string    `gorm:"not null;default:'owner'"` // owner, staff, admin
	CreatedAt      time.Time `gorm:"not null;default:now()"`
}
