package compliance

import (
	"time"

	"github.com/lib/pq"
)

// Policy is an uploaded compliance document owned by a user.
// FilePath is the storage key of the document, not a filesystem path.
type Policy struct {
	ID      uint64 `gorm:"primaryKey"`
	OwnerID uint64 `gorm:"index;not null"`
	Title   string `gorm:"not null"`

	FilePath   string         `gorm:"not null"`
	Frameworks pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

// Gap is a compliance shortfall identified in a policy.
type Gap struct {
	ID          uint64    `gorm:"primaryKey"`
	PolicyID    uint64    `gorm:"index;not null"`
	Description string    `gorm:"type:text;not null"`
	Severity    string    `gorm:"not null"` // low / medium / high
	CreatedAt   time.Time `gorm:"not null;default:now()"`
}

// Task tracks remediation work for a gap.
type Task struct {
	ID         uint64     `gorm:"primaryKey"`
	GapID      uint64     `gorm:"index;not null"`
	AssignedTo *uint64    `gorm:"index"`
	Title      string     `gorm:"not null"`
	DueDate    *time.Time `gorm:"type:timestamptz"`
	Status     string     `gorm:"index;not null;default:'open'"` // open / in_progress / done
	CreatedAt  time.Time  `gorm:"not null;default:now()"`
}

// Evidence is a file attached to a task as proof of remediation.
// Table name pinned; gorm would otherwise pluralize it.
type Evidence struct {
	ID         uint64    `gorm:"primaryKey"`
	TaskID     uint64    `gorm:"index;not null"`
	FilePath   string    `gorm:"not null"`
	UploadedAt time.Time `gorm:"not null;default:now()"`
}

func (Evidence) TableName() string { return "evidence" }
