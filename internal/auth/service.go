package auth

import "context"

// Service orchestrates registration and login.
type Service struct {
	Store  UserStore
	Tokens *JWT
}

// Register hashes the password and persists a new user. Emails are
// matched exactly as stored. The existence check races with concurrent
// registrations; the store's unique index is the authoritative guard,
// and its violation surfaces as ErrDuplicateEmail all the same.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	existing, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{Email: email, HashedPassword: hash}
	if err := s.Store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a bearer token with the email
// as subject. Unknown email and wrong password return the same
// ErrInvalidCredentials so responses cannot be told apart.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !ComparePassword(u.HashedPassword, password) {
		return "", ErrInvalidCredentials
	}
	return s.Tokens.Sign(u.Email)
}
