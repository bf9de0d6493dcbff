package handler

import (
	"net/http"

	"complipilot/internal/auth"
)

// currentUserID maps the token subject (email) back to the user row.
// A subject that no longer exists in the store is just unauthenticated.
func currentUserID(r *http.Request, users auth.UserStore) (uint64, error) {
	email, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		return 0, auth.ErrUnauthenticated
	}
	u, err := users.FindByEmail(r.Context(), email)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, auth.ErrUnauthenticated
	}
	return u.ID, nil
}
