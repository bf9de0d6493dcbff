package handler

import (
	"net/http"

	"complipilot/internal/auth"
)

type MeHandler struct{}

// Me answers from the token claims alone; no store lookup.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, _ := auth.SubjectFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"email": email,
	})
}
