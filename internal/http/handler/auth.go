package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"complipilot/internal/auth"
)

type AuthHandler struct {
	Svc *auth.Service
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password required")
		return
	}

	u, err := h.Svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "server error")
		return
	}

	// user view; the hash never leaves the store
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    u.ID,
		"email": u.Email,
	})
}

// Login follows the OAuth2 password-grant shape: form-encoded
// username/password, token response with token_type "bearer".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad form")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		writeDetail(w, http.StatusBadRequest, "username and password required")
		return
	}

	token, err := h.Svc.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}
