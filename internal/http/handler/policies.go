package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"complipilot/internal/auth"
	"complipilot/internal/compliance"
	"complipilot/internal/storage"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 32 << 20

type PolicyHandler struct {
	Svc   *compliance.Service
	Users auth.UserStore
	Files *storage.Local
}

type policyDTO struct {
	ID         uint64    `json:"id"`
	OwnerID    uint64    `json:"owner_id"`
	Title      string    `json:"title"`
	FilePath   string    `json:"file_path"`
	Frameworks []string  `json:"frameworks"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPolicyDTO(p compliance.Policy) policyDTO {
	return policyDTO{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Title:      p.Title,
		FilePath:   p.FilePath,
		Frameworks: []string(p.Frameworks),
		CreatedAt:  p.CreatedAt,
	}
}

func (h *PolicyHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		writeDetail(w, http.StatusBadRequest, "title required")
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file required")
		return
	}
	defer f.Close()

	key, err := h.Files.Save(f, fh.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			writeDetail(w, http.StatusUnsupportedMediaType, "unsupported file type")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "server error")
		return
	}

	p, err := h.Svc.CreatePolicy(r.Context(), uid, compliance.CreatePolicyInput{
		Title:      title,
		FileKey:    key,
		Frameworks: compliance.ParseFrameworks(r.FormValue("frameworks")),
	})
	if err != nil {
		_ = h.Files.Remove(key)
		writeDetail(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, toPolicyDTO(*p))
}

func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rows, err := h.Svc.ListPolicies(r.Context(), uid)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "server error")
		return
	}

	out := make([]policyDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPolicyDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.Svc.GetPolicy(r.Context(), uid, id)
	if err != nil {
		respondServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(*p))
}

func (h *PolicyHandler) File(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.Svc.GetPolicy(r.Context(), uid, id)
	if err != nil {
		respondServiceErr(w, err)
		return
	}

	streamFile(w, h.Files, p.FilePath)
}

func pathID(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, name), 10, 64)
}

func respondServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, compliance.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "not found")
	case errors.Is(err, compliance.ErrInvalidInput):
		writeDetail(w, http.StatusBadRequest, "invalid input")
	default:
		writeDetail(w, http.StatusInternalServerError, "server error")
	}
}

func streamFile(w http.ResponseWriter, files *storage.Local, key string) {
	rc, err := files.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "file not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "server error")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}
