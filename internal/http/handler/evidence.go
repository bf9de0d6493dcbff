package handler

import (
	"errors"
	"net/http"
	"time"

	"complipilot/internal/auth"
	"complipilot/internal/compliance"
	"complipilot/internal/storage"
)

type EvidenceHandler struct {
	Svc   *compliance.Service
	Users auth.UserStore
	Files *storage.Local
}

type evidenceDTO struct {
	ID         uint64    `json:"id"`
	TaskID     uint64    `json:"task_id"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func toEvidenceDTO(e compliance.Evidence) evidenceDTO {
	return evidenceDTO{
		ID:         e.ID,
		TaskID:     e.TaskID,
		FilePath:   e.FilePath,
		UploadedAt: e.UploadedAt,
	}
}

func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad multipart form")
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

	e, err := h.Svc.AttachEvidence(r.Context(), uid, taskID, key)
	if err != nil {
		_ = h.Files.Remove(key)
		respondServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEvidenceDTO(*e))
}

func (h *EvidenceHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	rows, err := h.Svc.ListEvidence(r.Context(), uid, taskID)
	if err != nil {
		respondServiceErr(w, err)
		return
	}

	out := make([]evidenceDTO, 0, len(rows))
	for _, e := range rows {
		out = append(out, toEvidenceDTO(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EvidenceHandler) File(w http.ResponseWriter, r *http.Request) {
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

	e, err := h.Svc.GetEvidence(r.Context(), uid, id)
	if err != nil {
		respondServiceErr(w, err)
		return
	}

	streamFile(w, h.Files, e.FilePath)
}
