package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"complipilot/internal/auth"
	"complipilot/internal/compliance"
)

type GapHandler struct {
	Svc   *compliance.Service
	Users auth.UserStore
}

type gapDTO struct {
	ID          uint64    `json:"id"`
	PolicyID    uint64    `json:"policy_id"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

func toGapDTO(g compliance.Gap) gapDTO {
	return gapDTO{
		ID:          g.ID,
		PolicyID:    g.PolicyID,
		Description: g.Description,
		Severity:    g.Severity,
		CreatedAt:   g.CreatedAt,
	}
}

type createGapReq struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

func (h *GapHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	policyID, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req createGapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	req.Severity = strings.ToLower(strings.TrimSpace(req.Severity))

	g, err := h.Svc.CreateGap(r.Context(), uid, policyID, req.Description, req.Severity)
	if err != nil {
		respondServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGapDTO(*g))
}

func (h *GapHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	policyID, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	rows, err := h.Svc.ListGaps(r.Context(), uid, policyID)
	if err != nil {
		respondServiceErr(w, err)
		return
	}

	out := make([]gapDTO, 0, len(rows))
	for _, g := range rows {
		out = append(out, toGapDTO(g))
	}
	writeJSON(w, http.StatusOK, out)
}
