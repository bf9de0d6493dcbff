package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"complipilot/internal/auth"
	"complipilot/internal/compliance"
)

type TaskHandler struct {
	Svc   *compliance.Service
	Users auth.UserStore
}

type taskDTO struct {
	ID         uint64     `json:"id"`
	GapID      uint64     `json:"gap_id"`
	AssignedTo *uint64    `json:"assigned_to"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toTaskDTO(t compliance.Task) taskDTO {
	return taskDTO{
		ID:         t.ID,
		GapID:      t.GapID,
		AssignedTo: t.AssignedTo,
		Title:      t.Title,
		DueDate:    t.DueDate,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
	}
}

type createTaskReq struct {
	Title      string  `json:"title"`
	DueDate    *string `json:"due_date"` // RFC3339 optional
	AssignedTo *uint64 `json:"assigned_to"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	gapID, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req createTaskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Title = strings.TrimSpace(req.Title)

	due, ok := parseOptionalTime(req.DueDate)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid due_date (RFC3339)")
		return
	}

	t, err := h.Svc.CreateTask(r.Context(), uid, compliance.CreateTaskInput{
		GapID:      gapID,
		Title:      req.Title,
		DueDate:    due,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		respondServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTO(*t))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r, h.Users)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	gapID, err := pathID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return
	}

	rows, err := h.Svc.ListTasks(r.Context(), uid, gapID)
	if err != nil {
		respondServiceErr(w, err)
		return
	}

	out := make([]taskDTO, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTaskDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

type updateTaskReq struct {
	Status     *string `json:"status"`
	DueDate    *string `json:"due_date"` // RFC3339; empty string clears it
	AssignedTo *uint64 `json:"assigned_to"`
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateTaskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	in := compliance.UpdateTaskInput{AssignedTo: req.AssignedTo}
	if req.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Status))
		in.Status = &s
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			in.ClearDue = true
		} else {
			due, ok := parseOptionalTime(req.DueDate)
			if !ok {
				writeDetail(w, http.StatusBadRequest, "invalid due_date (RFC3339)")
				return
			}
			in.DueDate = due
		}
	}

	t, err := h.Svc.UpdateTask(r.Context(), uid, taskID, in)
	if err != nil {
		respondServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(*t))
}

// parseOptionalTime returns (nil, true) for absent/blank input and
// (nil, false) when the value is present but unparseable.
func parseOptionalTime(s *string) (*time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
