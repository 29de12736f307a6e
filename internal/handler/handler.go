package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Mansoor88-6/punch-tracker/internal/app"
	"Mansoor88-6/punch-tracker/internal/loop"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/service"
	"Mansoor88-6/punch-tracker/internal/viewmodel"

	"go.uber.org/zap"
)

// Handler serves the local HTTP surface. Every touch of the dataset, the
// selection or the view model runs on the loop.
type Handler struct {
	loop   *loop.Loop
	app    *app.App
	view   *viewmodel.Tray
	now    func() time.Time
	logger *zap.Logger
}

// NewHandler creates a handler. view must have been created on l.
func NewHandler(l *loop.Loop, a *app.App, view *viewmodel.Tray, logger *zap.Logger) *Handler {
	return &Handler{
		loop:   l,
		app:    a,
		view:   view,
		now:    time.Now,
		logger: logger,
	}
}

type ProjectResponse struct {
	UniqueID  string    `json:"unique_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type TimeEntryResponse struct {
	ProjectUID string     `json:"project_uid"`
	Project    string     `json:"project"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
	Seconds    int64      `json:"seconds"`
}

type StatusResponse struct {
	PunchedIn       bool               `json:"punched_in"`
	Current         *TimeEntryResponse `json:"current,omitempty"`
	SelectedProject *ProjectResponse   `json:"selected_project,omitempty"`
	ActiveProjects  []ProjectResponse  `json:"active_projects"`
}

// ProjectRequest names a project by unique id or name.
type ProjectRequest struct {
	Project string `json:"project"`
	Name    string `json:"name"`
}

func projectResponse(p *models.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		UniqueID:  p.UniqueID,
		Name:      p.DisplayName(),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func entryResponse(e *models.TimeEntry, now time.Time) *TimeEntryResponse {
	if e == nil {
		return nil
	}
	resp := &TimeEntryResponse{
		ProjectUID: e.ProjectUID(),
		Start:      e.Start,
		End:        e.End,
		Seconds:    int64(e.Duration(now) / time.Second),
	}
	if e.Project != nil {
		resp.Project = e.Project.DisplayName()
	}
	return resp
}

// do runs fn on the loop and reports a stopped loop to the client.
func (h *Handler) do(w http.ResponseWriter, fn func()) bool {
	if err := h.loop.Do(fn); err != nil {
		http.Error(w, "Service is shutting down", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNoProject),
		errors.Is(err, service.ErrEmptyName):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownProject):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrProjectClosed),
		errors.Is(err, service.ErrAlreadyPunchedIn),
		errors.Is(err, service.ErrNotPunchedIn):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNoDataSet):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
