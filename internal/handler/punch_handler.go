package handler

import (
	"net/http"
	"time"

	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/service"
)

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := StatusResponse{ActiveProjects: []ProjectResponse{}}
	ok := h.do(w, func() {
		now := h.now()
		resp.PunchedIn = h.view.IsPunchedIn()
		resp.Current = entryResponse(h.app.Punch.Current(), now)
		resp.SelectedProject = projectResponse(h.view.SelectedProject())
		for _, p := range h.view.ActiveProjects() {
			resp.ActiveProjects = append(resp.ActiveProjects, *projectResponse(p))
		}
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Select changes the selection. An empty project clears it; a vetoed
// selection answers 409 and leaves the selection unchanged.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		accepted bool
		selected *models.Project
		err      error
	)
	ok := h.do(w, func() {
		var p *models.Project
		if req.Project != "" {
			if p, err = h.app.Projects.Find(req.Project); err != nil {
				return
			}
		}
		accepted = h.view.SetSelectedProject(p)
		selected = h.view.SelectedProject()
	})
	if !ok {
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if !accepted {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]any{
		"accepted":         accepted,
		"selected_project": projectResponse(selected),
	})
}

// PunchIn punches into the named project, or the selected one when the
// request names none.
func (h *Handler) PunchIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		resp *TimeEntryResponse
		err  error
	)
	ok := h.do(w, func() {
		var entry *models.TimeEntry
		if req.Project == "" {
			entry, err = h.app.Punch.PunchInSelected()
		} else {
			var p *models.Project
			if p, err = h.app.Projects.Find(req.Project); err != nil {
				return
			}
			entry, err = h.app.Punch.PunchIn(p)
		}
		if err == nil {
			resp = entryResponse(entry, h.now())
		}
	})
	if !ok {
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) PunchOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		resp *TimeEntryResponse
		err  error
	)
	ok := h.do(w, func() {
		var entry *models.TimeEntry
		if entry, err = h.app.Punch.PunchOut(); err == nil {
			resp = entryResponse(entry, h.now())
		}
	})
	if !ok {
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Report sums time per project. from and to are dates (2006-01-02) in the
// server's local zone; to is inclusive.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	groupBy := query.Get("group_by")
	if groupBy == "" {
		groupBy = service.GroupByNone
	}
	if !service.ValidGroupBy(groupBy) {
		http.Error(w, "Invalid group_by parameter", http.StatusBadRequest)
		return
	}

	from, err := parseDate(query.Get("from"))
	if err != nil {
		http.Error(w, "Invalid from parameter", http.StatusBadRequest)
		return
	}
	to, err := parseDate(query.Get("to"))
	if err != nil {
		http.Error(w, "Invalid to parameter", http.StatusBadRequest)
		return
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}

	var rows []service.ReportRow
	ok := h.do(w, func() {
		rows = h.app.Reports.Totals(h.app.DataSet(), from, to, groupBy)
	})
	if !ok {
		return
	}
	if rows == nil {
		rows = []service.ReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
