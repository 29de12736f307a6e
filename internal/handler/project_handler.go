package handler

import (
	"net/http"

	"Mansoor88-6/punch-tracker/internal/models"
)

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := models.ProjectStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		http.Error(w, "Invalid status parameter", http.StatusBadRequest)
		return
	}

	projects := []ProjectResponse{}
	ok := h.do(w, func() {
		for _, p := range h.app.Projects.List(status) {
			projects = append(projects, *projectResponse(p))
		}
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		p   *models.Project
		err error
	)
	ok := h.do(w, func() {
		p, err = h.app.Projects.Create(req.Name)
	})
	if !ok {
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse(p))
}

func (h *Handler) CloseProject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ProjectStatusClosed)
}

func (h *Handler) ReopenProject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ProjectStatusActive)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status models.ProjectStatus) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		resp *ProjectResponse
		err  error
	)
	ok := h.do(w, func() {
		var p *models.Project
		if p, err = h.app.Projects.SetStatus(req.Project, status); err == nil {
			resp = projectResponse(p)
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

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := r.URL.Query().Get("project")
	if key == "" {
		http.Error(w, "Missing project parameter", http.StatusBadRequest)
		return
	}

	var err error
	ok := h.do(w, func() {
		err = h.app.Projects.Delete(key)
	})
	if !ok {
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
