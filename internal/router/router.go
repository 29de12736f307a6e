package router

import (
	"mime"
	"net/http"

	"Mansoor88-6/punch-tracker/internal/handler"

	"go.uber.org/zap"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/v1/status", h.Status)

	mux.HandleFunc("/api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListProjects(w, r)
		case http.MethodPost:
			h.CreateProject(w, r)
		case http.MethodDelete:
			h.DeleteProject(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/projects/close", h.CloseProject)
	mux.HandleFunc("/api/v1/projects/reopen", h.ReopenProject)

	mux.HandleFunc("/api/v1/select", h.Select)
	mux.HandleFunc("/api/v1/punch-in", h.PunchIn)
	mux.HandleFunc("/api/v1/punch-out", h.PunchOut)
	mux.HandleFunc("/api/v1/report", h.Report)

	// Logging and CORS middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			setCORSHeaders(w)
		case http.MethodOptions:
			setCORSHeaders(w)
			w.WriteHeader(http.StatusOK)
			return
		default:
			// a JSON body cannot be sent cross-origin without a preflight,
			// and preflights never allow mutating methods
			if !isJSON(r) {
				logger.Warn("Rejected mutating request without JSON content type",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("content_type", r.Header.Get("Content-Type")),
				)
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		mux.ServeHTTP(w, r)
	})
}

// setCORSHeaders lets local pages and browser extensions read the API.
// Mutating routes stay same-origin only.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
