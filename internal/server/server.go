// internal/server/server.go
package server

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "actionbridge/internal/common/errors"
	"actionbridge/internal/common/logger"
	"actionbridge/internal/engine"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ExecuteRequest struct {
	Backend string         `json:"backend"`
	Form    formdata.Map   `json:"form"`
	Params  []models.Param `json:"params"`
}

type LookupRequest struct {
	Backend string             `json:"backend"`
	Trigger models.TriggerKind `json:"trigger"`
	Form    formdata.Map       `json:"form"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Server struct {
	engines        map[string]*engine.Engine
	defaultBackend string
	logger         logger.Logger
}

// New serves the engines keyed by backend name. Requests that name no backend
// go to defaultBackend.
func New(engines map[string]*engine.Engine, defaultBackend string, log logger.Logger) *Server {
	return &Server{engines: engines, defaultBackend: defaultBackend, logger: log}
}

func (s *Server) Handler(withMetrics bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/execute", s.handleExecute)
	mux.HandleFunc("/lookup", s.handleLookup)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	if withMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}

func (s *Server) engineFor(name string) (*engine.Engine, bool) {
	if name == "" {
		name = s.defaultBackend
	}
	e, ok := s.engines[name]
	return e, ok
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "METHOD_NOT_ALLOWED", Message: r.Method})
		return
	}
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	e, ok := s.engineFor(req.Backend)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "UNKNOWN_BACKEND", Message: req.Backend})
		return
	}

	env, err := e.Execute(r.Context(), req.Form, req.Params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "METHOD_NOT_ALLOWED", Message: r.Method})
		return
	}
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	e, ok := s.engineFor(req.Backend)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "UNKNOWN_BACKEND", Message: req.Backend})
		return
	}

	result, err := e.Lookup(r.Context(), req.Trigger, req.Form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	se := apperrors.Normalize(err)
	status := http.StatusInternalServerError
	switch apperrors.GetErrorCategory(se.Code) {
	case "VALIDATION", "CONTRACT":
		status = http.StatusBadRequest
	case "TRANSPORT", "VENDOR":
		status = http.StatusBadGateway
	}
	if se.Code == apperrors.ErrCodeCredentialMissing {
		status = http.StatusUnauthorized
	}
	s.logger.Warn("request failed", map[string]interface{}{
		"errorCode": string(se.Code),
		"status":    status,
	})
	writeJSON(w, status, errorResponse{Code: string(se.Code), Message: se.Message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
