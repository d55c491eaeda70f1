package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/honeycarbs/atsbridge/internal/domain"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

const maxBodyBytes = 1 << 20

// Handler serves the REST endpoints
type Handler struct {
	svc    ats.Service
	logger *logging.Logger
}

func NewHandler(svc ats.Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logging.OrNop(logger)}
}

// ListJobs handles GET /jobs?status=
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.ListJobs(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// CreateCandidate handles POST /candidates
func (h *Handler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var in domain.CandidateCreate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, r, atserr.Validation("Request body is required", nil))
			return
		}
		h.writeError(w, r, atserr.Validation("Invalid JSON in request body", nil).Wrap(err))
		return
	}

	resp, err := h.svc.CreateCandidate(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListApplications handles GET /applications?job_id=
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListApplications(r.Context(), r.URL.Query().Get("job_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// Health handles GET /health; an unhealthy provider yields 503
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.svc.Health(r.Context())

	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := atserr.Normalize(err)
	status := StatusFor(e)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "kind", string(e.Kind), "request_id", RequestIDFrom(r.Context()), "err", err)
	} else {
		h.logger.Debug("request rejected", "path", r.URL.Path, "kind", string(e.Kind), "request_id", RequestIDFrom(r.Context()))
	}

	if e.Kind == atserr.KindRateLimit {
		w.Header().Set("Retry-After", strconv.Itoa(int(e.RetryAfter.Seconds())))
	}
	writeJSON(w, status, e.Payload())
}

// StatusFor maps an error kind onto the HTTP status returned to callers
func StatusFor(e *atserr.Error) int {
	switch e.Kind {
	case atserr.KindValidation:
		return http.StatusBadRequest
	case atserr.KindAuthentication:
		return http.StatusUnauthorized
	case atserr.KindNotFound:
		return http.StatusNotFound
	case atserr.KindRateLimit:
		return http.StatusTooManyRequests
	case atserr.KindConnection:
		return http.StatusServiceUnavailable
	case atserr.KindService:
		if e.StatusCode >= http.StatusBadRequest {
			return e.StatusCode
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
