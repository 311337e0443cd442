package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"petrodata-cloud/internal/audit"
	"petrodata-cloud/internal/auth"
	exportapp "petrodata-cloud/internal/export/application"
	domainexport "petrodata-cloud/internal/export/domain"
)

// Handler serves export endpoints.
type Handler struct {
	service     *exportapp.ExportService
	validate    *validator.Validate
	auditLogger audit.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *exportapp.ExportService, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("export handler: nil service")
	}
	return &Handler{
		service:     service,
		validate:    validator.New(),
		auditLogger: auditLogger,
	}, nil
}

const dateLayout = "2006-01-02"

type exportRequest struct {
	Format        string `json:"format" validate:"required"`
	WeekStartDate string `json:"weekStartDate" validate:"omitempty"`
	WeekEndDate   string `json:"weekEndDate" validate:"omitempty"`
}

type exportResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ServeHTTP routes export requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/exports":
		h.handleExport(w, r, false)
	case "/api/v1/exports/all":
		h.handleExport(w, r, true)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, all bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result *exportapp.ExportResult
	var err error
	if all {
		result, err = h.service.ExportAll(r.Context(), req.Format)
	} else {
		from, parseErr := time.Parse(dateLayout, req.WeekStartDate)
		if parseErr != nil {
			http.Error(w, "weekStartDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to, parseErr := time.Parse(dateLayout, req.WeekEndDate)
		if parseErr != nil {
			http.Error(w, "weekEndDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		result, err = h.service.Export(r.Context(), req.Format, from.UTC(), to.UTC())
	}
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(exportResponse{
		Key:  result.Key,
		URL:  result.URL,
		Rows: result.Rows,
	})
	h.logAudit(r, result.Key, req.Format)
}

func (h *Handler) logAudit(r *http.Request, key, format string) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{"format": format})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "export.create",
		ResourceType: "export",
		ResourceID:   key,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainexport.ErrInvalidFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
