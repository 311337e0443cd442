package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"petrodata-cloud/internal/audit"
	"petrodata-cloud/internal/auth"
	"petrodata-cloud/internal/observability/metrics"
	"petrodata-cloud/internal/refdata"
	submissionapp "petrodata-cloud/internal/submission/application"
	domainsubmission "petrodata-cloud/internal/submission/domain"
)

const dateLayout = "2006-01-02"

// Handler serves submission endpoints.
type Handler struct {
	service     *submissionapp.SubmissionApplicationService
	validate    *validator.Validate
	auditLogger audit.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *submissionapp.SubmissionApplicationService, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("submission handler: nil service")
	}
	return &Handler{
		service:     service,
		validate:    validator.New(),
		auditLogger: auditLogger,
	}, nil
}

type uploadRow struct {
	FillingStation     string  `json:"fillingStation" validate:"required"`
	State              string  `json:"state" validate:"required"`
	Product            string  `json:"product" validate:"required,oneof=AGO PMS DPK LPG ICE"`
	Price              float64 `json:"price" validate:"required,gt=0"`
	PriceDate          string  `json:"priceDate" validate:"required"`
	SupportingDocument string  `json:"supportingDocument" validate:"omitempty,url"`
}

type uploadRequest struct {
	Submissions []uploadRow `json:"submissions" validate:"required,min=1,dive"`
}

type decisionRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason string `json:"rejectionReason" validate:"omitempty,min=3"`
}

type submissionResponse struct {
	ID                 string   `json:"id"`
	EntryCode          string   `json:"entryCode"`
	FillingStation     string   `json:"fillingStation"`
	State              string   `json:"state"`
	Region             string   `json:"region"`
	Product            string   `json:"product"`
	Price              float64  `json:"price"`
	PriceDate          string   `json:"priceDate"`
	SupportingDocument string   `json:"supportingDocument,omitempty"`
	SubmittedBy        string   `json:"submittedBy"`
	Status             string   `json:"status"`
	DecidedBy          string   `json:"decidedBy,omitempty"`
	DecidedAt          *string  `json:"decidedAt,omitempty"`
	RejectionReason    string   `json:"rejectionReason,omitempty"`
	CreatedAt          string   `json:"createdAt"`
}

type pageResponse struct {
	Submissions []submissionResponse `json:"submissions"`
	Total       int                  `json:"total"`
	Batch       int                  `json:"batch"`
	PageSize    int                  `json:"pageSize"`
}

// ServeHTTP routes submission requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/v1/submissions" {
		switch r.Method {
		case http.MethodPost:
			h.handleUpload(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if !strings.HasPrefix(r.URL.Path, "/api/v1/submissions/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/submissions/")
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id := parts[0]

	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	if len(parts) == 2 && parts[1] == "decision" && r.Method == http.MethodPost {
		h.handleDecision(w, r, id)
		return
	}

	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inputs := make([]submissionapp.UploadInput, 0, len(req.Submissions))
	for _, row := range req.Submissions {
		priceDate, err := time.Parse(dateLayout, row.PriceDate)
		if err != nil {
			http.Error(w, "priceDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		inputs = append(inputs, submissionapp.UploadInput{
			FillingStation:     row.FillingStation,
			State:              row.State,
			Product:            refdata.Product(row.Product),
			Price:              row.Price,
			PriceDate:          priceDate.UTC(),
			SupportingDocument: row.SupportingDocument,
		})
	}

	submittedBy := auth.SubjectFromContext(r.Context())
	if submittedBy == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	subs, err := h.service.Upload(r.Context(), submittedBy, inputs)
	if err != nil {
		metrics.ObserveUpload("error", 0, time.Since(start))
		respondDomainError(w, err)
		return
	}
	metrics.ObserveUpload("success", len(subs), time.Since(start))

	resp := make([]submissionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, toResponse(sub))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"submissions": resp})
	h.logAudit(r, "", "submission.upload", map[string]any{"count": len(subs)})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domainsubmission.Filter{
		Search: query.Get("search"),
		Batch:  1,
	}
	if raw := query.Get("batch"); raw != "" {
		batch, err := strconv.Atoi(raw)
		if err != nil || batch < 1 {
			http.Error(w, "batch must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.Batch = batch
	}
	if raw := query.Get("status"); raw != "" {
		switch domainsubmission.Status(raw) {
		case domainsubmission.StatusPending, domainsubmission.StatusApproved, domainsubmission.StatusRejected:
			filter.Status = domainsubmission.Status(raw)
		default:
			http.Error(w, "status must be pending, approved or rejected", http.StatusBadRequest)
			return
		}
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := pageResponse{
		Submissions: make([]submissionResponse, 0, len(page.Submissions)),
		Total:       page.Total,
		Batch:       page.Batch,
		PageSize:    domainsubmission.PageSize,
	}
	for _, sub := range page.Submissions {
		resp.Submissions = append(resp.Submissions, toResponse(sub))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toResponse(sub))
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request, id string) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	decidedBy := auth.SubjectFromContext(r.Context())
	if decidedBy == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.service.Decide(r.Context(), id, decidedBy, req.Action, req.RejectionReason)
	if err != nil {
		metrics.IncDecision(req.Action, false)
		respondDomainError(w, err)
		return
	}
	metrics.IncDecision(req.Action, true)

	// The application service records the decision for the audit trail;
	// logging it here as well would double every entry.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toResponse(sub))
}

func (h *Handler) logAudit(r *http.Request, resourceID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "submission",
		ResourceID:   resourceID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainsubmission.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domainsubmission.ErrAlreadyDecided):
		http.Error(w, "already decided", http.StatusConflict)
	case errors.Is(err, domainsubmission.ErrInvalidAction),
		errors.Is(err, domainsubmission.ErrEmptyRejectionReason),
		errors.Is(err, domainsubmission.ErrEmptyFillingStation),
		errors.Is(err, domainsubmission.ErrNonPositivePrice),
		errors.Is(err, domainsubmission.ErrInvalidPriceDate),
		errors.Is(err, domainsubmission.ErrEmptyUpload),
		errors.Is(err, refdata.ErrInvalidProduct),
		errors.Is(err, refdata.ErrUnknownState):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toResponse(sub *domainsubmission.Submission) submissionResponse {
	resp := submissionResponse{
		ID:                 sub.ID,
		EntryCode:          sub.EntryCode,
		FillingStation:     sub.FillingStation,
		State:              sub.State,
		Region:             string(sub.Region),
		Product:            string(sub.Product),
		Price:              sub.Price,
		PriceDate:          sub.PriceDate.Format(dateLayout),
		SupportingDocument: sub.SupportingDocument,
		SubmittedBy:        sub.SubmittedBy,
		Status:             string(sub.Status),
		DecidedBy:          sub.DecidedBy,
		RejectionReason:    sub.RejectionReason,
		CreatedAt:          sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.DecidedAt != nil {
		at := sub.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &at
	}
	return resp
}
