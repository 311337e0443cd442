package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	analyticsapp "petrodata-cloud/internal/analytics/application"
	domainanalytics "petrodata-cloud/internal/analytics/domain"
	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
)

// Handler serves analytics endpoints.
type Handler struct {
	service *analyticsapp.AnalyticsService
}

// NewHandler constructs a Handler.
func NewHandler(service *analyticsapp.AnalyticsService) (*Handler, error) {
	if service == nil {
		return nil, errors.New("analytics handler: nil service")
	}
	return &Handler{service: service}, nil
}

type recordResponse struct {
	State        string   `json:"state"`
	Region       string   `json:"region"`
	Period       string   `json:"period"`
	AGO          float64  `json:"AGO"`
	PMS          float64  `json:"PMS"`
	DPK          float64  `json:"DPK"`
	LPG          float64  `json:"LPG"`
	ICE          float64  `json:"ICE"`
	Contributors []string `json:"contributors,omitempty"`
}

type analysisResponse struct {
	Records       []recordResponse `json:"records"`
	OverallChange string           `json:"overallChange"`
	RecentChange  string           `json:"recentChange"`
}

// ServeHTTP routes analytics requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/analytics" || r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	regions := splitRegions(query.Get("regions"))
	interval := query.Get("interval")
	if interval == "" {
		interval = string(refdata.IntervalMax)
	}

	result, err := h.service.Analyze(r.Context(), analyticsapp.Query{
		Regions:  regions,
		Interval: refdata.Interval(interval),
		Product:  refdata.Product(query.Get("product")),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	resp := analysisResponse{
		Records:       make([]recordResponse, 0, len(result.Records)),
		OverallChange: result.OverallChange,
		RecentChange:  result.RecentChange,
	}
	for _, record := range result.Records {
		resp.Records = append(resp.Records, toRecordResponse(record))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainanalytics.ErrNoRegions),
		errors.Is(err, domainanalytics.ErrInvalidRegion),
		errors.Is(err, refdata.ErrInvalidProduct),
		errors.Is(err, refdata.ErrInvalidInterval):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toRecordResponse(record *domainseries.PriceRecord) recordResponse {
	return recordResponse{
		State:        record.State,
		Region:       string(record.Scope),
		Period:       record.Period.Format("2006-01-02"),
		AGO:          record.AGO,
		PMS:          record.PMS,
		DPK:          record.DPK,
		LPG:          record.LPG,
		ICE:          record.ICE,
		Contributors: record.Contributors,
	}
}

func splitRegions(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
