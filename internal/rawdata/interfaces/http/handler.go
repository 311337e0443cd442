package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	rawdataapp "petrodata-cloud/internal/rawdata/application"
)

// Handler serves weekly raw-data window endpoints.
type Handler struct {
	windower *rawdataapp.Windower
}

// NewHandler constructs a Handler.
func NewHandler(windower *rawdataapp.Windower) (*Handler, error) {
	if windower == nil {
		return nil, errors.New("rawdata handler: nil windower")
	}
	return &Handler{windower: windower}, nil
}

type windowResponse struct {
	WeekStartDate string `json:"weekStartDate"`
	WeekEndDate   string `json:"weekEndDate"`
	Year          int    `json:"year"`
	Category      string `json:"category"`
	Period        string `json:"period"`
	Source        string `json:"source"`
}

type windowsResponse struct {
	Windows    []windowResponse `json:"windows"`
	TotalWeeks int              `json:"totalWeeks"`
	Batch      int              `json:"batch"`
	PageSize   int              `json:"pageSize"`
}

// ServeHTTP routes raw-data requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/rawdata" || r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	batch := 1
	if raw := r.URL.Query().Get("batch"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "batch must be a positive integer", http.StatusBadRequest)
			return
		}
		batch = parsed
	}

	windows, err := h.windower.Windows(r.Context(), batch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	total, err := h.windower.TotalWeeks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := windowsResponse{
		Windows:    make([]windowResponse, 0, len(windows)),
		TotalWeeks: total,
		Batch:      batch,
		PageSize:   rawdataapp.WeeksPerBatch,
	}
	for _, window := range windows {
		resp.Windows = append(resp.Windows, windowResponse{
			WeekStartDate: window.WeekStartDate.Format("2006-01-02"),
			WeekEndDate:   window.WeekEndDate.Format("2006-01-02"),
			Year:          window.Year,
			Category:      window.Category,
			Period:        window.Period,
			Source:        window.Source,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
