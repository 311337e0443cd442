package submission

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"petrodata-cloud/internal/refdata"
)

// Status is the approval state of a submission. Pending is the only
// non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Submission is a single field price observation awaiting review.
type Submission struct {
	ID                 string
	EntryCode          string
	FillingStation     string
	State              string
	Region             refdata.Zone
	Product            refdata.Product
	Price              float64
	PriceDate          time.Time
	SupportingDocument string
	SubmittedBy        string
	Status             Status
	DecidedBy          string
	DecidedAt          *time.Time
	RejectionReason    string
	CreatedAt          time.Time
}

// New builds a pending submission, deriving the region from the state.
func New(fillingStation, state string, product refdata.Product, price float64, priceDate time.Time, supportingDocument, submittedBy string) (*Submission, error) {
	fillingStation = strings.TrimSpace(fillingStation)
	state = strings.TrimSpace(state)
	if fillingStation == "" {
		return nil, ErrEmptyFillingStation
	}
	if !product.IsValid() {
		return nil, refdata.ErrInvalidProduct
	}
	if price <= 0 {
		return nil, ErrNonPositivePrice
	}
	if priceDate.IsZero() {
		return nil, ErrInvalidPriceDate
	}
	if submittedBy == "" {
		return nil, ErrEmptySubmitter
	}
	zone, err := refdata.ZoneOf(state)
	if err != nil {
		return nil, err
	}

	return &Submission{
		EntryCode:          NewEntryCode(),
		FillingStation:     fillingStation,
		State:              state,
		Region:             zone,
		Product:            product,
		Price:              price,
		PriceDate:          priceDate.UTC(),
		SupportingDocument: supportingDocument,
		SubmittedBy:        submittedBy,
		Status:             StatusPending,
	}, nil
}

// Decided reports whether the submission reached a terminal state.
func (s *Submission) Decided() bool {
	return s.Status == StatusApproved || s.Status == StatusRejected
}

// NewEntryCode generates a PDA-prefixed four digit entry code. The digits
// are drawn without replacement.
func NewEntryCode() string {
	digits := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	for i := len(digits) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		digits[i], digits[j] = digits[j], digits[i]
	}
	var b strings.Builder
	b.WriteString("PDA-")
	for _, d := range digits[:4] {
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}
