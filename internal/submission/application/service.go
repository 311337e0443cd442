package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"petrodata-cloud/internal/refdata"
	domainsubmission "petrodata-cloud/internal/submission/domain"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DecisionRecorder records who decided what, for the audit trail.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, actor, submissionID, action, reason string, at time.Time)
}

// UploadInput is one price observation in an upload batch.
type UploadInput struct {
	FillingStation     string
	State              string
	Product            refdata.Product
	Price              float64
	PriceDate          time.Time
	SupportingDocument string
}

// Page is one page of a submission listing.
type Page struct {
	Submissions []*domainsubmission.Submission
	Total       int
	Batch       int
}

// SubmissionApplicationService handles upload, listing and approval use cases.
type SubmissionApplicationService struct {
	repo     domainsubmission.Repository
	recorder DecisionRecorder
	clock    Clock
	logger   *log.Logger
}

// NewSubmissionApplicationService constructs the service.
func NewSubmissionApplicationService(
	repo domainsubmission.Repository,
	recorder DecisionRecorder,
	clock Clock,
	logger *log.Logger,
) (*SubmissionApplicationService, error) {
	if repo == nil {
		return nil, errors.New("submission app service: nil repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}

	return &SubmissionApplicationService{
		repo:     repo,
		recorder: recorder,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Upload validates and stores a batch of pending submissions. The batch is
// all-or-nothing: one invalid row rejects the whole upload.
func (s *SubmissionApplicationService) Upload(ctx context.Context, submittedBy string, inputs []UploadInput) ([]*domainsubmission.Submission, error) {
	if len(inputs) == 0 {
		return nil, domainsubmission.ErrEmptyUpload
	}

	now := s.clock.Now().UTC()
	subs := make([]*domainsubmission.Submission, 0, len(inputs))
	for _, input := range inputs {
		sub, err := domainsubmission.New(
			input.FillingStation,
			input.State,
			input.Product,
			input.Price,
			input.PriceDate,
			input.SupportingDocument,
			submittedBy,
		)
		if err != nil {
			return nil, err
		}
		sub.ID = uuid.NewString()
		sub.CreatedAt = now
		subs = append(subs, sub)
	}

	if err := s.repo.Create(ctx, subs); err != nil {
		return nil, err
	}
	s.logger.Printf("submission: stored batch count=%d submitted_by=%s", len(subs), submittedBy)
	return subs, nil
}

// List returns one page of submissions plus the total match count.
func (s *SubmissionApplicationService) List(ctx context.Context, filter domainsubmission.Filter) (*Page, error) {
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	batch := filter.Batch
	if batch < 1 {
		batch = 1
	}
	return &Page{Submissions: subs, Total: total, Batch: batch}, nil
}

// Get fetches a single submission by id.
func (s *SubmissionApplicationService) Get(ctx context.Context, id string) (*domainsubmission.Submission, error) {
	return s.repo.Get(ctx, id)
}

// Decide approves or rejects a pending submission. A rejection must carry
// a reason; a submission already in a terminal state stays untouched.
func (s *SubmissionApplicationService) Decide(ctx context.Context, id, decidedBy, action, rejectionReason string) (*domainsubmission.Submission, error) {
	var status domainsubmission.Status
	switch action {
	case "approve":
		status = domainsubmission.StatusApproved
		rejectionReason = ""
	case "reject":
		rejectionReason = strings.TrimSpace(rejectionReason)
		if rejectionReason == "" {
			return nil, domainsubmission.ErrEmptyRejectionReason
		}
		status = domainsubmission.StatusRejected
	default:
		return nil, domainsubmission.ErrInvalidAction
	}

	now := s.clock.Now().UTC()
	if err := s.repo.Decide(ctx, id, status, decidedBy, now, rejectionReason); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordDecision(ctx, decidedBy, id, action, rejectionReason, now)
	}
	s.logger.Printf("submission: decided id=%s action=%s by=%s", id, action, decidedBy)
	return s.repo.Get(ctx, id)
}
