package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"petrodata-cloud/internal/refdata"
	domainsubmission "petrodata-cloud/internal/submission/domain"
	"petrodata-cloud/internal/submission/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordedDecision struct {
	actor  string
	id     string
	action string
	reason string
}

type stubRecorder struct {
	decisions []recordedDecision
}

func (r *stubRecorder) RecordDecision(_ context.Context, actor, submissionID, action, reason string, _ time.Time) {
	r.decisions = append(r.decisions, recordedDecision{actor: actor, id: submissionID, action: action, reason: reason})
}

func newTestService(t *testing.T) (*SubmissionApplicationService, *memory.MemorySubmissionRepository, *stubRecorder) {
	t.Helper()
	repo := memory.NewMemorySubmissionRepository()
	recorder := &stubRecorder{}
	clock := fixedClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	service, err := NewSubmissionApplicationService(repo, recorder, clock, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, repo, recorder
}

func uploadOne(t *testing.T, service *SubmissionApplicationService, state string, product refdata.Product, price float64) *domainsubmission.Submission {
	t.Helper()
	subs, err := service.Upload(context.Background(), "agent-1", []UploadInput{{
		FillingStation: "Total Energies",
		State:          state,
		Product:        product,
		Price:          price,
		PriceDate:      time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	return subs[0]
}

func TestUpload_DerivesRegionAndDefaults(t *testing.T) {
	service, _, _ := newTestService(t)

	sub := uploadOne(t, service, "Lagos", refdata.ProductPMS, 620.50)

	if sub.Region != refdata.ZoneSouthWest {
		t.Fatalf("expected SOUTH WEST, got %s", sub.Region)
	}
	if sub.Status != domainsubmission.StatusPending {
		t.Fatalf("expected pending, got %s", sub.Status)
	}
	if sub.ID == "" {
		t.Fatal("expected generated id")
	}
	if len(sub.EntryCode) != 8 || sub.EntryCode[:4] != "PDA-" {
		t.Fatalf("unexpected entry code %q", sub.EntryCode)
	}
}

func TestUpload_RejectsUnknownState(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Upload(context.Background(), "agent-1", []UploadInput{{
		FillingStation: "Total Energies",
		State:          "Atlantis",
		Product:        refdata.ProductPMS,
		Price:          620,
		PriceDate:      time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}})
	if !errors.Is(err, refdata.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestUpload_EmptyBatch(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Upload(context.Background(), "agent-1", nil)
	if !errors.Is(err, domainsubmission.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestDecide_ApproveRecordsAudit(t *testing.T) {
	service, _, recorder := newTestService(t)
	sub := uploadOne(t, service, "Lagos", refdata.ProductPMS, 620)

	decided, err := service.Decide(context.Background(), sub.ID, "admin-1", "approve", "")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != domainsubmission.StatusApproved {
		t.Fatalf("expected approved, got %s", decided.Status)
	}
	if decided.DecidedBy != "admin-1" {
		t.Fatalf("expected admin-1, got %s", decided.DecidedBy)
	}
	if decided.DecidedAt == nil {
		t.Fatal("expected decided at to be set")
	}
	if len(recorder.decisions) != 1 || recorder.decisions[0].action != "approve" {
		t.Fatalf("unexpected audit decisions %+v", recorder.decisions)
	}
}

func TestDecide_SecondDecisionLoses(t *testing.T) {
	service, _, _ := newTestService(t)
	sub := uploadOne(t, service, "Lagos", refdata.ProductPMS, 620)

	if _, err := service.Decide(context.Background(), sub.ID, "admin-1", "approve", ""); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	_, err := service.Decide(context.Background(), sub.ID, "admin-2", "reject", "duplicate entry")
	if !errors.Is(err, domainsubmission.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}

	stored, err := service.Get(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domainsubmission.StatusApproved || stored.DecidedBy != "admin-1" {
		t.Fatalf("first decision must stand, got status=%s by=%s", stored.Status, stored.DecidedBy)
	}
}

func TestDecide_RejectRequiresReason(t *testing.T) {
	service, _, _ := newTestService(t)
	sub := uploadOne(t, service, "Lagos", refdata.ProductPMS, 620)

	_, err := service.Decide(context.Background(), sub.ID, "admin-1", "reject", "")
	if !errors.Is(err, domainsubmission.ErrEmptyRejectionReason) {
		t.Fatalf("expected ErrEmptyRejectionReason, got %v", err)
	}

	_, err = service.Decide(context.Background(), sub.ID, "admin-1", "reject", "   ")
	if !errors.Is(err, domainsubmission.ErrEmptyRejectionReason) {
		t.Fatalf("expected ErrEmptyRejectionReason for blank reason, got %v", err)
	}
}

func TestDecide_RejectStoresTrimmedReason(t *testing.T) {
	service, _, _ := newTestService(t)
	sub := uploadOne(t, service, "Lagos", refdata.ProductPMS, 620)

	decided, err := service.Decide(context.Background(), sub.ID, "admin-1", "reject", "  blurred receipt  ")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.RejectionReason != "blurred receipt" {
		t.Fatalf("expected trimmed reason, got %q", decided.RejectionReason)
	}
}

func TestDecide_InvalidAction(t *testing.T) {
	service, _, _ := newTestService(t)
	sub := uploadOne(t, service, "Lagos", refdata.ProductPMS, 620)

	_, err := service.Decide(context.Background(), sub.ID, "admin-1", "archive", "")
	if !errors.Is(err, domainsubmission.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestList_FiltersAndPages(t *testing.T) {
	service, _, _ := newTestService(t)
	for i := 0; i < 12; i++ {
		uploadOne(t, service, "Lagos", refdata.ProductPMS, 600+float64(i))
	}
	sub := uploadOne(t, service, "Kano", refdata.ProductAGO, 900)
	if _, err := service.Decide(context.Background(), sub.ID, "admin-1", "approve", ""); err != nil {
		t.Fatalf("decide: %v", err)
	}

	page, err := service.List(context.Background(), domainsubmission.Filter{Status: domainsubmission.StatusPending, Batch: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 12 {
		t.Fatalf("expected 12 pending, got %d", page.Total)
	}
	if len(page.Submissions) != 2 {
		t.Fatalf("expected 2 on second batch, got %d", len(page.Submissions))
	}

	page, err = service.List(context.Background(), domainsubmission.Filter{Search: "kano"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if page.Total != 1 || page.Submissions[0].State != "Kano" {
		t.Fatalf("expected single Kano match, got total=%d", page.Total)
	}
}

func TestList_SearchMatchesAnyField(t *testing.T) {
	service, _, _ := newTestService(t)
	uploadOne(t, service, "Lagos", refdata.ProductPMS, 600)
	uploadOne(t, service, "Kano", refdata.ProductAGO, 900)

	cases := []struct {
		search string
		want   int
	}{
		{"total ener", 2}, // filling station
		{"LAGOS", 1},      // state
		{"north west", 1}, // region (derived from Kano)
		{"ago", 2},        // product AGO and the Lagos state name
	}
	for _, tc := range cases {
		page, err := service.List(context.Background(), domainsubmission.Filter{Search: tc.search})
		if err != nil {
			t.Fatalf("list %q: %v", tc.search, err)
		}
		if page.Total != tc.want {
			t.Fatalf("search %q: expected %d matches, got %d", tc.search, tc.want, page.Total)
		}
	}
}
