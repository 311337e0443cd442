package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"petrodata-cloud/internal/aggregation/notify"
	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
	seriesmemory "petrodata-cloud/internal/series/infrastructure/memory"
	domainsubmission "petrodata-cloud/internal/submission/domain"
	submissionmemory "petrodata-cloud/internal/submission/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubNotifier struct {
	messages []notify.Message
}

func (n *stubNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.messages = append(n.messages, msg)
	return nil
}

func approvedSubmission(t *testing.T, repo *submissionmemory.MemorySubmissionRepository, state string, product refdata.Product, price float64, priceDate time.Time, by string) {
	t.Helper()
	sub, err := domainsubmission.New("Station "+state, state, product, price, priceDate, "", by)
	if err != nil {
		t.Fatalf("new submission: %v", err)
	}
	sub.ID = by + "-" + state + "-" + string(product) + "-" + priceDate.Format("20060102-150405.000000000")
	sub.Status = domainsubmission.StatusApproved
	sub.CreatedAt = priceDate
	if err := repo.Create(context.Background(), []*domainsubmission.Submission{sub}); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestDailyAggregation_AveragesAndNationalRollup(t *testing.T) {
	subs := submissionmemory.NewMemorySubmissionRepository()
	records := seriesmemory.NewMemoryRecordRepository()
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 500, yesterday.Add(8*time.Hour), "agent-1")
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 520, yesterday.Add(9*time.Hour), "agent-2")
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 510, yesterday.Add(10*time.Hour), "agent-1")
	approvedSubmission(t, subs, "Kano", refdata.ProductPMS, 700, yesterday.Add(11*time.Hour), "agent-3")

	job, err := NewDailyAggregationJob(subs, records, nil, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	zoneRecords, err := records.ListByZone(context.Background(), refdata.ZoneSouthWest, yesterday, now)
	if err != nil {
		t.Fatalf("list zone: %v", err)
	}
	if len(zoneRecords) != 1 {
		t.Fatalf("expected 1 Lagos record, got %d", len(zoneRecords))
	}
	lagos := zoneRecords[0]
	if lagos.State != "Lagos" || lagos.PMS != 510.00 {
		t.Fatalf("expected Lagos PMS 510.00, got state=%s pms=%.2f", lagos.State, lagos.PMS)
	}
	if lagos.AGO != 0 {
		t.Fatalf("expected zero AGO for Lagos, got %.2f", lagos.AGO)
	}
	if len(lagos.Contributors) != 2 {
		t.Fatalf("expected 2 Lagos contributors, got %v", lagos.Contributors)
	}

	national, err := records.ListNational(context.Background(), yesterday, now)
	if err != nil {
		t.Fatalf("list national: %v", err)
	}
	if len(national) != 1 {
		t.Fatalf("expected 1 national record, got %d", len(national))
	}
	// (500 + 520 + 510 + 700) / 4 over every submission in the window,
	// each one weighing equally regardless of state.
	if national[0].PMS != 557.50 {
		t.Fatalf("expected national PMS 557.50, got %.2f", national[0].PMS)
	}
	if len(national[0].Contributors) != 3 {
		t.Fatalf("expected 3 national contributors, got %v", national[0].Contributors)
	}
	if !national[0].Period.Equal(yesterday) {
		t.Fatalf("expected national period %s, got %s", yesterday, national[0].Period)
	}
}

func TestDailyAggregation_SingleStateEqualsNational(t *testing.T) {
	subs := submissionmemory.NewMemorySubmissionRepository()
	records := seriesmemory.NewMemoryRecordRepository()
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 500, yesterday.Add(8*time.Hour), "agent-1")
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 520, yesterday.Add(9*time.Hour), "agent-2")
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 510, yesterday.Add(10*time.Hour), "agent-1")

	job, err := NewDailyAggregationJob(subs, records, nil, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	national, err := records.ListNational(context.Background(), yesterday, now)
	if err != nil {
		t.Fatalf("list national: %v", err)
	}
	if len(national) != 1 || national[0].PMS != 510.00 {
		t.Fatalf("expected national PMS 510.00, got %+v", national)
	}
}

func TestDailyAggregation_IgnoresPendingAndOtherDays(t *testing.T) {
	subs := submissionmemory.NewMemorySubmissionRepository()
	records := seriesmemory.NewMemoryRecordRepository()
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	// Pending rows never feed the rollup.
	pending, err := domainsubmission.New("Station Lagos", "Lagos", refdata.ProductPMS, 999, yesterday.Add(8*time.Hour), "", "agent-1")
	if err != nil {
		t.Fatalf("new submission: %v", err)
	}
	pending.ID = "pending-1"
	pending.CreatedAt = now
	if err := subs.Create(context.Background(), []*domainsubmission.Submission{pending}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// An approved row from two days ago is outside the window.
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 800, yesterday.AddDate(0, 0, -1), "agent-2")
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 500, yesterday.Add(9*time.Hour), "agent-3")

	job, err := NewDailyAggregationJob(subs, records, nil, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	zoneRecords, err := records.ListByZone(context.Background(), refdata.ZoneSouthWest, yesterday, now)
	if err != nil {
		t.Fatalf("list zone: %v", err)
	}
	if len(zoneRecords) != 1 || zoneRecords[0].PMS != 500.00 {
		t.Fatalf("expected single Lagos record at 500.00, got %+v", zoneRecords)
	}
}

func TestDailyAggregation_RerunOverwrites(t *testing.T) {
	subs := submissionmemory.NewMemorySubmissionRepository()
	records := seriesmemory.NewMemoryRecordRepository()
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 500, yesterday.Add(8*time.Hour), "agent-1")

	job, err := NewDailyAggregationJob(subs, records, nil, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 600, yesterday.Add(9*time.Hour), "agent-2")
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	zoneRecords, err := records.ListByZone(context.Background(), refdata.ZoneSouthWest, yesterday, now)
	if err != nil {
		t.Fatalf("list zone: %v", err)
	}
	if len(zoneRecords) != 1 {
		t.Fatalf("rerun must not duplicate records, got %d", len(zoneRecords))
	}
	if zoneRecords[0].PMS != 550.00 {
		t.Fatalf("expected refreshed average 550.00, got %.2f", zoneRecords[0].PMS)
	}
}

func TestDailyAggregation_NotifiesOnCompletion(t *testing.T) {
	subs := submissionmemory.NewMemorySubmissionRepository()
	records := seriesmemory.NewMemoryRecordRepository()
	notifier := &stubNotifier{}
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 500, yesterday.Add(8*time.Hour), "agent-1")
	approvedSubmission(t, subs, "Kano", refdata.ProductAGO, 900, yesterday.Add(9*time.Hour), "agent-2")

	job, err := NewDailyAggregationJob(subs, records, notifier, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.messages))
	}
	msg := notifier.messages[0]
	if msg.Day != "2024-03-09" || msg.States != 2 {
		t.Fatalf("unexpected notification %+v", msg)
	}
}

func TestScheduler_ShouldRunOnlyAtConfiguredMinute(t *testing.T) {
	s := NewScheduler(nil, "01:00", nil)

	if !s.shouldRun(time.Date(2024, 3, 10, 1, 0, 30, 0, time.UTC)) {
		t.Fatal("expected run at 01:00")
	}
	if s.shouldRun(time.Date(2024, 3, 10, 1, 1, 0, 0, time.UTC)) {
		t.Fatal("did not expect run at 01:01")
	}
	if s.shouldRun(time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)) {
		t.Fatal("did not expect run at 02:00")
	}
}

func TestScheduler_InvalidScheduleNeverRuns(t *testing.T) {
	s := NewScheduler(nil, "25:99", nil)
	if s.shouldRun(time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)) {
		t.Fatal("invalid schedule must never fire")
	}
}

type zoneSaveFailingRecords struct {
	*seriesmemory.MemoryRecordRepository
}

func (r *zoneSaveFailingRecords) Save(ctx context.Context, record *domainseries.PriceRecord) error {
	if !record.National() {
		return errors.New("storage unavailable")
	}
	return r.MemoryRecordRepository.Save(ctx, record)
}

func TestDailyAggregation_NationalSurvivesStateSaveFailures(t *testing.T) {
	subs := submissionmemory.NewMemorySubmissionRepository()
	records := &zoneSaveFailingRecords{MemoryRecordRepository: seriesmemory.NewMemoryRecordRepository()}
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	approvedSubmission(t, subs, "Lagos", refdata.ProductPMS, 500, yesterday.Add(8*time.Hour), "agent-1")
	approvedSubmission(t, subs, "Kano", refdata.ProductPMS, 700, yesterday.Add(9*time.Hour), "agent-2")

	job, err := NewDailyAggregationJob(subs, records, nil, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	national, err := records.ListNational(context.Background(), yesterday, now)
	if err != nil {
		t.Fatalf("list national: %v", err)
	}
	if len(national) != 1 || national[0].PMS != 600.00 {
		t.Fatalf("expected national PMS 600.00 despite state save failures, got %+v", national)
	}
}
