package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"petrodata-cloud/internal/refdata"
	domainsubmission "petrodata-cloud/internal/submission/domain"
)

// MemorySubmissionRepository is an in-memory submission repository used in
// tests and local runs.
type MemorySubmissionRepository struct {
	mu   sync.RWMutex
	subs map[string]*domainsubmission.Submission
}

// NewMemorySubmissionRepository creates an empty repository.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{
		subs: make(map[string]*domainsubmission.Submission),
	}
}

// Create inserts a batch of submissions.
func (r *MemorySubmissionRepository) Create(_ context.Context, subs []*domainsubmission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range subs {
		copied := *sub
		r.subs[sub.ID] = &copied
	}
	return nil
}

// Get fetches a submission by id.
func (r *MemorySubmissionRepository) Get(_ context.Context, id string) (*domainsubmission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, domainsubmission.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

// List returns a page of submissions matching the filter, newest first.
func (r *MemorySubmissionRepository) List(_ context.Context, filter domainsubmission.Filter) ([]*domainsubmission.Submission, error) {
	r.mu.RLock()
	matched := r.match(filter)
	r.mu.RUnlock()

	skip := filter.Skip()
	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if len(matched) > domainsubmission.PageSize {
		matched = matched[:domainsubmission.PageSize]
	}

	result := make([]*domainsubmission.Submission, 0, len(matched))
	for _, sub := range matched {
		copied := *sub
		result = append(result, &copied)
	}
	return result, nil
}

// Count returns the number of submissions matching the filter.
func (r *MemorySubmissionRepository) Count(_ context.Context, filter domainsubmission.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.match(filter)), nil
}

// Decide moves a pending submission to a terminal status.
func (r *MemorySubmissionRepository) Decide(_ context.Context, id string, status domainsubmission.Status, decidedBy string, decidedAt time.Time, rejectionReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return domainsubmission.ErrNotFound
	}
	if sub.Status != domainsubmission.StatusPending {
		return domainsubmission.ErrAlreadyDecided
	}
	sub.Status = status
	sub.DecidedBy = decidedBy
	at := decidedAt
	sub.DecidedAt = &at
	sub.RejectionReason = rejectionReason
	return nil
}

// ListApprovedInWindow returns approved submissions with a price date in [from, to).
func (r *MemorySubmissionRepository) ListApprovedInWindow(_ context.Context, from, to time.Time) ([]*domainsubmission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domainsubmission.Submission
	for _, sub := range r.subs {
		if sub.Status != domainsubmission.StatusApproved {
			continue
		}
		if sub.PriceDate.Before(from) || !sub.PriceDate.Before(to) {
			continue
		}
		copied := *sub
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PriceDate.Before(result[j].PriceDate)
	})
	return result, nil
}

// StateAveragesInWindow averages approved submissions per state over a
// price-date window.
func (r *MemorySubmissionRepository) StateAveragesInWindow(ctx context.Context, from, to time.Time) ([]domainsubmission.StateAverages, error) {
	subs, err := r.ListApprovedInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sums         map[refdata.Product]float64
		counts       map[refdata.Product]int
		contributors map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, sub := range subs {
		b, ok := buckets[sub.State]
		if !ok {
			b = &bucket{
				sums:         make(map[refdata.Product]float64),
				counts:       make(map[refdata.Product]int),
				contributors: make(map[string]struct{}),
			}
			buckets[sub.State] = b
		}
		b.sums[sub.Product] += sub.Price
		b.counts[sub.Product]++
		b.contributors[sub.SubmittedBy] = struct{}{}
	}

	states := make([]string, 0, len(buckets))
	for state := range buckets {
		states = append(states, state)
	}
	sort.Strings(states)

	result := make([]domainsubmission.StateAverages, 0, len(states))
	for _, state := range states {
		b := buckets[state]
		averages := make(map[refdata.Product]*float64, len(refdata.Products()))
		for _, product := range refdata.Products() {
			if count := b.counts[product]; count > 0 {
				avg := b.sums[product] / float64(count)
				averages[product] = &avg
			} else {
				averages[product] = nil
			}
		}
		contributors := make([]string, 0, len(b.contributors))
		for name := range b.contributors {
			contributors = append(contributors, name)
		}
		sort.Strings(contributors)
		result = append(result, domainsubmission.StateAverages{
			State:        state,
			Averages:     averages,
			Contributors: contributors,
		})
	}
	return result, nil
}

// NationalAveragesInWindow averages approved submissions over a price-date
// window without grouping.
func (r *MemorySubmissionRepository) NationalAveragesInWindow(ctx context.Context, from, to time.Time) (domainsubmission.StateAverages, error) {
	subs, err := r.ListApprovedInWindow(ctx, from, to)
	if err != nil {
		return domainsubmission.StateAverages{}, err
	}

	sums := make(map[refdata.Product]float64)
	counts := make(map[refdata.Product]int)
	seen := make(map[string]struct{})
	var contributors []string
	for _, sub := range subs {
		sums[sub.Product] += sub.Price
		counts[sub.Product]++
		if _, ok := seen[sub.SubmittedBy]; !ok {
			seen[sub.SubmittedBy] = struct{}{}
			contributors = append(contributors, sub.SubmittedBy)
		}
	}
	sort.Strings(contributors)

	averages := make(map[refdata.Product]*float64, len(refdata.Products()))
	for _, product := range refdata.Products() {
		if count := counts[product]; count > 0 {
			avg := sums[product] / float64(count)
			averages[product] = &avg
		} else {
			averages[product] = nil
		}
	}
	return domainsubmission.StateAverages{
		Averages:     averages,
		Contributors: contributors,
	}, nil
}

func (r *MemorySubmissionRepository) match(filter domainsubmission.Filter) []*domainsubmission.Submission {
	var matched []*domainsubmission.Submission
	search := strings.ToLower(filter.Search)
	for _, sub := range r.subs {
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		if search != "" && !matchesSearch(sub, search) {
			continue
		}
		matched = append(matched, sub)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func matchesSearch(sub *domainsubmission.Submission, search string) bool {
	for _, field := range []string{
		sub.FillingStation,
		sub.State,
		string(sub.Region),
		string(sub.Product),
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
