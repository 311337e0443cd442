package submission

import (
	"context"
	"time"
)

// PageSize is the fixed submission listing page size.
const PageSize = 10

// Filter narrows submission listings. Batch is 1-indexed; Search matches
// case-insensitive substrings of filling station, state, region or product.
type Filter struct {
	Status Status
	Search string
	Batch  int
}

// Skip returns the row offset for the filter's batch.
func (f Filter) Skip() int {
	batch := f.Batch
	if batch < 1 {
		batch = 1
	}
	return (batch - 1) * PageSize
}

// Repository persists submissions and their approval state.
type Repository interface {
	Create(ctx context.Context, subs []*Submission) error
	Get(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, filter Filter) ([]*Submission, error)
	Count(ctx context.Context, filter Filter) (int, error)
	// Decide moves a pending submission to a terminal status. It returns
	// ErrNotFound for an unknown id and ErrAlreadyDecided when the stored
	// status is no longer pending.
	Decide(ctx context.Context, id string, status Status, decidedBy string, decidedAt time.Time, rejectionReason string) error
	// ListApprovedInWindow returns approved submissions with a price date
	// in [from, to).
	ListApprovedInWindow(ctx context.Context, from, to time.Time) ([]*Submission, error)
}
