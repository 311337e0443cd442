package submission

import (
	"context"
	"time"

	"petrodata-cloud/internal/refdata"
)

// StateAverages is the per-state result of averaging approved submissions
// over a price-date window. A product without submissions carries a nil
// pointer so callers can distinguish "no data" from a zero price.
type StateAverages struct {
	State        string
	Averages     map[refdata.Product]*float64
	Contributors []string
}

// Aggregator reads price averages over approved submissions for the daily
// rollup.
type Aggregator interface {
	// StateAveragesInWindow averages approved submissions with a price
	// date in [from, to), grouped by state, and collects the distinct
	// submitters per state.
	StateAveragesInWindow(ctx context.Context, from, to time.Time) ([]StateAverages, error)

	// NationalAveragesInWindow averages approved submissions with a price
	// date in [from, to) without grouping, so every submission weighs
	// equally regardless of its state. The State field is empty.
	NationalAveragesInWindow(ctx context.Context, from, to time.Time) (StateAverages, error)
}
