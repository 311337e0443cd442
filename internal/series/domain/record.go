package series

import (
	"time"

	"petrodata-cloud/internal/refdata"
)

// PriceRecord is one aggregated daily price row, either for a single state
// or the national rollup. Prices are the day's averages, rounded to two
// decimals; a missing product is stored as zero.
type PriceRecord struct {
	ID           string
	Scope        refdata.Zone
	State        string
	Period       time.Time
	AGO          float64
	PMS          float64
	DPK          float64
	LPG          float64
	ICE          float64
	Contributors []string
	CreatedAt    time.Time
}

// NewStateRecord builds a state-scoped record for the given zone and period.
func NewStateRecord(zone refdata.Zone, state string, period time.Time) (*PriceRecord, error) {
	if !refdata.IsZone(string(zone)) {
		return nil, ErrInvalidScope
	}
	if state == "" {
		return nil, ErrEmptyState
	}
	if period.IsZero() {
		return nil, ErrInvalidPeriod
	}
	return &PriceRecord{Scope: zone, State: state, Period: period.UTC()}, nil
}

// NewNationalRecord builds a national rollup record for the given period.
func NewNationalRecord(period time.Time) (*PriceRecord, error) {
	if period.IsZero() {
		return nil, ErrInvalidPeriod
	}
	return &PriceRecord{Scope: refdata.ZoneNational, State: string(refdata.ZoneNational), Period: period.UTC()}, nil
}

// SetPrice stores the rounded average for a product.
func (r *PriceRecord) SetPrice(product refdata.Product, price float64) {
	switch product {
	case refdata.ProductAGO:
		r.AGO = price
	case refdata.ProductPMS:
		r.PMS = price
	case refdata.ProductDPK:
		r.DPK = price
	case refdata.ProductLPG:
		r.LPG = price
	case refdata.ProductICE:
		r.ICE = price
	}
}

// Price returns the record's average for a product.
func (r *PriceRecord) Price(product refdata.Product) float64 {
	switch product {
	case refdata.ProductAGO:
		return r.AGO
	case refdata.ProductPMS:
		return r.PMS
	case refdata.ProductDPK:
		return r.DPK
	case refdata.ProductLPG:
		return r.LPG
	case refdata.ProductICE:
		return r.ICE
	default:
		return 0
	}
}

// National reports whether the record is a national rollup row.
func (r *PriceRecord) National() bool {
	return r.Scope == refdata.ZoneNational
}
