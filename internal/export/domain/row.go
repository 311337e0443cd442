package export

import (
	domainseries "petrodata-cloud/internal/series/domain"
)

// Row is one exported line of the aggregated series. ICE is deliberately
// absent: published datasets carry the four consumer fuels only.
type Row struct {
	State  string
	Day    int
	Year   int
	Month  string
	Period string
	AGO    float64
	PMS    float64
	DPK    float64
	LPG    float64
	Region string
}

// Columns is the fixed export header order.
func Columns() []string {
	return []string{"State", "Day", "Year", "Month", "Period", "AGO", "PMS", "DPK", "LPG", "Region"}
}

// NewRow flattens a price record into an export row.
func NewRow(record *domainseries.PriceRecord) Row {
	return Row{
		State:  record.State,
		Day:    record.Period.Day(),
		Year:   record.Period.Year(),
		Month:  record.Period.Month().String(),
		Period: record.Period.Format("2006-01-02"),
		AGO:    record.AGO,
		PMS:    record.PMS,
		DPK:    record.DPK,
		LPG:    record.LPG,
		Region: string(record.Scope),
	}
}
