package refdata

import (
	"errors"
	"time"
)

// Interval is a periodic lookback code for analysis queries.
type Interval string

const (
	IntervalOneWeek     Interval = "1W"
	IntervalOneMonth    Interval = "1M"
	IntervalThreeMonths Interval = "3M"
	IntervalSixMonths   Interval = "6M"
	IntervalYesterday   Interval = "YTD"
	IntervalOneYear     Interval = "1Y"
	IntervalFiveYears   Interval = "5Y"
	IntervalMax         Interval = "MAX"
)

// ErrInvalidInterval is returned when an interval code is unknown.
var ErrInvalidInterval = errors.New("refdata: invalid interval")

// ParseInterval validates an interval code.
func ParseInterval(value string) (Interval, error) {
	switch Interval(value) {
	case IntervalOneWeek, IntervalOneMonth, IntervalThreeMonths, IntervalSixMonths,
		IntervalYesterday, IntervalOneYear, IntervalFiveYears, IntervalMax:
		return Interval(value), nil
	default:
		return "", ErrInvalidInterval
	}
}

// Unbounded reports whether the interval has no lower date bound.
func (i Interval) Unbounded() bool { return i == IntervalMax }

// From returns the inclusive lower bound of the interval relative to now.
// Month and year steps use calendar arithmetic. Calling From on the MAX
// interval is invalid; callers must check Unbounded first.
func (i Interval) From(now time.Time) (time.Time, error) {
	switch i {
	case IntervalYesterday:
		return now.AddDate(0, 0, -1), nil
	case IntervalOneWeek:
		return now.AddDate(0, 0, -7), nil
	case IntervalOneMonth:
		return now.AddDate(0, -1, 0), nil
	case IntervalThreeMonths:
		return now.AddDate(0, -3, 0), nil
	case IntervalSixMonths:
		return now.AddDate(0, -6, 0), nil
	case IntervalOneYear:
		return now.AddDate(-1, 0, 0), nil
	case IntervalFiveYears:
		return now.AddDate(-5, 0, 0), nil
	default:
		return time.Time{}, ErrInvalidInterval
	}
}
