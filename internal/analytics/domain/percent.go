package analytics

import (
	"math"
	"strconv"

	"petrodata-cloud/internal/refdata"
	domainseries "petrodata-cloud/internal/series/domain"
)

// PercentChange derives the overall and recent change metrics for a product
// over a flat record list. Records are partitioned into the six zone
// buckets; each bucket contributes one overall value and one recent delta,
// and both metrics are the bucket sum divided by six regardless of how many
// buckets hold data.
func PercentChange(records []*domainseries.PriceRecord, product refdata.Product) (overall, recent float64) {
	buckets := make(map[refdata.Zone][]float64, 6)
	for _, record := range records {
		if !refdata.IsZone(string(record.Scope)) {
			continue
		}
		buckets[record.Scope] = append(buckets[record.Scope], record.Price(product))
	}

	var overallSum, recentSum float64
	for _, zone := range refdata.Zones() {
		values := buckets[zone]
		overallSum += bucketOverall(values)
		recentSum += bucketRecent(values)
	}
	return overallSum / 6, recentSum / 6
}

// bucketOverall walks consecutive pairs and keeps the last computed change.
// A bucket with fewer than two records, or with no computable pair, yields 0.
func bucketOverall(values []float64) float64 {
	var result float64
	for i := 1; i < len(values); i++ {
		oldValue, newValue := values[i-1], values[i]
		if newValue == 0 || oldValue == 0 {
			continue
		}
		result = (newValue - oldValue) / oldValue * 100
	}
	return result
}

// bucketRecent is the difference between the last two values, a missing
// value counting as 0.
func bucketRecent(values []float64) float64 {
	var last, secondLast float64
	if len(values) >= 1 {
		last = values[len(values)-1]
	}
	if len(values) >= 2 {
		secondLast = values[len(values)-2]
	}
	return last - secondLast
}

// FormatSigned renders a metric with two decimals, a "+" prefix for
// positive values and a literal "0.00" for zero.
func FormatSigned(value float64) string {
	rounded := math.Round(value*100) / 100
	if rounded == 0 {
		return "0.00"
	}
	formatted := strconv.FormatFloat(rounded, 'f', 2, 64)
	if rounded > 0 {
		return "+" + formatted
	}
	return formatted
}
