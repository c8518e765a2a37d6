package normalizer

import (
	"time"

	"github.com/hellix17/cosmic-tracker/internal/model"
)

const (
	monthlyMaxGapDays    = 35
	quarterlyMaxGapDays  = 100
	semiAnnualMaxGapDays = 190
)

// ClassifyFrequency buckets past dividend payment dates (most-recent first)
// into a payment frequency by averaging the day gaps between adjacent events.
// Boundary averages belong to the more frequent bucket. Fewer than two dates
// give FrequencyUnknown; this function never fails.
func ClassifyFrequency(dates []time.Time) model.DividendFrequency {
	if len(dates) < 2 {
		return model.FrequencyUnknown
	}

	var totalDays float64
	for i := 0; i < len(dates)-1; i++ {
		gap := dates[i].Sub(dates[i+1]).Hours() / 24
		if gap < 0 {
			gap = -gap
		}
		totalDays += gap
	}

	avg := totalDays / float64(len(dates)-1)

	switch {
	case avg <= monthlyMaxGapDays:
		return model.FrequencyMonthly
	case avg <= quarterlyMaxGapDays:
		return model.FrequencyQuarterly
	case avg <= semiAnnualMaxGapDays:
		return model.FrequencySemiAnnually
	default:
		return model.FrequencyAnnually
	}
}
