package normalizer

import (
	"testing"
	"time"

	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/stretchr/testify/assert"
)

func datesWithGap(count int, gapDays int) []time.Time {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, start.AddDate(0, 0, -i*gapDays))
	}
	return dates
}

func TestClassifyFrequency(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  model.DividendFrequency
	}{
		{name: "no dates", dates: nil, want: model.FrequencyUnknown},
		{name: "single date", dates: datesWithGap(1, 0), want: model.FrequencyUnknown},
		{name: "two dates 30 days apart", dates: datesWithGap(2, 30), want: model.FrequencyMonthly},
		{name: "two dates 91 days apart", dates: datesWithGap(2, 91), want: model.FrequencyQuarterly},
		{name: "two dates 182 days apart", dates: datesWithGap(2, 182), want: model.FrequencySemiAnnually},
		{name: "two dates 366 days apart", dates: datesWithGap(2, 366), want: model.FrequencyAnnually},
		{name: "monthly 30 day gaps", dates: datesWithGap(6, 30), want: model.FrequencyMonthly},
		{name: "monthly at 35 day boundary", dates: datesWithGap(4, 35), want: model.FrequencyMonthly},
		{name: "quarterly just past monthly boundary", dates: datesWithGap(4, 36), want: model.FrequencyQuarterly},
		{name: "quarterly 91 day gaps", dates: datesWithGap(5, 91), want: model.FrequencyQuarterly},
		{name: "quarterly at 100 day boundary", dates: datesWithGap(3, 100), want: model.FrequencyQuarterly},
		{name: "semi-annual just past quarterly boundary", dates: datesWithGap(3, 101), want: model.FrequencySemiAnnually},
		{name: "semi-annual 182 day gaps", dates: datesWithGap(4, 182), want: model.FrequencySemiAnnually},
		{name: "semi-annual at 190 day boundary", dates: datesWithGap(3, 190), want: model.FrequencySemiAnnually},
		{name: "annual just past semi-annual boundary", dates: datesWithGap(3, 191), want: model.FrequencyAnnually},
		{name: "annual 366 day gaps", dates: datesWithGap(3, 366), want: model.FrequencyAnnually},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFrequency(tt.dates))
		})
	}
}

func TestClassifyFrequencyAveragesUnevenGaps(t *testing.T) {
	// gaps of 85 and 97 days average to 91, a quarterly payer with drift
	dates := []time.Time{
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -85),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -85-97),
	}

	assert.Equal(t, model.FrequencyQuarterly, ClassifyFrequency(dates))
}

func TestClassifyFrequencyTakesAbsoluteGaps(t *testing.T) {
	// oldest-first input must classify the same as newest-first
	newestFirst := datesWithGap(5, 30)
	oldestFirst := make([]time.Time, len(newestFirst))
	for i, d := range newestFirst {
		oldestFirst[len(newestFirst)-1-i] = d
	}

	assert.Equal(t, ClassifyFrequency(newestFirst), ClassifyFrequency(oldestFirst))
	assert.Equal(t, model.FrequencyMonthly, ClassifyFrequency(oldestFirst))
}
