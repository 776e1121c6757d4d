package analysis

import (
	"sort"
	"time"

	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// SummarizeSegments partitions the series at the change point dates and
// computes per-segment statistics. The returned segments exactly tile the
// series: the first starts at the series' first date, the last ends at its
// last date, and every internal boundary is a change point date. Slopes
// within [-trendEpsilon, +trendEpsilon] classify as flat.
func SummarizeSegments(series models.Series, changePoints []models.ChangePoint, trendEpsilon float64) ([]models.Segment, error) {
	if len(series) == 0 {
		return nil, utils.NewDataError("cannot summarize an empty series")
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	boundaries := segmentBoundaries(series, changePoints)
	if len(boundaries) == 1 {
		// Single-observation series collapses to one degenerate segment.
		return []models.Segment{{
			StartDate: boundaries[0],
			EndDate:   boundaries[0],
			MeanPrice: series[0].Price,
			Trend:     models.TrendFlat,
		}}, nil
	}

	segments := make([]models.Segment, 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		segment := series.Between(start, end)
		if i+2 < len(boundaries) {
			// Interior boundary observations belong to the following segment.
			segment = segment[:len(segment)-1]
		}
		segments = append(segments, models.Segment{
			StartDate:  start,
			EndDate:    end,
			MeanPrice:  calculateMean(segment.Prices()),
			Volatility: calculateStdDev(segment.DailyReturns()),
			Trend:      trendLabel(segment.Prices(), trendEpsilon),
		})
	}
	return segments, nil
}

// segmentBoundaries builds the ascending, deduplicated boundary list:
// series start, change point dates, series end.
func segmentBoundaries(series models.Series, changePoints []models.ChangePoint) []time.Time {
	boundaries := make([]time.Time, 0, len(changePoints)+2)
	boundaries = append(boundaries, series.StartDate())
	for _, cp := range changePoints {
		boundaries = append(boundaries, cp.Date)
	}
	boundaries = append(boundaries, series.EndDate())
	sort.Slice(boundaries, func(a, b int) bool { return boundaries[a].Before(boundaries[b]) })

	deduped := boundaries[:1]
	for _, b := range boundaries[1:] {
		if !b.Equal(deduped[len(deduped)-1]) {
			deduped = append(deduped, b)
		}
	}
	return deduped
}

func trendLabel(prices []float64, epsilon float64) string {
	slope, _, _, _ := linearFit(prices)
	switch {
	case slope > epsilon:
		return models.TrendIncreasing
	case slope < -epsilon:
		return models.TrendDecreasing
	default:
		return models.TrendFlat
	}
}
