package analysis

import (
	"math"
	"time"

	"github.com/petrolens/petrolens/internal/models"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// VolatilityPoint is one rolling-volatility observation for charting.
type VolatilityPoint struct {
	Date       time.Time `json:"date"`
	Volatility float64   `json:"volatility"`
}

// EventVolatility reports annualized volatility before and after one event.
// The change is nil when either side lacks enough observations.
type EventVolatility struct {
	EventDate        time.Time `json:"event_date"`
	EventType        string    `json:"event_type"`
	Description      string    `json:"description"`
	PreVolatility    *float64  `json:"pre_event_volatility"`
	PostVolatility   *float64  `json:"post_event_volatility"`
	VolatilityChange *float64  `json:"volatility_change"`
}

// AnnualizedRollingVolatility computes the rolling standard deviation of
// daily fractional returns over window observations, scaled to an annual
// figure. Each point is stamped with the date its window ends on.
func AnnualizedRollingVolatility(series models.Series, window int) []VolatilityPoint {
	if len(series) < window+1 || window < 2 {
		return nil
	}
	returns := fractionalReturns(series)
	vols := rollingStdDev(returns, window)

	points := make([]VolatilityPoint, len(vols))
	for i, v := range vols {
		points[i] = VolatilityPoint{
			// returns[j] ends at observation j+1.
			Date:       series[i+window].Date,
			Volatility: v * math.Sqrt(tradingDaysPerYear),
		}
	}
	return points
}

// EventWindowVolatility computes annualized pre and post volatility in a
// windowDays-wide window around each event.
func EventWindowVolatility(series models.Series, events models.EventCatalog, windowDays int) []EventVolatility {
	out := make([]EventVolatility, 0, len(events))
	for _, event := range events {
		pre := series.Between(event.Date.AddDate(0, 0, -windowDays), event.Date.AddDate(0, 0, -1))
		post := series.Between(event.Date, event.Date.AddDate(0, 0, windowDays))

		ev := EventVolatility{
			EventDate:   event.Date,
			EventType:   event.Type,
			Description: event.Description,
		}
		if len(pre) >= 3 {
			v := calculateStdDev(fractionalReturns(pre)) * math.Sqrt(tradingDaysPerYear)
			ev.PreVolatility = &v
		}
		if len(post) >= 3 {
			v := calculateStdDev(fractionalReturns(post)) * math.Sqrt(tradingDaysPerYear)
			ev.PostVolatility = &v
		}
		if ev.PreVolatility != nil && ev.PostVolatility != nil {
			change := *ev.PostVolatility - *ev.PreVolatility
			ev.VolatilityChange = &change
		}
		out = append(out, ev)
	}
	return out
}

func fractionalReturns(series models.Series) []float64 {
	if len(series) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		returns = append(returns, series[i].Price/series[i-1].Price-1)
	}
	return returns
}
