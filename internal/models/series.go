package models

import (
	"time"

	"github.com/petrolens/petrolens/internal/utils"
)

// Observation is a single daily price point.
type Observation struct {
	Date  time.Time `json:"date" db:"observed_at"`
	Price float64   `json:"price" db:"price"`
}

// Series is an ordered sequence of daily observations. The analysis pipeline
// never mutates a Series; every stage derives new structures from it.
type Series []Observation

// Validate fails fast on caller bugs: non-increasing or duplicate dates and
// non-positive prices.
func (s Series) Validate() error {
	for i, obs := range s {
		if obs.Price <= 0 {
			return utils.NewDataErrorf("observation %d (%s) has non-positive price %g",
				i, obs.Date.Format("2006-01-02"), obs.Price)
		}
		if i > 0 && !s[i-1].Date.Before(obs.Date) {
			return utils.NewDataErrorf("dates not strictly increasing at observation %d (%s)",
				i, obs.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Prices returns the price column as a new slice.
func (s Series) Prices() []float64 {
	prices := make([]float64, len(s))
	for i, obs := range s {
		prices[i] = obs.Price
	}
	return prices
}

// StartDate returns the date of the first observation.
func (s Series) StartDate() time.Time {
	return s[0].Date
}

// EndDate returns the date of the last observation.
func (s Series) EndDate() time.Time {
	return s[len(s)-1].Date
}

// SpanYears returns the span between first and last observation in years.
func (s Series) SpanYears() float64 {
	if len(s) < 2 {
		return 0
	}
	return s.EndDate().Sub(s.StartDate()).Hours() / 24 / 365.25
}

// Between returns the contiguous sub-series with dates in [start, end].
// The result aliases the receiver's backing array; callers must not mutate it.
func (s Series) Between(start, end time.Time) Series {
	lo := 0
	for lo < len(s) && s[lo].Date.Before(start) {
		lo++
	}
	hi := lo
	for hi < len(s) && !s[hi].Date.After(end) {
		hi++
	}
	return s[lo:hi]
}

// DailyReturns computes day-over-day percentage changes. The result has one
// fewer element than the series.
func (s Series) DailyReturns() []float64 {
	if len(s) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		returns = append(returns, (s[i].Price-s[i-1].Price)/s[i-1].Price*100)
	}
	return returns
}
