package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petrolens/petrolens/internal/models"
)

type pricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type priceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	Current float64 `json:"current"`
}

type historicalSummary struct {
	TotalRecords int               `json:"total_records"`
	DateRange    map[string]string `json:"date_range"`
	PriceStats   priceStats        `json:"price_stats"`
}

// GetHistoricalData returns the price series with optional date filtering and
// a summary block for chart bindings.
func (h *Handler) GetHistoricalData(c *gin.Context) {
	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return
	}

	series := h.series
	if start != nil || end != nil {
		lo := h.series.StartDate()
		hi := h.series.EndDate()
		if start != nil {
			lo = *start
		}
		if end != nil {
			hi = *end
		}
		series = h.series.Between(lo, hi)
	}
	if len(series) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no observations in requested range"})
		return
	}

	data := make([]pricePoint, len(series))
	var sum, minPrice, maxPrice float64
	minPrice = series[0].Price
	maxPrice = series[0].Price
	for i, obs := range series {
		data[i] = pricePoint{Date: obs.Date.Format("2006-01-02"), Price: obs.Price}
		sum += obs.Price
		if obs.Price < minPrice {
			minPrice = obs.Price
		}
		if obs.Price > maxPrice {
			maxPrice = obs.Price
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"summary": historicalSummary{
			TotalRecords: len(series),
			DateRange: map[string]string{
				"start": series.StartDate().Format("2006-01-02"),
				"end":   series.EndDate().Format("2006-01-02"),
			},
			PriceStats: priceStats{
				Min:     minPrice,
				Max:     maxPrice,
				Avg:     sum / float64(len(series)),
				Current: series[len(series)-1].Price,
			},
		},
	})
}

// GetEvents returns the event catalog with optional type and date filtering.
func (h *Handler) GetEvents(c *gin.Context) {
	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return
	}
	typeFilter := strings.ToLower(strings.TrimSpace(c.Query("event_type")))

	filtered := make(models.EventCatalog, 0, len(h.events))
	for _, event := range h.events {
		if typeFilter != "" && !strings.Contains(strings.ToLower(event.Type), typeFilter) {
			continue
		}
		if start != nil && event.Date.Before(*start) {
			continue
		}
		if end != nil && event.Date.After(*end) {
			continue
		}
		filtered = append(filtered, event)
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      filtered,
		"event_types": h.events.Types(),
	})
}

// GetDashboardSummary returns the headline metrics the dashboard binds to.
func (h *Handler) GetDashboardSummary(c *gin.Context) {
	if len(h.series) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no data available"})
		return
	}

	current := h.series[len(h.series)-1]
	changes := gin.H{
		"1d": h.priceChangeSince(current.Date.AddDate(0, 0, -1), current.Price),
		"1w": h.priceChangeSince(current.Date.AddDate(0, 0, -7), current.Price),
		"1m": h.priceChangeSince(current.Date.AddDate(0, 0, -30), current.Price),
	}

	var sum, minPrice, maxPrice float64
	minPrice = h.series[0].Price
	maxPrice = h.series[0].Price
	for _, obs := range h.series {
		sum += obs.Price
		if obs.Price < minPrice {
			minPrice = obs.Price
		}
		if obs.Price > maxPrice {
			maxPrice = obs.Price
		}
	}

	summary := gin.H{
		"current_price": current.Price,
		"price_changes": changes,
		"statistics": gin.H{
			"total_data_points": len(h.series),
			"date_range": gin.H{
				"start": h.series.StartDate().Format("2006-01-02"),
				"end":   h.series.EndDate().Format("2006-01-02"),
			},
			"price_range": gin.H{
				"min": minPrice,
				"max": maxPrice,
				"avg": sum / float64(len(h.series)),
			},
		},
		"events_summary": gin.H{
			"total_events": len(h.events),
			"event_types":  h.events.CountByType(),
		},
	}

	if result, err := h.runAnalysis(c.Request.Context()); err == nil {
		summary["analysis_status"] = gin.H{
			"change_points_detected": len(result.ChangePoints),
			"run_id":                 result.RunID,
		}
	} else {
		h.logger.WithError(err).Warn("dashboard summary analysis unavailable")
		summary["analysis_status"] = gin.H{"change_points_detected": 0}
	}

	c.JSON(http.StatusOK, summary)
}

// priceChangeSince returns the percentage change from the last observation at
// or before cutoff to the current price, or zero when no history exists.
func (h *Handler) priceChangeSince(cutoff time.Time, current float64) float64 {
	past := h.series.Between(h.series.StartDate(), cutoff)
	if len(past) == 0 {
		return 0
	}
	ref := past[len(past)-1].Price
	return (current/ref - 1) * 100
}
