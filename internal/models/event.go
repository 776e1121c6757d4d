package models

import "time"

// Event is a discrete external event from the catalog: a conflict, policy
// decision, or economic shock that may correlate with price moves.
type Event struct {
	Date        time.Time `json:"date" db:"occurred_at"`
	Type        string    `json:"type" db:"event_type"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location,omitempty" db:"location"`
}

// EventCatalog is an ordered collection of events. Events are immutable once
// handed to the correlator.
type EventCatalog []Event

// Types returns the distinct event type strings in first-seen order.
func (c EventCatalog) Types() []string {
	seen := make(map[string]bool, len(c))
	types := make([]string, 0, len(c))
	for _, e := range c {
		if !seen[e.Type] {
			seen[e.Type] = true
			types = append(types, e.Type)
		}
	}
	return types
}

// CountByType returns the number of events per type string.
func (c EventCatalog) CountByType() map[string]int {
	counts := make(map[string]int, len(c))
	for _, e := range c {
		counts[e.Type]++
	}
	return counts
}
