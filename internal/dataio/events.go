package dataio

import (
	"time"

	"github.com/petrolens/petrolens/internal/models"
)

// DefaultEventCatalog returns the built-in catalog of major geopolitical and
// economic events known to have moved oil markets, used when no external
// event CSV is configured.
func DefaultEventCatalog() models.EventCatalog {
	return models.EventCatalog{
		// Gulf War (1990-1991)
		event("1990-08-02", "conflict", "Iraq invades Kuwait", "Middle East"),
		event("1991-01-17", "conflict", "Operation Desert Storm begins", "Middle East"),
		event("1991-02-28", "conflict", "Gulf War ends", "Middle East"),

		// Asian and Russian financial crises (1997-1998)
		event("1997-07-02", "economic", "Asian Financial Crisis begins", "Asia"),
		event("1998-08-17", "economic", "Russian financial crisis", "Europe"),

		event("2001-09-11", "geopolitical", "9/11 terrorist attacks", "North America"),

		event("2003-03-20", "conflict", "Iraq War begins", "Middle East"),

		// Global Financial Crisis (2008)
		event("2008-09-15", "economic", "Lehman Brothers bankruptcy", "Global"),
		event("2008-10-03", "economic", "TARP bailout approved", "North America"),

		event("2010-01-01", "technological", "US shale boom accelerates", "North America"),

		// Arab Spring (2011)
		event("2011-01-25", "geopolitical", "Egyptian revolution begins", "Middle East"),
		event("2011-03-19", "conflict", "Libya intervention begins", "Middle East"),

		// OPEC supply decisions
		event("2014-11-27", "policy", "OPEC maintains production despite price drop", "Global"),
		event("2016-11-30", "policy", "OPEC agrees to production cuts", "Global"),

		// COVID-19 pandemic (2020)
		event("2020-03-11", "economic", "WHO declares COVID-19 pandemic", "Global"),
		event("2020-04-20", "economic", "WTI crude goes negative", "Global"),

		// Russia-Ukraine conflict (2022)
		event("2022-02-24", "conflict", "Russia invades Ukraine", "Europe"),
		event("2022-03-08", "sanctions", "US bans Russian oil imports", "Global"),
	}
}

func event(date, eventType, description, location string) models.Event {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Event{Date: d, Type: eventType, Description: description, Location: location}
}
