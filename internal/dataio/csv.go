package dataio

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// Date layouts accepted in price and event CSV files. The historical Brent
// dataset uses the abbreviated "20-May-87" form; exported files use ISO dates.
var dateLayouts = []string{"2-Jan-06", "02-Jan-06", "2006-01-02"}

// LoadPricesCSV reads a Date,Price file into a validated Series. Rows are
// sorted by date before validation so an unsorted export still loads.
func LoadPricesCSV(path string) (models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadPrices(f)
}

// ReadPrices parses Date,Price records from r. A header row is detected and
// skipped.
func ReadPrices(r io.Reader) (models.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, utils.NewDataErrorf("malformed CSV: %v", err)
	}

	series := make(models.Series, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, utils.NewDataErrorf("row %d: expected at least 2 columns, got %d", i+1, len(record))
		}
		if i == 0 && isHeader(record[1]) {
			continue
		}
		date, err := parseDate(record[0])
		if err != nil {
			return nil, utils.NewDataErrorf("row %d: unparseable date %q", i+1, record[0])
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, utils.NewDataErrorf("row %d: unparseable price %q", i+1, record[1])
		}
		series = append(series, models.Observation{Date: date, Price: price})
	}

	sort.Slice(series, func(a, b int) bool { return series[a].Date.Before(series[b].Date) })
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// LoadEventsCSV reads a date,type,description[,location] file into an
// EventCatalog sorted by date.
func LoadEventsCSV(path string) (models.EventCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadEvents(f)
}

// ReadEvents parses event records from r. A header row is detected and
// skipped; the location column is optional.
func ReadEvents(r io.Reader) (models.EventCatalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, utils.NewDataErrorf("malformed CSV: %v", err)
	}

	catalog := make(models.EventCatalog, 0, len(records))
	for i, record := range records {
		if len(record) < 3 {
			return nil, utils.NewDataErrorf("row %d: expected at least 3 columns, got %d", i+1, len(record))
		}
		if i == 0 {
			if _, err := parseDate(record[0]); err != nil {
				continue // header row
			}
		}
		date, err := parseDate(record[0])
		if err != nil {
			return nil, utils.NewDataErrorf("row %d: unparseable date %q", i+1, record[0])
		}
		event := models.Event{
			Date:        date,
			Type:        strings.TrimSpace(record[1]),
			Description: strings.TrimSpace(record[2]),
		}
		if len(record) > 3 {
			event.Location = strings.TrimSpace(record[3])
		}
		catalog = append(catalog, event)
	}

	sort.SliceStable(catalog, func(a, b int) bool { return catalog[a].Date.Before(catalog[b].Date) })
	return catalog, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, s)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isHeader(priceField string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(priceField), 64)
	return err != nil
}
