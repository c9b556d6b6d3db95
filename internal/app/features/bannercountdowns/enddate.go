package bannercountdowns

import (
	"strings"
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
)

var (
	errEndDateFormat = apperr.Validation("Invalid end date format")
	errEndDatePast   = apperr.Validation("End date must be in the future")
)

// endDateLayouts are tried in order. Layouts without a zone are read as UTC.
var endDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseEndDate parses raw and requires it to be strictly after now.
func parseEndDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range endDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if !t.After(now) {
			return time.Time{}, errEndDatePast
		}
		return t.UTC(), nil
	}
	return time.Time{}, errEndDateFormat
}
