package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/soltixdb/cyclepeak/internal/aggregation"
	"github.com/soltixdb/cyclepeak/internal/circular"
)

// Layouts tried, in order, for timestamp observations. Layouts without a
// zone are read in the configured location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseObservation maps one raw value onto the circle of kind.
// Full timestamps are accepted for time_of_day and use their wall clock.
func parseObservation(kind aggregation.Kind, raw string, loc *time.Location) (circular.Angle, error) {
	switch kind {
	case aggregation.KindTimeOfDay:
		if tod, err := circular.ParseTimeOfDay(raw); err == nil {
			return circular.TimeOfDayDomain.ToAngle(tod), nil
		}
		t, err := parseTimestamp(raw, loc)
		if err != nil {
			return 0, fmt.Errorf("unrecognized time of day %q", raw)
		}
		return circular.TimeOfDayDomain.ToAngle(circular.TimeOfDayOf(t)), nil
	case aggregation.KindDayOfWeek:
		t, err := parseTimestamp(raw, loc)
		if err != nil {
			return 0, err
		}
		return circular.WeekdayDomain.ToAngle(t), nil
	case aggregation.KindMonth:
		t, err := parseTimestamp(raw, loc)
		if err != nil {
			return 0, err
		}
		return circular.MonthDomain.ToAngle(t), nil
	}
	return 0, fmt.Errorf("unknown peak kind: %q", kind)
}

// parseObservations converts raw values to angles, skipping blanks.
// It returns the number of skipped nulls.
func parseObservations(kind aggregation.Kind, raw []string, loc *time.Location) ([]circular.Angle, int, error) {
	angles := make([]circular.Angle, 0, len(raw))
	skipped := 0

	for i, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			skipped++
			continue
		}

		a, err := parseObservation(kind, v, loc)
		if err != nil {
			return nil, 0, NewServiceErrorWithDetails(CodeInvalidObservation, err.Error(), map[string]interface{}{
				"index": i,
				"value": v,
				"kind":  kind.String(),
			})
		}
		angles = append(angles, a)
	}

	return angles, skipped, nil
}
