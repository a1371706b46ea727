// Package aggregation runs circular peak reductions on behalf of the service
// layer: sharded parallel reduction of observation batches and long-lived
// aggregation passes fed by HTTP or queue ingest.
package aggregation

import (
	"fmt"
	"strings"

	"github.com/soltixdb/cyclepeak/internal/circular"
)

// Kind names one of the cyclic domains a peak can be computed over
type Kind string

const (
	KindTimeOfDay Kind = "time_of_day"
	KindDayOfWeek Kind = "day_of_week"
	KindMonth     Kind = "month"
)

// Kinds lists every supported kind in a stable order
var Kinds = []Kind{KindTimeOfDay, KindDayOfWeek, KindMonth}

// ParseKind accepts the canonical names plus a few short aliases
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time_of_day", "time", "tod":
		return KindTimeOfDay, nil
	case "day_of_week", "weekday", "dow":
		return KindDayOfWeek, nil
	case "month":
		return KindMonth, nil
	default:
		return "", fmt.Errorf("unknown peak kind: %q", s)
	}
}

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	switch k {
	case KindTimeOfDay, KindDayOfWeek, KindMonth:
		return true
	}
	return false
}

// Peak is a finalized result with the value rendered as a label
type Peak struct {
	Angle   circular.Angle
	Label   string
	Defined bool
}

// Finalize maps an accumulated state back into k's domain.
// An undefined peak has an empty label.
func (k Kind) Finalize(s circular.State) Peak {
	switch k {
	case KindTimeOfDay:
		r := circular.TimeOfDayDomain.Finalize(s)
		if !r.Defined {
			return Peak{}
		}
		return Peak{Angle: r.Angle, Label: r.Value.String(), Defined: true}
	case KindDayOfWeek:
		r := circular.WeekdayDomain.Finalize(s)
		if !r.Defined {
			return Peak{}
		}
		return Peak{Angle: r.Angle, Label: circular.WeekdayLabel(r.Value), Defined: true}
	case KindMonth:
		r := circular.MonthDomain.Finalize(s)
		if !r.Defined {
			return Peak{}
		}
		return Peak{Angle: r.Angle, Label: circular.MonthLabel(r.Value), Defined: true}
	}
	return Peak{}
}
