package synth

import (
	"fmt"
	"time"
)

// WeekdayPolicy decides which calendar days qualify as business days when
// walking backwards through the calendar. Two policies exist because the
// product historically shipped with both; the choice is deliberate
// configuration, never an implicit default of the code path taken.
type WeekdayPolicy string

const (
	// WeekdaysOnly accepts Monday through Friday. This is the default.
	WeekdaysOnly WeekdayPolicy = "weekdays"

	// AllDays accepts every day of the week.
	AllDays WeekdayPolicy = "all"
)

// ParseWeekdayPolicy parses a policy name from configuration.
func ParseWeekdayPolicy(s string) (WeekdayPolicy, error) {
	switch WeekdayPolicy(s) {
	case WeekdaysOnly, AllDays:
		return WeekdayPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid weekday policy: %s (must be %q or %q)", s, WeekdaysOnly, AllDays)
	}
}

// Includes reports whether the given weekday qualifies as a business day.
func (p WeekdayPolicy) Includes(d time.Weekday) bool {
	if p == AllDays {
		return true
	}
	return d != time.Saturday && d != time.Sunday
}
