// Package dates provides the calendar arithmetic used by expiration and
// billing logic. All helpers operate on calendar days, not elapsed durations:
// two instants on consecutive days are one day apart no matter the clock time.
package dates

import (
	"time"

	"github.com/subtrackr/backend/pkg/enums"
)

// Midnight strips the clock component, keeping the date in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the signed number of whole calendar days from a to b.
// The date components are compared in UTC so daylight-saving shifts never
// produce off-by-one results.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped adds n months and clamps the day-of-month to the last day
// of the target month, so Jan 31 + 1 month is Feb 28 (29 in leap years) rather
// than overflowing into March the way time.AddDate does.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	month := int(m) + n
	year := y + (month-1)/12
	month = (month-1)%12 + 1
	if month <= 0 {
		month += 12
		year--
	}

	if max := DaysInMonth(year, time.Month(month)); d > max {
		d = max
	}
	return time.Date(year, time.Month(month), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// AddCycle advances t by one billing-cycle unit. Unknown cycles are treated as
// monthly so malformed records still produce a usable renewal boundary.
func AddCycle(t time.Time, cycle enums.BillingCycle) time.Time {
	switch cycle {
	case enums.BillingCycleYearly:
		return AddMonthsClamped(t, 12)
	case enums.BillingCycleWeekly:
		return t.AddDate(0, 0, 7)
	default:
		return AddMonthsClamped(t, 1)
	}
}
