package quota

import (
	"time"

	accountdomain "sendgate-backend/internal/account/domain"
)

// Allow applies the lazy daily reset to u and reports whether u may send
// another email right now. The quota window is the UTC calendar day: when
// LimitResetDate is unset or before today, the counter is zeroed and the
// window re-anchored to today. The reset happens at read time only - a user
// who never triggers a check carries a stale counter until their next one.
//
// Allow never increments the counter. Callers must hold whatever lock
// protects u while calling.
func Allow(u *accountdomain.User, now time.Time) bool {
	today := DayOf(now)
	if u.LimitResetDate == nil || u.LimitResetDate.Before(today) {
		u.EmailsSentToday = 0
		u.LimitResetDate = &today
	}
	return u.EmailsSentToday < u.DailyEmailLimit
}

// DayOf truncates t to its UTC calendar date.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
