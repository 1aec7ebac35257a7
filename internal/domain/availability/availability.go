package availability

import (
	"log/slog"
	"sort"
	"time"

	"chaletbook/internal/domain/daterange"
)

// Period is a span already committed to another booking. Both endpoints
// are occupied days.
type Period struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// Calendar answers "is this day bookable" for one chalet. It is built
// once per reserved-period snapshot and never mutated afterwards.
type Calendar struct {
	disabled map[time.Time]struct{}
}

// Build expands every reserved period into its covered days and unions
// them. Overlapping periods collapse naturally. A period whose checkout
// precedes its checkin is a data inconsistency from the backend: it is
// skipped and logged, never fatal.
func Build(periods []Period, logger *slog.Logger) *Calendar {
	cal := &Calendar{disabled: make(map[time.Time]struct{})}
	for _, p := range periods {
		if daterange.Day(p.CheckOut).Before(daterange.Day(p.CheckIn)) {
			if logger != nil {
				logger.Warn("reserved period has checkout before checkin, skipping",
					"check_in", p.CheckIn, "check_out", p.CheckOut)
			}
			continue
		}
		daterange.EachDay(p.CheckIn, p.CheckOut, func(d time.Time) {
			cal.disabled[d] = struct{}{}
		})
	}
	return cal
}

// IsDisabled reports whether the day is covered by any reserved period.
func (c *Calendar) IsDisabled(d time.Time) bool {
	_, ok := c.disabled[daterange.Day(d)]
	return ok
}

// Blocks reports whether any day strictly between start and end is
// disabled, i.e. the stay would straddle an existing reservation.
// The endpoints themselves are not checked here; callers validate them
// as individual picks.
func (c *Calendar) Blocks(start, end time.Time) bool {
	start, end = daterange.Day(start), daterange.Day(end)
	for d := start.Add(24 * time.Hour); d.Before(end); d = d.Add(24 * time.Hour) {
		if _, ok := c.disabled[d]; ok {
			return true
		}
	}
	return false
}

// DisabledDays returns the covered days in ascending order, for
// rendering a calendar widget.
func (c *Calendar) DisabledDays() []time.Time {
	days := make([]time.Time, 0, len(c.disabled))
	for d := range c.disabled {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
