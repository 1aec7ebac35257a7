package daterange

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be after start")
)

const day = 24 * time.Hour

// Day truncates a timestamp to its calendar day, discarding the
// time-of-day and timezone offset. All range arithmetic in this module
// operates on Day-normalized values so daylight-saving shifts cannot
// produce fractional nights.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// Range is a stay interval: the guest arrives on Start and leaves on
// End, paying for the nights in between.
type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if !Day(r.End).After(Day(r.Start)) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts billable nights between the normalized endpoints.
func (r Range) Nights() int {
	return NightsBetween(r.Start, r.End)
}

// NightsBetween is Nights for loose endpoints. Zero when end does not
// follow start.
func NightsBetween(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if !end.After(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// EachDay calls fn for every calendar day from first through last,
// both endpoints included.
func EachDay(first, last time.Time, fn func(time.Time)) {
	first, last = Day(first), Day(last)
	for d := first; !d.After(last); d = d.Add(day) {
		fn(d)
	}
}
