package selection

import (
	"errors"
	"time"

	"chaletbook/internal/domain/availability"
	"chaletbook/internal/domain/daterange"
)

var (
	ErrStartRequired    = errors.New("selection: pick a check-in date first")
	ErrDateDisabled     = errors.New("selection: date is already reserved")
	ErrEndNotAfterStart = errors.New("selection: check-out must be after check-in")
	ErrRangeBlocked     = errors.New("selection: range crosses a reserved period")
	ErrUnknownSlot      = errors.New("selection: unknown slot")
)

type Slot string

const (
	SlotStart Slot = "start"
	SlotEnd   Slot = "end"
)

// Selection is the picker's externally visible state. It round-trips
// through JSON so a session can be rehydrated on any instance.
type Selection struct {
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	ActiveSlot Slot       `json:"activeSlot"`
}

// Complete reports whether both endpoints are chosen.
func (s Selection) Complete() bool {
	return s.Start != nil && s.End != nil
}

// Range returns the selected stay range; only valid when Complete.
func (s Selection) Range() (daterange.Range, error) {
	if !s.Complete() {
		return daterange.Range{}, ErrStartRequired
	}
	return daterange.New(*s.Start, *s.End)
}

// Picker drives the two-slot check-in/check-out selection against a
// chalet's availability calendar. Transition rules:
//
//	start pick: always allowed on an open day; invalidated check-outs
//	are cleared rather than rejected, and the active slot advances.
//	end pick: requires a check-in, must land after it, and the span in
//	between must be free.
//
// Disabled days are rejected here even though the calendar widget
// should never offer them; a stale widget must not be able to push an
// invalid pick through.
type Picker struct {
	sel      Selection
	calendar *availability.Calendar
	onChange func(Selection)
}

func NewPicker(cal *availability.Calendar) *Picker {
	return &Picker{
		sel:      Selection{ActiveSlot: SlotStart},
		calendar: cal,
	}
}

// Restore rebuilds a picker around previously captured state.
func Restore(sel Selection, cal *availability.Calendar) *Picker {
	if sel.ActiveSlot == "" {
		sel.ActiveSlot = SlotStart
	}
	return &Picker{sel: sel, calendar: cal}
}

// OnChange registers a callback fired after every successful pick.
func (p *Picker) OnChange(fn func(Selection)) {
	p.onChange = fn
}

// Open switches the active slot. The end slot is only enterable once a
// check-in exists.
func (p *Picker) Open(slot Slot) error {
	switch slot {
	case SlotStart:
		p.sel.ActiveSlot = SlotStart
	case SlotEnd:
		if p.sel.Start == nil {
			return ErrStartRequired
		}
		p.sel.ActiveSlot = SlotEnd
	default:
		return ErrUnknownSlot
	}
	return nil
}

// Pick applies a date to the active slot. A rejected pick leaves the
// selection untouched.
func (p *Picker) Pick(date time.Time) error {
	d := daterange.Day(date)
	if p.calendar != nil && p.calendar.IsDisabled(d) {
		return ErrDateDisabled
	}
	switch p.sel.ActiveSlot {
	case SlotEnd:
		return p.pickEnd(d)
	default:
		return p.pickStart(d)
	}
}

func (p *Picker) pickStart(d time.Time) error {
	p.sel.Start = &d
	if p.sel.End != nil {
		end := daterange.Day(*p.sel.End)
		if !end.After(d) || (p.calendar != nil && p.calendar.Blocks(d, end)) {
			p.sel.End = nil
		}
	}
	p.sel.ActiveSlot = SlotEnd
	p.changed()
	return nil
}

func (p *Picker) pickEnd(d time.Time) error {
	if p.sel.Start == nil {
		return ErrStartRequired
	}
	start := daterange.Day(*p.sel.Start)
	if !d.After(start) {
		return ErrEndNotAfterStart
	}
	if p.calendar != nil && p.calendar.Blocks(start, d) {
		return ErrRangeBlocked
	}
	p.sel.End = &d
	p.sel.ActiveSlot = SlotStart
	p.changed()
	return nil
}

func (p *Picker) changed() {
	if p.onChange != nil {
		p.onChange(p.sel)
	}
}

// Selection returns a copy of the current state.
func (p *Picker) Selection() Selection {
	return p.sel
}
