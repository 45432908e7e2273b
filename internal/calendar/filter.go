package calendar

import (
	"fmt"
	"time"
)

// DateWindow bounds the filtered view of an event set. A nil bound is open
// on that side. Bounds are calendar dates at midnight UTC; the window is
// owned by the presentation side and recomputed wholesale, never merged.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateWindow builds a window from optional YYYY-MM-DD strings.
func ParseDateWindow(from, to string) (DateWindow, error) {
	var w DateWindow
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return DateWindow{}, fmt.Errorf("invalid start date %q: %w", from, err)
		}
		w.Start = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return DateWindow{}, fmt.Errorf("invalid end date %q: %w", to, err)
		}
		w.End = &t
	}
	return w, nil
}

// FilterEvents returns the events whose effective date falls inside the
// window, inclusive on both bounds, in their original order. The input is
// never mutated; the result is always a fresh slice. An inverted window
// matches nothing.
func FilterEvents(events []Event, w DateWindow) []Event {
	if w.Start == nil && w.End == nil {
		out := make([]Event, len(events))
		copy(out, events)
		return out
	}

	out := make([]Event, 0, len(events))
	if w.Start != nil && w.End != nil && w.Start.After(*w.End) {
		return out
	}
	for _, e := range events {
		d, ok := e.effectiveDate()
		if !ok {
			continue
		}
		if w.Start != nil && d.Before(*w.Start) {
			continue
		}
		if w.End != nil && d.After(*w.End) {
			continue
		}
		out = append(out, e)
	}
	return out
}
