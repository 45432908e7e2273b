// Package calendar holds the event model, the upcoming-events query against
// the Google Calendar API, and the date-window filter applied to the result.
package calendar

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// TimePoint is either a timestamped instant (DateTime, RFC3339) or a whole
// calendar day (Date, YYYY-MM-DD). Exactly one of the two is set; the JSON
// shape mirrors the Google Calendar wire format.
type TimePoint struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Resolve returns the point as an instant: the parsed DateTime for timed
// events, midnight UTC of Date for all-day events.
func (t TimePoint) Resolve() (time.Time, error) {
	switch {
	case t.DateTime != "":
		return time.Parse(time.RFC3339, t.DateTime)
	case t.Date != "":
		return time.Parse(dateLayout, t.Date)
	default:
		return time.Time{}, errors.New("time point has neither dateTime nor date")
	}
}

// Valid reports whether exactly one representation is present and parseable.
func (t TimePoint) Valid() bool {
	if (t.DateTime == "") == (t.Date == "") {
		return false
	}
	_, err := t.Resolve()
	return err == nil
}

// Display formats the point for a user-facing table, with a time of day for
// timed events only.
func (t TimePoint) Display() string {
	ts, err := t.Resolve()
	if err != nil {
		return ""
	}
	if t.Date != "" {
		return ts.Format("Jan 2, 2006")
	}
	return ts.Format("Jan 2, 2006 3:04 PM")
}

// Event is one calendar entry as served to clients. IDs are unique within
// a result set and are the row identity key on the presentation side.
type Event struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Start   TimePoint `json:"start"`
	End     TimePoint `json:"end"`
}

// Valid checks the event invariant: an ID, both ends in exactly one
// TimePoint form, and start not after end.
func (e Event) Valid() bool {
	if e.ID == "" || !e.Start.Valid() || !e.End.Valid() {
		return false
	}
	start, _ := e.Start.Resolve()
	end, _ := e.End.Resolve()
	return !start.After(end)
}

// effectiveDate is the comparison date the filter uses: the calendar day of
// the timed start instant (in the event's own offset), or the all-day start
// date.
func (e Event) effectiveDate() (time.Time, bool) {
	ts, err := e.Start.Resolve()
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
