package calendar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/api/option"

	"github.com/calevents/calevents/internal/calendar"
)

type fakeGoogle struct {
	status  int
	items   []map[string]any
	lastReq *http.Request
}

func (f *fakeGoogle) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastReq = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if f.status != http.StatusOK {
			w.WriteHeader(f.status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": f.status, "message": http.StatusText(f.status)},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"items": f.items})
	}
}

func item(id, summary string, start, end map[string]string) map[string]any {
	return map[string]any{"id": id, "summary": summary, "start": start, "end": end}
}

func TestExecutorListUpcoming(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	Convey("Given a calendar API returning three upcoming events", t, func() {
		fake := &fakeGoogle{status: http.StatusOK, items: []map[string]any{
			item("e1", "standup", map[string]string{"dateTime": "2025-03-10T09:00:00Z"}, map[string]string{"dateTime": "2025-03-10T09:15:00Z"}),
			item("e2", "offsite", map[string]string{"date": "2025-03-12"}, map[string]string{"date": "2025-03-13"}),
			item("e3", "review", map[string]string{"dateTime": "2025-03-14T16:00:00Z"}, map[string]string{"dateTime": "2025-03-14T17:00:00Z"}),
		}}
		ts := httptest.NewServer(fake.handler())
		defer ts.Close()

		x := calendar.NewExecutor(10, option.WithEndpoint(ts.URL))

		Convey("When listing upcoming events", func() {
			events, err := x.ListUpcoming(context.Background(), "access-token", now)

			Convey("Then the mapped events come back in ascending start order", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(events[0].ID, ShouldEqual, "e1")
				So(events[1].ID, ShouldEqual, "e2")
				So(events[2].ID, ShouldEqual, "e3")
				So(events[1].Start.Date, ShouldEqual, "2025-03-12")
				So(events[2].Start.DateTime, ShouldEqual, "2025-03-14T16:00:00Z")
			})

			Convey("Then the query parameters are fixed by policy", func() {
				So(err, ShouldBeNil)
				So(fake.lastReq.URL.Path, ShouldEndWith, "/calendars/primary/events")
				q := fake.lastReq.URL.Query()
				So(q.Get("singleEvents"), ShouldEqual, "true")
				So(q.Get("orderBy"), ShouldEqual, "startTime")
				So(q.Get("maxResults"), ShouldEqual, "10")
				So(q.Get("timeMin"), ShouldEqual, now.Format(time.RFC3339))
				So(q.Get("timeMax"), ShouldBeEmpty)
			})

			Convey("Then the access credential rides as a bearer token", func() {
				So(err, ShouldBeNil)
				So(fake.lastReq.Header.Get("Authorization"), ShouldEqual, "Bearer access-token")
			})
		})
	})

	Convey("Given a calendar API returning messy data", t, func() {
		fake := &fakeGoogle{status: http.StatusOK, items: []map[string]any{
			item("e2", "later", map[string]string{"dateTime": "2025-03-12T09:00:00Z"}, map[string]string{"dateTime": "2025-03-12T10:00:00Z"}),
			item("e1", "earlier", map[string]string{"dateTime": "2025-03-10T09:00:00Z"}, map[string]string{"dateTime": "2025-03-10T10:00:00Z"}),
			item("e1", "duplicate", map[string]string{"dateTime": "2025-03-10T09:00:00Z"}, map[string]string{"dateTime": "2025-03-10T10:00:00Z"}),
			item("bad", "inverted", map[string]string{"dateTime": "2025-03-11T10:00:00Z"}, map[string]string{"dateTime": "2025-03-11T09:00:00Z"}),
			item("", "no id", map[string]string{"date": "2025-03-11"}, map[string]string{"date": "2025-03-12"}),
		}}
		ts := httptest.NewServer(fake.handler())
		defer ts.Close()

		x := calendar.NewExecutor(10, option.WithEndpoint(ts.URL))

		Convey("When listing upcoming events", func() {
			events, err := x.ListUpcoming(context.Background(), "access-token", now)

			Convey("Then the result is deduplicated, validated and re-ordered", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].ID, ShouldEqual, "e1")
				So(events[1].ID, ShouldEqual, "e2")
			})
		})
	})

	Convey("Given a cap smaller than the upstream page", t, func() {
		fake := &fakeGoogle{status: http.StatusOK, items: []map[string]any{
			item("e1", "a", map[string]string{"date": "2025-03-10"}, map[string]string{"date": "2025-03-11"}),
			item("e2", "b", map[string]string{"date": "2025-03-11"}, map[string]string{"date": "2025-03-12"}),
			item("e3", "c", map[string]string{"date": "2025-03-12"}, map[string]string{"date": "2025-03-13"}),
		}}
		ts := httptest.NewServer(fake.handler())
		defer ts.Close()

		x := calendar.NewExecutor(2, option.WithEndpoint(ts.URL))

		Convey("When listing upcoming events", func() {
			events, err := x.ListUpcoming(context.Background(), "access-token", now)

			Convey("Then no more than maxResults events are returned", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].ID, ShouldEqual, "e1")
				So(events[1].ID, ShouldEqual, "e2")
			})
		})
	})

	Convey("Given a calendar API rejecting the credential", t, func() {
		fake := &fakeGoogle{status: http.StatusUnauthorized}
		ts := httptest.NewServer(fake.handler())
		defer ts.Close()

		x := calendar.NewExecutor(10, option.WithEndpoint(ts.URL))

		Convey("When listing upcoming events", func() {
			_, err := x.ListUpcoming(context.Background(), "stale-token", now)

			Convey("Then the failure is ErrUnauthorized", func() {
				So(err, ShouldWrap, calendar.ErrUnauthorized)
			})
		})
	})

	Convey("Given a calendar API failing with a server error", t, func() {
		fake := &fakeGoogle{status: http.StatusServiceUnavailable}
		ts := httptest.NewServer(fake.handler())
		defer ts.Close()

		x := calendar.NewExecutor(10, option.WithEndpoint(ts.URL))

		Convey("When listing upcoming events", func() {
			_, err := x.ListUpcoming(context.Background(), "access-token", now)

			Convey("Then the failure is ErrUpstreamUnavailable", func() {
				So(err, ShouldWrap, calendar.ErrUpstreamUnavailable)
			})
		})
	})

	Convey("Given an unreachable calendar API", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		x := calendar.NewExecutor(10, option.WithEndpoint(url))

		Convey("When listing upcoming events", func() {
			_, err := x.ListUpcoming(context.Background(), "access-token", now)

			Convey("Then the failure is ErrUpstreamUnavailable", func() {
				So(err, ShouldWrap, calendar.ErrUpstreamUnavailable)
			})
		})
	})
}
