package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/calevents/calevents/internal/calendar"
	"github.com/calevents/calevents/internal/client"
)

func TestClientFetchEvents(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend returning events", t, func() {
		var gotPath string
		var gotBody map[string]string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]calendar.Event{
				{ID: "e1", Summary: "standup", Start: calendar.TimePoint{DateTime: "2025-03-10T09:00:00Z"}, End: calendar.TimePoint{DateTime: "2025-03-10T09:15:00Z"}},
			})
		}))
		defer ts.Close()

		c := client.New(ts.URL+"/", nil)

		Convey("When fetching with an identity token", func() {
			events, err := c.FetchEvents(ctx, "id-token")

			Convey("Then the events decode and the request shape is right", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0].ID, ShouldEqual, "e1")
				So(gotPath, ShouldEqual, "/api/calendar")
				So(gotBody, ShouldResemble, map[string]string{"token": "id-token"})
			})
		})

		Convey("When fetching with an authorization code", func() {
			_, err := c.FetchEventsWithCode(ctx, "auth-code")

			Convey("Then the code rides in the body instead", func() {
				So(err, ShouldBeNil)
				So(gotBody, ShouldResemble, map[string]string{"code": "auth-code"})
			})
		})
	})

	Convey("Given a backend returning a structured error", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token", "code": "invalid_credential"})
		}))
		defer ts.Close()

		Convey("When fetching", func() {
			_, err := client.New(ts.URL, nil).FetchEvents(ctx, "garbage")

			Convey("Then the APIError carries the backend's fields", func() {
				var apiErr *client.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusUnauthorized)
				So(apiErr.Code, ShouldEqual, "invalid_credential")
				So(apiErr.Error(), ShouldEqual, "Invalid token")
			})
		})
	})

	Convey("Given a backend failing without a JSON body", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer ts.Close()

		Convey("When fetching", func() {
			_, err := client.New(ts.URL, nil).FetchEvents(ctx, "id-token")

			Convey("Then a status-based APIError still comes back", func() {
				var apiErr *client.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusBadGateway)
				So(apiErr.Error(), ShouldEqual, "backend returned status 502")
			})
		})
	})

	Convey("Given an unreachable backend", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		Convey("When fetching", func() {
			_, err := client.New(url, nil).FetchEvents(ctx, "id-token")

			Convey("Then a transport error is reported, not an APIError", func() {
				So(err, ShouldNotBeNil)
				var apiErr *client.APIError
				So(errors.As(err, &apiErr), ShouldBeFalse)
			})
		})
	})
}
