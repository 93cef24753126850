package service_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vinli/vinli-net/internal/authentication"
	"github.com/vinli/vinli-net/internal/codec"
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/internal/service"
	"github.com/vinli/vinli-net/pkg/model"
)

const base = "https://svc.vin.li/api/v1/"

var _ = Describe("Services", func() {
	var (
		transport *httpmock.MockTransport
		client    *rest.Client
		ctx       context.Context
	)

	respond := func(method, path string, body string) {
		transport.RegisterResponder(method, base+path, func(req *http.Request) (*http.Response, error) {
			Expect(req.Header.Get("Authorization")).To(Equal("Bearer svc-token"))
			return httpmock.NewStringResponse(http.StatusOK, body), nil
		})
	}

	respondWithQuery := func(method, path string, query url.Values, body string) {
		transport.RegisterResponderWithQuery(method, base+path, query, httpmock.NewStringResponder(http.StatusOK, body))
	}

	BeforeEach(func() {
		transport = httpmock.NewMockTransport()
		u, err := url.Parse(base)
		Expect(err).NotTo(HaveOccurred())
		client = rest.NewClient(u, &http.Client{Transport: transport}, authentication.NewBearer("svc-token"), "", codec.NewVinli())
		ctx = context.Background()
	})

	Describe("Devices", func() {
		It("lists with default pagination", func() {
			transport.RegisterResponder(http.MethodGet, base+"devices", func(req *http.Request) (*http.Response, error) {
				Expect(req.URL.RawQuery).To(BeEmpty())
				return httpmock.NewStringResponse(http.StatusOK, `{"devices": [{"id": "d1"}]}`), nil
			})
			page, err := service.NewDevices(client).List(nil, nil).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
		})

		It("lists with explicit pagination", func() {
			respondWithQuery(http.MethodGet, "devices", url.Values{"limit": {"10"}, "offset": {"20"}}, `{"devices": []}`)
			_, err := service.NewDevices(client).List(model.Int(10), model.Int(20)).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(transport.GetTotalCallCount()).To(Equal(1))
		})

		It("gets one device", func() {
			respond(http.MethodGet, "devices/abc123", `{"device": {"id": "abc123"}}`)
			w, err := service.NewDevices(client).Get("abc123").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Item.ID).To(Equal("abc123"))
		})
	})

	Describe("Vehicles", func() {
		It("lists, fetches latest and fetches by ID", func() {
			respond(http.MethodGet, "devices/d1/vehicles", `{"vehicles": [{"id": "v1"}, {"id": "v2"}]}`)
			respond(http.MethodGet, "devices/d1/vehicles/_latest", `{"vehicle": {"id": "v2"}}`)
			respond(http.MethodGet, "vehicles/v1", `{"vehicle": {"id": "v1", "make": "Honda"}}`)
			vehicles := service.NewVehicles(client)

			page, err := vehicles.ForDevice("d1", nil, nil).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(2))

			latest, err := vehicles.Latest("d1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(latest.Item.ID).To(Equal("v2"))

			v, err := vehicles.Get("v1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Item.Make).To(Equal("Honda"))
		})
	})

	Describe("Diagnostics", func() {
		It("diagnoses a code", func() {
			respond(http.MethodGet, "codes/P0300", `{"code": {"number": "P0300", "description": "Random misfire"}}`)
			dtc, err := service.NewDiagnostics(client).Diagnose("P0300").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(dtc.Description).To(Equal("Random misfire"))
		})

		It("lists a device's codes", func() {
			respondWithQuery(http.MethodGet, "devices/d1/codes", url.Values{"limit": {"2"}}, `{"codes": [{"number": "P0420"}], "meta": {"pagination": {"remaining": 0}}}`)
			series, err := service.NewDiagnostics(client).Codes("d1", model.SeriesQuery{Limit: model.Int(2)}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Items[0].Number).To(Equal("P0420"))
		})
	})

	Describe("Rules", func() {
		It("creates and deletes", func() {
			transport.RegisterResponder(http.MethodPost, base+"devices/d1/rules", func(req *http.Request) (*http.Response, error) {
				body, err := io.ReadAll(req.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(body).To(MatchJSON(`{"rule": {"name": "speeding", "boundaries": [{"type": "parametric", "parameter": "vehicleSpeed", "min": 120}]}}`))
				return httpmock.NewStringResponse(http.StatusCreated, `{"rule": {"id": "r1", "name": "speeding"}}`), nil
			})
			transport.RegisterResponder(http.MethodDelete, base+"rules/r1", httpmock.NewStringResponder(http.StatusNoContent, ""))
			rules := service.NewRules(client)

			threshold := 120.0
			w, err := rules.Create("d1", model.RuleSeed{
				Name:       "speeding",
				Boundaries: []model.Boundary{model.NewParametricBoundary("vehicleSpeed", &threshold, nil)},
			}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Item.ID).To(Equal("r1"))

			_, err = rules.Delete("r1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(transport.GetCallCountInfo()).To(HaveKeyWithValue("DELETE "+base+"rules/r1", 1))
		})

		It("lists and fetches", func() {
			respond(http.MethodGet, "devices/d1/rules", `{"rules": [{"id": "r1", "boundaries": [{"type": "radius", "lat": 1, "lon": 2, "radius": 3}]}]}`)
			respond(http.MethodGet, "rules/r1", `{"rule": {"id": "r1", "evaluated": true}}`)
			rules := service.NewRules(client)

			page, err := rules.ForDevice("d1", nil, nil).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items[0].Boundaries[0].Radius.Radius).To(Equal(3.0))

			w, err := rules.Get("r1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Item.Evaluated).To(BeTrue())
		})
	})

	Describe("Events", func() {
		It("filters device events", func() {
			since := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
			respondWithQuery(http.MethodGet, "devices/d1/events",
				url.Values{"type": {"rule-enter"}, "since": {"2016-01-01T00:00:00.000Z"}},
				`{"events": [{"id": "e1", "eventType": "rule-enter", "object": {"id": "r1", "type": "rule"}}]}`)
			series, err := service.NewEvents(client).ForDevice("d1", model.EventQuery{
				SeriesQuery: model.SeriesQuery{Since: &since},
				Type:        "rule-enter",
			}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Items[0].Object.ID).To(Equal("r1"))
		})

		It("fetches events and notifications", func() {
			respond(http.MethodGet, "events/e1", `{"event": {"id": "e1"}}`)
			respond(http.MethodGet, "events/e1/notifications", `{"notifications": [{"id": "n1", "state": "completed", "responseCode": 200}]}`)
			respond(http.MethodGet, "notifications/n1", `{"notification": {"id": "n1"}}`)
			events := service.NewEvents(client)

			e, err := events.Get("e1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Item.ID).To(Equal("e1"))

			ns, err := events.Notifications("e1", model.SeriesQuery{}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ns.Items[0].ResponseCode).To(Equal(200))

			n, err := events.Notification("n1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Item.ID).To(Equal("n1"))
		})
	})

	Describe("Subscriptions", func() {
		It("supports the full lifecycle", func() {
			respond(http.MethodGet, "devices/d1/subscriptions", `{"subscriptions": [{"id": "s1"}]}`)
			respond(http.MethodPost, "devices/d1/subscriptions", `{"subscription": {"id": "s2", "eventType": "startup"}}`)
			respond(http.MethodGet, "subscriptions/s2", `{"subscription": {"id": "s2"}}`)
			transport.RegisterResponder(http.MethodPut, base+"subscriptions/s2", func(req *http.Request) (*http.Response, error) {
				body, err := io.ReadAll(req.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(body).To(MatchJSON(`{"subscription": {"url": "https://example.com/new"}}`))
				return httpmock.NewStringResponse(http.StatusOK, `{"subscription": {"id": "s2", "url": "https://example.com/new"}}`), nil
			})
			respond(http.MethodGet, "subscriptions/s2/notifications", `{"notifications": []}`)
			transport.RegisterResponder(http.MethodDelete, base+"subscriptions/s2", httpmock.NewStringResponder(http.StatusNoContent, ""))
			subs := service.NewSubscriptions(client)

			page, err := subs.ForDevice("d1", nil, nil).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))

			created, err := subs.Create("d1", model.SubscriptionSeed{EventType: "startup", URL: "https://example.com/hook"}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Item.EventType).To(Equal("startup"))

			_, err = subs.Get("s2").Do(ctx)
			Expect(err).NotTo(HaveOccurred())

			updated, err := subs.Update("s2", model.SubscriptionUpdate{URL: "https://example.com/new"}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Item.URL).To(Equal("https://example.com/new"))

			ns, err := subs.Notifications("s2", model.SeriesQuery{}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ns.Items).To(BeEmpty())

			_, err = subs.Delete("s2").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Telemetry", func() {
		It("reads locations", func() {
			respond(http.MethodGet, "devices/d1/locations", `{"locations": {"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-96.8, 32.7]}, "properties": {"id": "l1"}}]}}`)
			series, err := service.NewLocations(client).ForDevice("d1", model.SeriesQuery{}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Items[0].Coordinate.Lon).To(Equal(-96.8))
		})

		It("requests snapshot fields", func() {
			respondWithQuery(http.MethodGet, "devices/d1/snapshots", url.Values{"fields": {"rpm,vehicleSpeed"}},
				`{"snapshots": [{"id": "s1", "data": {"rpm": 900, "vehicleSpeed": 0}}]}`)
			series, err := service.NewSnapshots(client).ForDevice("d1", []string{"rpm", "vehicleSpeed"}, model.SeriesQuery{}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Items[0].Data).To(HaveKeyWithValue("rpm", 900.0))
		})

		It("reads messages", func() {
			respond(http.MethodGet, "devices/d1/messages", `{"messages": [{"id": "m1", "data": {"foo": "bar"}}]}`)
			respond(http.MethodGet, "messages/m1", `{"message": {"id": "m1"}}`)
			messages := service.NewMessages(client)

			series, err := messages.ForDevice("d1", model.SeriesQuery{}).Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Items[0].Data).To(HaveKeyWithValue("foo", "bar"))

			m, err := messages.Get("m1").Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Item.ID).To(Equal("m1"))
		})
	})

	Describe("Users", func() {
		It("fetches the current user", func() {
			respond(http.MethodGet, "users/_current", `{"user": {"id": "u1", "firstName": "Ada"}}`)
			w, err := service.NewUsers(client).Current().Do(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Item.FirstName).To(Equal("Ada"))
		})
	})
})
