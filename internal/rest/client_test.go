package rest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/vinli/vinli-net/internal/authentication"
	"github.com/vinli/vinli-net/internal/codec"
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/mocks"
	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/protocol"
)

const (
	token     = "test-token"
	userAgent = "vinli-test/1.0"
)

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

var _ = Describe("Client", func() {
	var (
		ctrl   *gomock.Controller
		doer   *mocks.HTTPDoer
		client *rest.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		doer = mocks.NewHTTPDoer(ctrl)
		base, err := url.Parse("https://platform.vin.li/api/v1/")
		Expect(err).NotTo(HaveOccurred())
		client = rest.NewClient(base, doer, authentication.NewBearer(token), userAgent, codec.NewVinli())
		ctx = context.Background()
		DeferCleanup(func() {
			ctrl.Finish()
		})
	})

	Describe("Resolve", func() {
		It("resolves paths beneath the base URL", func() {
			u, err := client.Resolve(rest.Path("devices", "a b/c"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.String()).To(Equal("https://platform.vin.li/api/v1/devices/a%20b%2Fc"))
		})

		It("keeps absolute links", func() {
			u, err := client.Resolve("https://events.vin.li/api/v1/events/e1", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.String()).To(Equal("https://events.vin.li/api/v1/events/e1"))
		})

		It("resolves host-relative links against the base host", func() {
			u, err := client.Resolve("/api/v1/devices?offset=20", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.String()).To(Equal("https://platform.vin.li/api/v1/devices?offset=20"))
		})

		It("merges query parameters", func() {
			u, err := client.Resolve("devices?limit=5", url.Values{"offset": {"10"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Query().Get("limit")).To(Equal("5"))
			Expect(u.Query().Get("offset")).To(Equal("10"))
		})
	})

	It("does not send anything until a call is started", func() {
		// The controller fails the test on any unexpected Do.
		_ = rest.GetItem[model.Device](client, "devices/d1", nil)
		_ = rest.Delete(client, "rules/r1")
	})

	It("attaches authentication and content headers", func() {
		doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.URL.String()).To(Equal("https://platform.vin.li/api/v1/devices/d1/rules"))
			Expect(req.Header.Get("Authorization")).To(Equal("Bearer " + token))
			Expect(req.Header.Get("User-Agent")).To(Equal(userAgent))
			Expect(req.Header.Get("Accept")).To(Equal("application/json"))
			Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))
			body, err := io.ReadAll(req.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(MatchJSON(`{"rule": {"name": "home", "boundaries": [{"type": "radius", "lat": 1, "lon": 2, "radius": 100}]}}`))
			return jsonResponse(http.StatusCreated, `{"rule": {"id": "r1", "name": "home"}}`), nil
		})
		seed := model.RuleSeed{
			Name:       "home",
			Boundaries: []model.Boundary{model.NewRadiusBoundary(model.Coordinate{Lat: 1, Lon: 2}, 100)},
		}
		w, err := rest.SendItem[model.Rule](client, http.MethodPost, rest.Path("devices", "d1", "rules"), seed).Do(ctx)
		Expect(err).NotTo(HaveOccurred())
		rule, err := w.Pluck()
		Expect(err).NotTo(HaveOccurred())
		Expect(rule.ID).To(Equal("r1"))
	})

	It("omits Content-Type when there is no body", func() {
		doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
			Expect(req.Header.Get("Content-Type")).To(BeEmpty())
			Expect(req.Body).To(BeNil())
			return jsonResponse(http.StatusNoContent, ``), nil
		})
		_, err := rest.Delete(client, "rules/r1").Do(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports non-2xx statuses with their body", func() {
		doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusNotFound, `{"message": "No such device"}`), nil)
		_, err := rest.GetItem[model.Device](client, "devices/nope", nil).Do(ctx)
		var httpErr *protocol.HttpError
		Expect(errors.As(err, &httpErr)).To(BeTrue())
		Expect(httpErr.Code).To(Equal(http.StatusNotFound))
		Expect(string(httpErr.Body)).To(ContainSubstring("No such device"))
		Expect(httpErr.URL).To(Equal("https://platform.vin.li/api/v1/devices/nope"))
		Expect(protocol.Temporary(err)).To(BeFalse())
	})

	It("reports transport failures", func() {
		cause := errors.New("connection refused")
		doer.EXPECT().Do(gomock.Any()).Return(nil, cause)
		_, err := rest.GetPage[model.Device](client, "devices", nil).Do(ctx)
		var transportErr *protocol.TransportError
		Expect(errors.As(err, &transportErr)).To(BeTrue())
		Expect(err).To(MatchError(cause))
		Expect(protocol.Temporary(err)).To(BeTrue())
	})

	It("rejects oversized responses", func() {
		huge := io.NopCloser(io.LimitReader(zeroReader{}, rest.MaxResponseLength+1))
		doer.EXPECT().Do(gomock.Any()).Return(&http.Response{StatusCode: http.StatusOK, Body: huge}, nil)
		_, err := client.Request(http.MethodGet, "devices", nil, nil).Do(ctx)
		Expect(err).To(MatchError(protocol.ErrBadResponse))
	})

	It("reports undecodable bodies", func() {
		doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusOK, `<html>`), nil)
		_, err := rest.GetSeries[model.Event](client, "devices/d1/events", nil).Do(ctx)
		Expect(err).To(MatchError(protocol.ErrBadResponse))
	})

	It("decodes bare values", func() {
		doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusOK, `{"number": "P0300", "description": "Misfire"}`), nil)
		dtc, err := rest.Get[model.Dtc](client, "codes/P0300", nil).Do(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(dtc.Description).To(Equal("Misfire"))
	})
})

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = ' '
	}
	return len(p), nil
}
