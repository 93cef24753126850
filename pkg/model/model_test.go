package model_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/protocol"
)

var _ = Describe("Coordinate", func() {
	It("decodes GeoJSON order", func() {
		var c model.Coordinate
		Expect(json.Unmarshal([]byte(`[-96.8, 32.7]`), &c)).To(Succeed())
		Expect(c.Lon).To(Equal(-96.8))
		Expect(c.Lat).To(Equal(32.7))
	})

	It("decodes lat/lon objects", func() {
		var c model.Coordinate
		Expect(json.Unmarshal([]byte(`{"lat": 32.7, "lon": -96.8}`), &c)).To(Succeed())
		Expect(c).To(Equal(model.Coordinate{Lat: 32.7, Lon: -96.8}))
	})

	It("rejects incomplete coordinates", func() {
		var c model.Coordinate
		Expect(json.Unmarshal([]byte(`[1]`), &c)).NotTo(Succeed())
		Expect(json.Unmarshal([]byte(`{"lat": 1}`), &c)).NotTo(Succeed())
		Expect(json.Unmarshal([]byte(`"1,2"`), &c)).NotTo(Succeed())
	})

	It("encodes GeoJSON order", func() {
		b, err := json.Marshal(model.Coordinate{Lat: 1.5, Lon: 2.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(MatchJSON(`[2.5, 1.5]`))
	})
})

var _ = Describe("Location", func() {
	It("decodes a GeoJSON feature", func() {
		var l model.Location
		err := json.Unmarshal([]byte(`{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-96.8, 32.7]},
			"properties": {"id": "loc-1", "timestamp": "2015-03-31T18:37:49.000Z", "data": {"vehicleSpeed": 42}}
		}`), &l)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.ID).To(Equal("loc-1"))
		Expect(l.Coordinate).To(Equal(model.Coordinate{Lat: 32.7, Lon: -96.8}))
		Expect(l.Timestamp).To(BeTemporally("==", time.Date(2015, 3, 31, 18, 37, 49, 0, time.UTC)))
		Expect(l.Data).To(HaveKeyWithValue("vehicleSpeed", 42.0))
	})

	It("rejects other geometries", func() {
		var l model.Location
		err := json.Unmarshal([]byte(`{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}`), &l)
		Expect(err).To(HaveOccurred())
	})

	It("round-trips", func() {
		in := model.Location{ID: "loc-2", Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Coordinate: model.Coordinate{Lat: 1, Lon: 2}}
		b, err := json.Marshal(in)
		Expect(err).NotTo(HaveOccurred())
		var out model.Location
		Expect(json.Unmarshal(b, &out)).To(Succeed())
		Expect(out.ID).To(Equal(in.ID))
		Expect(out.Coordinate).To(Equal(in.Coordinate))
	})
})

var _ = Describe("Boundary", func() {
	DescribeTable("round-trips by type",
		func(b model.Boundary, expected string) {
			encoded, err := json.Marshal(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(encoded).To(MatchJSON(expected))

			var decoded model.Boundary
			Expect(json.Unmarshal(encoded, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(b))
		},
		Entry("radius",
			model.NewRadiusBoundary(model.Coordinate{Lat: 32.7, Lon: -96.8}, 500),
			`{"type": "radius", "lat": 32.7, "lon": -96.8, "radius": 500}`),
		Entry("polygon",
			model.NewPolygonBoundary([]model.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 0, Lon: 0}}),
			`{"type": "polygon", "coordinates": [[[0, 0], [0, 1], [1, 1], [0, 0]]]}`),
		Entry("parametric",
			model.NewParametricBoundary("vehicleSpeed", nil, floatPtr(80)),
			`{"type": "parametric", "parameter": "vehicleSpeed", "max": 80}`),
	)

	It("rejects unknown types", func() {
		var b model.Boundary
		Expect(json.Unmarshal([]byte(`{"type": "hexagon"}`), &b)).NotTo(Succeed())
		_, err := json.Marshal(model.Boundary{Type: "hexagon"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a type without a value", func() {
		_, err := json.Marshal(model.Boundary{Type: model.BoundaryRadius})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Dtc", func() {
	It("decodes a bare code", func() {
		var d model.Dtc
		Expect(json.Unmarshal([]byte(`{"number": "P0300", "description": "Random misfire"}`), &d)).To(Succeed())
		Expect(d.Number).To(Equal("P0300"))
		Expect(d.Active()).To(BeFalse())
	})

	It("decodes an enveloped code", func() {
		var d model.Dtc
		Expect(json.Unmarshal([]byte(`{"code": {"number": "P0420", "description": "Catalyst efficiency", "start": "2016-01-01T00:00:00Z"}}`), &d)).To(Succeed())
		Expect(d.Number).To(Equal("P0420"))
		Expect(d.Active()).To(BeTrue())
	})
})

var _ = Describe("Wrapped", func() {
	It("plucks its item", func() {
		w := model.Wrapped[model.Device]{Item: &model.Device{ID: "abc123"}}
		d, err := model.PluckItem(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.ID).To(Equal("abc123"))
	})

	It("fails when the item is missing", func() {
		_, err := model.Wrapped[model.Device]{}.Pluck()
		Expect(err).To(MatchError(protocol.ErrMissingItem))
	})
})

var _ = Describe("Timestamp", func() {
	expected := time.Date(2016, 2, 3, 4, 5, 6, 0, time.UTC)

	DescribeTable("decodes",
		func(input string) {
			var ts model.Timestamp
			Expect(json.Unmarshal([]byte(input), &ts)).To(Succeed())
			Expect(ts.Time).To(BeTemporally("==", expected))
		},
		Entry("ISO-8601", `"2016-02-03T04:05:06.000Z"`),
		Entry("epoch milliseconds", `1454472306000`),
		Entry("quoted epoch milliseconds", `"1454472306000"`),
	)

	It("decodes null as zero", func() {
		var ts model.Timestamp
		Expect(json.Unmarshal([]byte(`null`), &ts)).To(Succeed())
		Expect(ts.IsZero()).To(BeTrue())
	})

	It("rejects garbage", func() {
		var ts model.Timestamp
		Expect(json.Unmarshal([]byte(`"yesterday"`), &ts)).NotTo(Succeed())
	})
})

var _ = Describe("Queries", func() {
	It("omits unset page parameters", func() {
		Expect(model.PageValues(nil, nil)).To(BeEmpty())
		q := model.PageValues(model.Int(10), model.Int(20))
		Expect(q.Get("limit")).To(Equal("10"))
		Expect(q.Get("offset")).To(Equal("20"))
	})

	It("encodes series windows", func() {
		since := time.Date(2016, 2, 3, 4, 5, 6, 7000000, time.FixedZone("CST", -6*3600))
		q := model.EventQuery{
			SeriesQuery: model.SeriesQuery{Since: &since, Limit: model.Int(5), SortDir: model.SortAscending},
			Type:        "rule-enter",
		}.Values()
		Expect(q.Get("since")).To(Equal("2016-02-03T10:05:06.007Z"))
		Expect(q.Has("until")).To(BeFalse())
		Expect(q.Get("limit")).To(Equal("5"))
		Expect(q.Get("sortDir")).To(Equal("asc"))
		Expect(q.Get("type")).To(Equal("rule-enter"))
		Expect(q.Has("objectId")).To(BeFalse())
	})
})

func floatPtr(v float64) *float64 {
	return &v
}
