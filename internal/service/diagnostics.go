package service

import (
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Diagnostics is served by the diagnostics service.
type Diagnostics struct {
	client *rest.Client
}

func NewDiagnostics(c *rest.Client) *Diagnostics {
	return &Diagnostics{client: c}
}

// Diagnose looks up a trouble code (e.g., "P0300").
func (s *Diagnostics) Diagnose(code string) async.Call[model.Dtc] {
	return rest.Get[model.Dtc](s.client, rest.Path("codes", code), nil)
}

// Codes returns the trouble codes a device has reported.
func (s *Diagnostics) Codes(deviceID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Dtc]] {
	return rest.GetSeries[model.Dtc](s.client, rest.Path("devices", deviceID, "codes"), q.Values())
}
