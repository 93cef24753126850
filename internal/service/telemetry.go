package service

import (
	"strings"

	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Locations is served by the telemetry service.
type Locations struct {
	client *rest.Client
}

func NewLocations(c *rest.Client) *Locations {
	return &Locations{client: c}
}

func (s *Locations) ForDevice(deviceID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Location]] {
	return rest.GetSeries[model.Location](s.client, rest.Path("devices", deviceID, "locations"), q.Values())
}

// Snapshots is served by the telemetry service.
type Snapshots struct {
	client *rest.Client
}

func NewSnapshots(c *rest.Client) *Snapshots {
	return &Snapshots{client: c}
}

// ForDevice returns snapshots containing the requested fields (e.g., "rpm", "vehicleSpeed").
// With no fields, the service returns every field it has.
func (s *Snapshots) ForDevice(deviceID string, fields []string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Snapshot]] {
	values := q.Values()
	if len(fields) > 0 {
		values.Set("fields", strings.Join(fields, ","))
	}
	return rest.GetSeries[model.Snapshot](s.client, rest.Path("devices", deviceID, "snapshots"), values)
}

// Messages is served by the telemetry service.
type Messages struct {
	client *rest.Client
}

func NewMessages(c *rest.Client) *Messages {
	return &Messages{client: c}
}

func (s *Messages) ForDevice(deviceID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Message]] {
	return rest.GetSeries[model.Message](s.client, rest.Path("devices", deviceID, "messages"), q.Values())
}

func (s *Messages) Get(messageID string) async.Call[model.Wrapped[model.Message]] {
	return rest.GetItem[model.Message](s.client, rest.Path("messages", messageID), nil)
}
