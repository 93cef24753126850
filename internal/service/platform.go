package service

import (
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Devices is served by the platform service.
type Devices struct {
	client *rest.Client
}

func NewDevices(c *rest.Client) *Devices {
	return &Devices{client: c}
}

// List returns the devices available to the token. Nil parameters use the service defaults.
func (s *Devices) List(limit, offset *int) async.Call[*model.Page[model.Device]] {
	return rest.GetPage[model.Device](s.client, "devices", model.PageValues(limit, offset))
}

func (s *Devices) Get(deviceID string) async.Call[model.Wrapped[model.Device]] {
	return rest.GetItem[model.Device](s.client, rest.Path("devices", deviceID), nil)
}

// Vehicles is served by the platform service.
type Vehicles struct {
	client *rest.Client
}

func NewVehicles(c *rest.Client) *Vehicles {
	return &Vehicles{client: c}
}

// ForDevice returns the vehicles a device has been plugged into.
func (s *Vehicles) ForDevice(deviceID string, limit, offset *int) async.Call[*model.Page[model.Vehicle]] {
	return rest.GetPage[model.Vehicle](s.client, rest.Path("devices", deviceID, "vehicles"), model.PageValues(limit, offset))
}

// Latest returns the vehicle a device was most recently plugged into.
func (s *Vehicles) Latest(deviceID string) async.Call[model.Wrapped[model.Vehicle]] {
	return rest.GetItem[model.Vehicle](s.client, rest.Path("devices", deviceID, "vehicles", "_latest"), nil)
}

func (s *Vehicles) Get(vehicleID string) async.Call[model.Wrapped[model.Vehicle]] {
	return rest.GetItem[model.Vehicle](s.client, rest.Path("vehicles", vehicleID), nil)
}
