package vinli

import (
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// DeviceScope groups the operations that act on a single device. It is a lightweight value; use
// [App.ForDevice] to obtain one.
type DeviceScope struct {
	id  string
	app services
}

// ForDevice returns a DeviceScope for deviceID. It does not verify that the device exists.
func (a *App) ForDevice(deviceID string) DeviceScope {
	return DeviceScope{id: deviceID, app: a}
}

func (d DeviceScope) ID() string {
	return d.id
}

// Device fetches the device itself.
func (d DeviceScope) Device() async.Call[model.Device] {
	return async.Map(d.app.devices().Get(d.id), model.PluckItem[model.Device])
}

// Vehicles returns the vehicles the device has been plugged into.
func (d DeviceScope) Vehicles(limit, offset *int) async.Call[*model.Page[model.Vehicle]] {
	return d.app.vehicles().ForDevice(d.id, limit, offset)
}

// LatestVehicle returns the vehicle the device was most recently plugged into.
func (d DeviceScope) LatestVehicle() async.Call[model.Vehicle] {
	return async.Map(d.app.vehicles().Latest(d.id), model.PluckItem[model.Vehicle])
}

func (d DeviceScope) Rules(limit, offset *int) async.Call[*model.Page[model.Rule]] {
	return d.app.rules().ForDevice(d.id, limit, offset)
}

// CreateRule creates a rule evaluated against the device's telemetry.
func (d DeviceScope) CreateRule(seed model.RuleSeed) async.Call[model.Rule] {
	return async.Map(d.app.rules().Create(d.id, seed), model.PluckItem[model.Rule])
}

// Events returns events raised for the device, filtered by q.
func (d DeviceScope) Events(q model.EventQuery) async.Call[*model.TimeSeries[model.Event]] {
	return d.app.events().ForDevice(d.id, q)
}

func (d DeviceScope) Subscriptions(limit, offset *int) async.Call[*model.Page[model.Subscription]] {
	return d.app.subscriptions().ForDevice(d.id, limit, offset)
}

// CreateSubscription registers a webhook for the device's events.
func (d DeviceScope) CreateSubscription(seed model.SubscriptionSeed) async.Call[model.Subscription] {
	return async.Map(d.app.subscriptions().Create(d.id, seed), model.PluckItem[model.Subscription])
}

func (d DeviceScope) Locations(q model.SeriesQuery) async.Call[*model.TimeSeries[model.Location]] {
	return d.app.locations().ForDevice(d.id, q)
}

// Snapshots returns telemetry snapshots. If fields is non-empty, only those fields are requested.
func (d DeviceScope) Snapshots(fields []string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Snapshot]] {
	return d.app.snapshots().ForDevice(d.id, fields, q)
}

func (d DeviceScope) Messages(q model.SeriesQuery) async.Call[*model.TimeSeries[model.Message]] {
	return d.app.messages().ForDevice(d.id, q)
}

// Codes returns the diagnostic trouble codes reported by the device.
func (d DeviceScope) Codes(q model.SeriesQuery) async.Call[*model.TimeSeries[model.Dtc]] {
	return d.app.diagnostics().Codes(d.id, q)
}
