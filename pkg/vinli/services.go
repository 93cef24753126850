package vinli

import (
	"github.com/vinli/vinli-net/internal/codec"
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/internal/service"
)

// services is the view of an App used by companion types such as DeviceScope.
type services interface {
	devices() *service.Devices
	vehicles() *service.Vehicles
	rules() *service.Rules
	events() *service.Events
	locations() *service.Locations
	snapshots() *service.Snapshots
	messages() *service.Messages
	subscriptions() *service.Subscriptions
	diagnostics() *service.Diagnostics
	linkLoader() *rest.Loader
	codec() *codec.Codec
}

var _ services = (*App)(nil)

func (a *App) devices() *service.Devices             { return a.svc.devices }
func (a *App) vehicles() *service.Vehicles           { return a.svc.vehicles }
func (a *App) rules() *service.Rules                 { return a.svc.rules }
func (a *App) events() *service.Events               { return a.svc.events }
func (a *App) locations() *service.Locations         { return a.svc.locations }
func (a *App) snapshots() *service.Snapshots         { return a.svc.snapshots }
func (a *App) messages() *service.Messages           { return a.svc.messages }
func (a *App) subscriptions() *service.Subscriptions { return a.svc.subscriptions }
func (a *App) diagnostics() *service.Diagnostics     { return a.svc.diagnostics }
func (a *App) linkLoader() *rest.Loader              { return a.loader }
func (a *App) codec() *codec.Codec                   { return a.codecs }
