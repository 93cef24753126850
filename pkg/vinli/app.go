// Package vinli is the entry point for applications using Vinli services.
//
// An [App] is built from an access token and gives access to devices, vehicles, diagnostics,
// rules, events, subscriptions and telemetry spread across several backend services. Every
// operation returns an [async.Call]; nothing touches the network until the call is started with
// Do or Go, and a call can be started any number of times.
package vinli

import (
	_ "embed" // Used to embed version for use with user agent
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/vinli/vinli-net/internal/authentication"
	"github.com/vinli/vinli-net/internal/codec"
	"github.com/vinli/vinli-net/internal/log"
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/internal/service"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/endpoint"
	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/protocol"
)

var (
	//go:embed version.txt
	libraryVersion string
)

func buildUserAgent(app string) string {
	library := strings.TrimSpace("vinli-net/" + libraryVersion)
	build, ok := debug.ReadBuildInfo()
	if app == "" && ok {
		path := strings.Split(build.Path, "/")
		app = path[len(path)-1]
		var version string
		if build.Main.Version != "(devel)" && build.Main.Version != "" {
			version = build.Main.Version
		} else {
			for _, info := range build.Settings {
				if info.Key == "vcs.revision" {
					if len(info.Value) > 8 {
						version = info.Value[0:8]
					}
					break
				}
			}
		}
		if version != "" {
			app = fmt.Sprintf("%s/%s", app, version)
		}
	}
	if app == "" {
		return library
	}
	return fmt.Sprintf("%s %s", app, library)
}

type options struct {
	endpoints  endpoint.Set
	httpClient *http.Client
	userAgent  string
}

// Option customizes an [App].
type Option func(*options)

// WithEndpoints overrides service base URLs. Services missing from set use their default URL.
func WithEndpoints(set endpoint.Set) Option {
	return func(o *options) {
		o.endpoints = set
	}
}

// WithHTTPClient makes the App send requests with client instead of a new http.Client. Timeouts,
// proxies and retries are configured on client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithUserAgent sets the application part of the User-Agent header. By default it is derived from
// the main module's build information.
func WithUserAgent(app string) Option {
	return func(o *options) {
		o.userAgent = app
	}
}

// serviceSet holds one client per service. All of them share an http.Client, bearer and codec.
type serviceSet struct {
	devices       *service.Devices
	vehicles      *service.Vehicles
	diagnostics   *service.Diagnostics
	rules         *service.Rules
	events        *service.Events
	subscriptions *service.Subscriptions
	locations     *service.Locations
	snapshots     *service.Snapshots
	messages      *service.Messages
	users         *service.Users
}

// App provides access to Vinli services on behalf of a single access token. An App is immutable
// and safe for concurrent use; there is no way to change its token after construction.
type App struct {
	userAgent string
	codecs    *codec.Codec
	loader    *rest.Loader
	svc       serviceSet
}

// New returns an App that authenticates with accessToken.
//
// New performs no network I/O. It fails with an error wrapping [protocol.ErrConfiguration] if
// accessToken is blank or an endpoint is not an absolute http(s) URL.
func New(accessToken string, opts ...Option) (*App, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, protocol.ConfigurationError("access token is empty")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	bases, err := o.endpoints.Resolve()
	if err != nil {
		return nil, err
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}

	app := &App{
		userAgent: buildUserAgent(o.userAgent),
		codecs:    codec.NewVinli(),
	}
	bearer := authentication.NewBearer(accessToken)
	clients := make(map[endpoint.Service]*rest.Client, len(bases))
	for _, s := range endpoint.Services {
		log.Debug("Using %s service at %s", s, bases[s])
		clients[s] = rest.NewClient(bases[s], o.httpClient, bearer, app.userAgent, app.codecs)
	}

	app.loader = rest.NewLoader(clients[endpoint.Platform])
	app.svc = serviceSet{
		devices:       service.NewDevices(clients[endpoint.Platform]),
		vehicles:      service.NewVehicles(clients[endpoint.Platform]),
		diagnostics:   service.NewDiagnostics(clients[endpoint.Diagnostics]),
		rules:         service.NewRules(clients[endpoint.Rules]),
		events:        service.NewEvents(clients[endpoint.Events]),
		subscriptions: service.NewSubscriptions(clients[endpoint.Events]),
		locations:     service.NewLocations(clients[endpoint.Telemetry]),
		snapshots:     service.NewSnapshots(clients[endpoint.Telemetry]),
		messages:      service.NewMessages(clients[endpoint.Telemetry]),
		users:         service.NewUsers(clients[endpoint.Auth]),
	}
	return app, nil
}

// UserAgent returns the User-Agent header sent with every request.
func (a *App) UserAgent() string {
	return a.userAgent
}

// Devices returns the first page of devices available to the token, using the service's default
// page size.
func (a *App) Devices() async.Call[*model.Page[model.Device]] {
	return a.DevicesPaged(nil, nil)
}

// DevicesPaged returns a page of devices. A nil limit or offset is left to the service default.
// Values are sent as-is; the service decides whether they are acceptable.
func (a *App) DevicesPaged(limit, offset *int) async.Call[*model.Page[model.Device]] {
	return a.svc.devices.List(limit, offset)
}

// Device returns the device with the given ID. The call fails with [protocol.ErrMissingItem] if
// the response does not contain a device.
func (a *App) Device(deviceID string) async.Call[model.Device] {
	return async.Map(a.svc.devices.Get(deviceID), model.PluckItem[model.Device])
}

// DiagnoseDtcCode looks up the meaning of a diagnostic trouble code such as "P0300".
func (a *App) DiagnoseDtcCode(code string) async.Call[model.Dtc] {
	return a.svc.diagnostics.Diagnose(code)
}

// CurrentUser returns the user that owns the access token.
func (a *App) CurrentUser() async.Call[model.User] {
	return async.Map(a.svc.users.Current(), model.PluckItem[model.User])
}
