// Package endpoint lists the base URLs of the Vinli backend services.
package endpoint

import (
	"net/url"
	"strings"

	"github.com/vinli/vinli-net/pkg/protocol"
)

// Service identifies one of the independently-addressed Vinli backends.
type Service string

const (
	Platform    Service = "platform"
	Diagnostics Service = "diagnostics"
	Rules       Service = "rules"
	Events      Service = "events"
	Telemetry   Service = "telemetry"
	Auth        Service = "auth"
)

// Services lists every backend in a stable order.
var Services = []Service{Platform, Diagnostics, Rules, Events, Telemetry, Auth}

const (
	DefaultPlatform    = "https://platform.vin.li/api/v1/"
	DefaultDiagnostics = "https://diagnostic.vin.li/api/v1/"
	DefaultRules       = "https://rules.vin.li/api/v1/"
	DefaultEvents      = "https://events.vin.li/api/v1/"
	DefaultTelemetry   = "https://telemetry.vin.li/api/v1/"
	DefaultAuth        = "https://auth.vin.li/api/v1/"
)

// Set maps each service to its base URL. Missing entries fall back to the defaults.
type Set map[Service]string

// Defaults returns the production endpoints.
func Defaults() Set {
	return Set{
		Platform:    DefaultPlatform,
		Diagnostics: DefaultDiagnostics,
		Rules:       DefaultRules,
		Events:      DefaultEvents,
		Telemetry:   DefaultTelemetry,
		Auth:        DefaultAuth,
	}
}

// Single returns a Set that routes every service to base. Useful for tests and local gateways.
func Single(base string) Set {
	s := make(Set, len(Services))
	for _, svc := range Services {
		s[svc] = base
	}
	return s
}

// Resolve parses every base URL in s, filling gaps with defaults. Base URLs always end in a
// slash so that relative paths resolve beneath them.
func (s Set) Resolve() (map[Service]*url.URL, error) {
	defaults := Defaults()
	resolved := make(map[Service]*url.URL, len(Services))
	for _, svc := range Services {
		raw, ok := s[svc]
		if !ok || raw == "" {
			raw = defaults[svc]
		}
		u, err := Parse(raw)
		if err != nil {
			return nil, protocol.ConfigurationError("%s endpoint: %s", svc, err)
		}
		resolved[svc] = u
	}
	return resolved, nil
}

// Parse validates an absolute http(s) base URL.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, protocol.ConfigurationError("unsupported scheme in %q", raw)
	}
	if u.Host == "" {
		return nil, protocol.ConfigurationError("missing host in %q", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
