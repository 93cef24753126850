package rest

import (
	"net/url"

	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/protocol"
)

// Loader follows hypermedia links found in responses. Each follow is an independent
// authenticated request made with the Loader's client; relative links resolve against the
// client's base URL.
type Loader struct {
	client *Client
}

// NewLoader returns a Loader that follows links using c.
func NewLoader(c *Client) *Loader {
	return &Loader{client: c}
}

// From returns a Loader that resolves relative links against source, typically the Source of a
// page or series. An empty or unparsable source leaves l unchanged.
func (l *Loader) From(source string) *Loader {
	if source == "" {
		return l
	}
	base, err := url.Parse(source)
	if err != nil || !base.IsAbs() {
		return l
	}
	return &Loader{client: l.client.WithBase(base)}
}

func follow[T any](l *Loader, link string, get func(*Client, string) async.Call[T]) async.Call[T] {
	if link == "" {
		return async.Fail[T](protocol.ErrNoLink)
	}
	return get(l.client, link)
}

// FollowItem returns a Call yielding the single-item envelope at link.
func FollowItem[T any](l *Loader, link string) async.Call[model.Wrapped[T]] {
	return follow(l, link, func(c *Client, ref string) async.Call[model.Wrapped[T]] {
		return GetItem[T](c, ref, nil)
	})
}

// FollowPage returns a Call yielding the page at link.
func FollowPage[T any](l *Loader, link string) async.Call[*model.Page[T]] {
	return follow(l, link, func(c *Client, ref string) async.Call[*model.Page[T]] {
		return GetPage[T](c, ref, nil)
	})
}

// FollowSeries returns a Call yielding the time-series window at link.
func FollowSeries[T any](l *Loader, link string) async.Call[*model.TimeSeries[T]] {
	return follow(l, link, func(c *Client, ref string) async.Call[*model.TimeSeries[T]] {
		return GetSeries[T](c, ref, nil)
	})
}
