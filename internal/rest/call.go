package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vinli/vinli-net/internal/codec"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Request returns a Call that sends method to ref (resolved against the base URL) and yields the
// raw response body.
func (c *Client) Request(method, ref string, query url.Values, body []byte) async.Call[[]byte] {
	return async.New(func(ctx context.Context) ([]byte, error) {
		target, err := c.Resolve(ref, query)
		if err != nil {
			return nil, err
		}
		return c.Send(ctx, method, target, body)
	})
}

// Get returns a Call yielding a bare T.
func Get[T any](c *Client, ref string, query url.Values) async.Call[T] {
	return async.Map(c.Request(http.MethodGet, ref, query, nil), codec.Decode[T])
}

// GetItem returns a Call yielding a single-item envelope.
func GetItem[T any](c *Client, ref string, query url.Values) async.Call[model.Wrapped[T]] {
	return decodeWrapped[T](c, c.Request(http.MethodGet, ref, query, nil))
}

// GetPage returns a Call yielding an offset-paginated collection.
func GetPage[T any](c *Client, ref string, query url.Values) async.Call[*model.Page[T]] {
	return async.Map(c.Request(http.MethodGet, ref, query, nil), func(body []byte) (*model.Page[T], error) {
		page, err := codec.DecodePage[T](c.codec, body)
		if err != nil {
			return nil, err
		}
		page.Source = c.base.String()
		return page, nil
	})
}

// GetSeries returns a Call yielding a time-paginated collection.
func GetSeries[T any](c *Client, ref string, query url.Values) async.Call[*model.TimeSeries[T]] {
	return async.Map(c.Request(http.MethodGet, ref, query, nil), func(body []byte) (*model.TimeSeries[T], error) {
		series, err := codec.DecodeSeries[T](c.codec, body)
		if err != nil {
			return nil, err
		}
		series.Source = c.base.String()
		return series, nil
	})
}

// SendItem returns a Call that sends payload, wrapped under its item key, and yields the
// single-item envelope returned by the service.
func SendItem[T, P any](c *Client, method, ref string, payload P) async.Call[model.Wrapped[T]] {
	body, err := codec.EncodeWrapped(c.codec, payload)
	if err != nil {
		return async.Fail[model.Wrapped[T]](err)
	}
	return decodeWrapped[T](c, c.Request(method, ref, nil, body))
}

// Delete returns a Call that deletes the resource at ref.
func Delete(c *Client, ref string) async.Call[struct{}] {
	return async.Map(c.Request(http.MethodDelete, ref, nil, nil), func([]byte) (struct{}, error) {
		return struct{}{}, nil
	})
}

func decodeWrapped[T any](c *Client, call async.Call[[]byte]) async.Call[model.Wrapped[T]] {
	return async.Map(call, func(body []byte) (model.Wrapped[T], error) {
		return codec.DecodeWrapped[T](c.codec, body)
	})
}
