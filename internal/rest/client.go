// Package rest sends authenticated requests to one Vinli service and decodes the responses.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vinli/vinli-net/internal/authentication"
	"github.com/vinli/vinli-net/internal/codec"
	"github.com/vinli/vinli-net/internal/log"
	"github.com/vinli/vinli-net/pkg/protocol"
)

// MaxResponseLength caps the size of response bodies.
const MaxResponseLength = 10000000

// Doer sends an HTTP request. *http.Client implements Doer.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends requests to the service rooted at a base URL. A Client is immutable and safe for
// concurrent use.
type Client struct {
	base      *url.URL
	doer      Doer
	auth      authentication.Bearer
	userAgent string
	codec     *codec.Codec
}

// NewClient returns a Client for the service at base. Clients for different services typically
// share doer, auth and c.
func NewClient(base *url.URL, doer Doer, auth authentication.Bearer, userAgent string, c *codec.Codec) *Client {
	return &Client{
		base:      base,
		doer:      doer,
		auth:      auth,
		userAgent: userAgent,
		codec:     c,
	}
}

// Base returns the service's base URL.
func (c *Client) Base() *url.URL {
	u := *c.base
	return &u
}

// WithBase returns a copy of c rooted at base. The copy shares c's transport, bearer and codec.
func (c *Client) WithBase(base *url.URL) *Client {
	clone := *c
	clone.base = base
	return &clone
}

// Codec returns the codec used to decode responses.
func (c *Client) Codec() *codec.Codec {
	return c.codec
}

// Path joins escaped path segments, e.g. Path("devices", id, "vehicles").
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// Resolve returns the URL of ref relative to the service's base URL. Absolute references are
// returned unchanged. Query parameters in query are merged into the reference's own.
func (c *Client) Resolve(ref string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	if !u.IsAbs() {
		u = c.base.ResolveReference(u)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// Send performs a single request and returns the response body. Non-2xx responses produce a
// *protocol.HttpError; failures to obtain a response produce a *protocol.TransportError.
func (c *Client) Send(ctx context.Context, method string, target *url.URL, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("error constructing request to %s: %w", target, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
		log.Debug("Sending %s %s: %s", method, target, body)
	} else {
		log.Debug("Requesting %s %s...", method, target)
	}
	request.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}
	c.auth.Intercept(request)

	response, err := c.doer.Do(request)
	if err != nil {
		log.Debug("Request to %s failed: %s", target, err)
		return nil, &protocol.TransportError{Err: err}
	}
	defer response.Body.Close()

	reader = io.LimitReader(response.Body, MaxResponseLength+1)
	respBody, err := io.ReadAll(reader)
	if err != nil {
		return nil, &protocol.TransportError{Err: err}
	}
	if len(respBody) > MaxResponseLength {
		return nil, fmt.Errorf("%w: response from %s exceeds maximum length", protocol.ErrBadResponse, target)
	}

	log.Debug("Server returned %d: %s: %s", response.StatusCode, http.StatusText(response.StatusCode), respBody)
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &protocol.HttpError{Code: response.StatusCode, URL: target.String(), Body: respBody}
	}
	return respBody, nil
}
