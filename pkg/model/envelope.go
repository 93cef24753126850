package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vinli/vinli-net/pkg/protocol"
)

// Wrapped is a single-item envelope, e.g. {"device": {...}}.
type Wrapped[T any] struct {
	Item *T
}

// Pluck returns the envelope's item, failing with [protocol.ErrMissingItem] if there is none.
func (w Wrapped[T]) Pluck() (T, error) {
	if w.Item == nil {
		var zero T
		return zero, protocol.ErrMissingItem
	}
	return *w.Item, nil
}

// PluckItem adapts Wrapped.Pluck for use with async.Map.
func PluckItem[T any](w Wrapped[T]) (T, error) {
	return w.Pluck()
}

// Page is an offset-paginated slice of a collection. Source is the base URL of the service that
// returned the page; relative pagination links resolve against it.
type Page[T any] struct {
	Items  []T
	Meta   Pagination
	Source string
}

// Pagination describes where a Page sits within its collection.
type Pagination struct {
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Links  PageLinks `json:"links"`
}

// PageLinks point at neighboring pages. Missing links are empty.
type PageLinks struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// HasNext returns true if there are more items after this page.
func (p *Page[T]) HasNext() bool {
	return p.Meta.Links.Next != ""
}

// HasPrev returns true if there are items before this page.
func (p *Page[T]) HasPrev() bool {
	return p.Meta.Links.Prev != ""
}

// TimeSeries is a time-ordered slice of a collection, paginated by time rather than offset.
// Source is the base URL of the service that returned it.
type TimeSeries[T any] struct {
	Items  []T
	Meta   SeriesPagination
	Source string
}

// SeriesPagination describes the time window a TimeSeries covers.
type SeriesPagination struct {
	Remaining int         `json:"remaining"`
	Limit     int         `json:"limit"`
	Since     Timestamp   `json:"since"`
	Until     Timestamp   `json:"until"`
	SortDir   string      `json:"sortDir,omitempty"`
	Links     SeriesLinks `json:"links"`
}

// SeriesLinks point at the adjacent windows of a TimeSeries.
type SeriesLinks struct {
	Prior string `json:"prior,omitempty"`
	Next  string `json:"next,omitempty"`
}

// HasPrior returns true if there are older items than this window.
func (s *TimeSeries[T]) HasPrior() bool {
	return s.Meta.Links.Prior != ""
}

// HasNext returns true if there are newer items than this window.
func (s *TimeSeries[T]) HasNext() bool {
	return s.Meta.Links.Next != ""
}

// Timestamp decodes either an ISO-8601 string or milliseconds since the Unix epoch. Pagination
// metadata uses both forms.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(TimeLayout))
}
