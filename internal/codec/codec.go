// Package codec decodes Vinli response envelopes into model types.
//
// Every domain type is registered with a Schema naming the JSON keys it appears under. Responses
// put a single resource under its item key ({"device": {...}}) and lists under the collection key
// ({"devices": [...], "meta": {...}}). The Codec is populated once, when a client is constructed,
// and is read-only afterwards.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/protocol"
)

// GenericItemKey is accepted as the item key of any single-item envelope.
const GenericItemKey = "item"

// Schema names the JSON keys of a registered type.
type Schema struct {
	Item       string // Key of a single resource, e.g. "device".
	Collection string // Key of a list of resources, e.g. "devices". Empty if never listed.
}

// Codec holds the schemas of every registered type.
type Codec struct {
	schemas map[reflect.Type]Schema
}

// New returns an empty Codec.
func New() *Codec {
	return &Codec{schemas: make(map[reflect.Type]Schema)}
}

// Register associates s with T. Register must not be called after c is shared.
func Register[T any](c *Codec, s Schema) {
	c.schemas[reflect.TypeFor[T]()] = s
}

// SchemaOf returns the Schema registered for T.
func SchemaOf[T any](c *Codec) (Schema, error) {
	t := reflect.TypeFor[T]()
	s, ok := c.schemas[t]
	if !ok {
		return Schema{}, fmt.Errorf("no schema registered for %s", t)
	}
	return s, nil
}

// Registered returns the number of registered types.
func (c *Codec) Registered() int {
	return len(c.schemas)
}

func badResponse(err error) error {
	return fmt.Errorf("%w: %s", protocol.ErrBadResponse, err)
}

func fields(data []byte) (map[string]json.RawMessage, error) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, badResponse(err)
	}
	if f == nil {
		return nil, badResponse(fmt.Errorf("expected JSON object, got %s", data))
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Decode decodes a bare T.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, badResponse(err)
	}
	return v, nil
}

// DecodeWrapped decodes a single-item envelope. An envelope without an item decodes
// successfully; the failure is reported by [model.Wrapped.Pluck].
func DecodeWrapped[T any](c *Codec, data []byte) (model.Wrapped[T], error) {
	var w model.Wrapped[T]
	s, err := SchemaOf[T](c)
	if err != nil {
		return w, err
	}
	f, err := fields(data)
	if err != nil {
		return w, err
	}
	raw, ok := f[s.Item]
	if !ok || isNull(raw) {
		raw = f[GenericItemKey]
	}
	if isNull(raw) {
		return w, nil
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return w, badResponse(err)
	}
	w.Item = &item
	return w, nil
}

type meta[P any] struct {
	Pagination P `json:"pagination"`
}

func collection[T any](c *Codec, f map[string]json.RawMessage) ([]T, error) {
	s, err := SchemaOf[T](c)
	if err != nil {
		return nil, err
	}
	if s.Collection == "" {
		return nil, fmt.Errorf("%s has no collection key", reflect.TypeFor[T]())
	}
	raw, ok := f[s.Collection]
	if !ok {
		return nil, badResponse(fmt.Errorf("missing %q", s.Collection))
	}
	if isNull(raw) {
		return []T{}, nil
	}
	// GeoJSON collections nest their items under "features".
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var fc struct {
			Type     string          `json:"type"`
			Features json.RawMessage `json:"features"`
		}
		if err := json.Unmarshal(trimmed, &fc); err != nil {
			return nil, badResponse(err)
		}
		if fc.Type != "FeatureCollection" {
			return nil, badResponse(fmt.Errorf("%q is an object but not a FeatureCollection", s.Collection))
		}
		raw = fc.Features
	}
	items := []T{}
	if isNull(raw) {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, badResponse(err)
	}
	return items, nil
}

func decodeMeta[P any](f map[string]json.RawMessage) (P, error) {
	var m meta[P]
	raw, ok := f["meta"]
	if !ok || isNull(raw) {
		return m.Pagination, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m.Pagination, badResponse(err)
	}
	return m.Pagination, nil
}

// DecodePage decodes an offset-paginated collection.
func DecodePage[T any](c *Codec, data []byte) (*model.Page[T], error) {
	f, err := fields(data)
	if err != nil {
		return nil, err
	}
	items, err := collection[T](c, f)
	if err != nil {
		return nil, err
	}
	pagination, err := decodeMeta[model.Pagination](f)
	if err != nil {
		return nil, err
	}
	return &model.Page[T]{Items: items, Meta: pagination}, nil
}

// DecodeSeries decodes a time-paginated collection.
func DecodeSeries[T any](c *Codec, data []byte) (*model.TimeSeries[T], error) {
	f, err := fields(data)
	if err != nil {
		return nil, err
	}
	items, err := collection[T](c, f)
	if err != nil {
		return nil, err
	}
	pagination, err := decodeMeta[model.SeriesPagination](f)
	if err != nil {
		return nil, err
	}
	return &model.TimeSeries[T]{Items: items, Meta: pagination}, nil
}

// EncodeWrapped encodes v under its item key, e.g. {"rule": {...}}.
func EncodeWrapped[T any](c *Codec, v T) ([]byte, error) {
	s, err := SchemaOf[T](c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]T{s.Item: v})
}
