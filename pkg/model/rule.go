package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Rule is a set of boundaries evaluated against a device's telemetry. The rules service emits an
// event whenever the device crosses one of the rule's boundaries.
type Rule struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	DeviceID   string     `json:"deviceId"`
	Evaluated  bool       `json:"evaluated"`
	Covered    bool       `json:"covered"`
	Boundaries []Boundary `json:"boundaries"`
	Object     *ObjectRef `json:"object,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	Links      Links      `json:"links,omitempty"`
}

// RuleSeed holds the fields used to create a rule.
type RuleSeed struct {
	Name       string     `json:"name"`
	Boundaries []Boundary `json:"boundaries"`
	Object     *ObjectRef `json:"object,omitempty"`
}

// BoundaryType discriminates the variants of Boundary.
type BoundaryType string

const (
	BoundaryRadius     BoundaryType = "radius"
	BoundaryPolygon    BoundaryType = "polygon"
	BoundaryParametric BoundaryType = "parametric"
)

// Boundary is one condition of a Rule. Exactly one of Radius, Polygon, or Parametric is set,
// matching Type.
type Boundary struct {
	Type       BoundaryType
	Radius     *RadiusBoundary
	Polygon    *PolygonBoundary
	Parametric *ParametricBoundary
}

// RadiusBoundary is satisfied while the device is within Radius meters of Center.
type RadiusBoundary struct {
	Center Coordinate
	Radius float64
}

// PolygonBoundary is satisfied while the device is inside the polygon. Each ring is a closed
// sequence of coordinates; the first ring is the exterior.
type PolygonBoundary struct {
	Rings [][]Coordinate
}

// ParametricBoundary is satisfied while Parameter (e.g., "vehicleSpeed") lies within [Min, Max].
// A nil bound is unbounded.
type ParametricBoundary struct {
	Parameter string
	Min       *float64
	Max       *float64
}

// NewRadiusBoundary returns a radius Boundary.
func NewRadiusBoundary(center Coordinate, meters float64) Boundary {
	return Boundary{Type: BoundaryRadius, Radius: &RadiusBoundary{Center: center, Radius: meters}}
}

// NewPolygonBoundary returns a polygon Boundary.
func NewPolygonBoundary(rings ...[]Coordinate) Boundary {
	return Boundary{Type: BoundaryPolygon, Polygon: &PolygonBoundary{Rings: rings}}
}

// NewParametricBoundary returns a parametric Boundary.
func NewParametricBoundary(parameter string, min, max *float64) Boundary {
	return Boundary{Type: BoundaryParametric, Parametric: &ParametricBoundary{Parameter: parameter, Min: min, Max: max}}
}

type radiusJSON struct {
	Type   BoundaryType `json:"type"`
	Lat    float64      `json:"lat"`
	Lon    float64      `json:"lon"`
	Radius float64      `json:"radius"`
}

type polygonJSON struct {
	Type        BoundaryType   `json:"type"`
	Coordinates [][]Coordinate `json:"coordinates"`
}

type parametricJSON struct {
	Type      BoundaryType `json:"type"`
	Parameter string       `json:"parameter"`
	Min       *float64     `json:"min,omitempty"`
	Max       *float64     `json:"max,omitempty"`
}

func (b Boundary) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BoundaryRadius:
		if b.Radius == nil {
			break
		}
		return json.Marshal(radiusJSON{Type: b.Type, Lat: b.Radius.Center.Lat, Lon: b.Radius.Center.Lon, Radius: b.Radius.Radius})
	case BoundaryPolygon:
		if b.Polygon == nil {
			break
		}
		return json.Marshal(polygonJSON{Type: b.Type, Coordinates: b.Polygon.Rings})
	case BoundaryParametric:
		if b.Parametric == nil {
			break
		}
		p := b.Parametric
		return json.Marshal(parametricJSON{Type: b.Type, Parameter: p.Parameter, Min: p.Min, Max: p.Max})
	default:
		return nil, fmt.Errorf("unknown boundary type %q", b.Type)
	}
	return nil, fmt.Errorf("%s boundary has no value", b.Type)
}

func (b *Boundary) UnmarshalJSON(data []byte) error {
	var head struct {
		Type BoundaryType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	*b = Boundary{Type: head.Type}
	switch head.Type {
	case BoundaryRadius:
		var r radiusJSON
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		b.Radius = &RadiusBoundary{Center: Coordinate{Lat: r.Lat, Lon: r.Lon}, Radius: r.Radius}
	case BoundaryPolygon:
		var p polygonJSON
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		b.Polygon = &PolygonBoundary{Rings: p.Coordinates}
	case BoundaryParametric:
		var p parametricJSON
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		b.Parametric = &ParametricBoundary{Parameter: p.Parameter, Min: p.Min, Max: p.Max}
	default:
		return fmt.Errorf("unknown boundary type %q", head.Type)
	}
	return nil
}
