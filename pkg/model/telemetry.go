package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Location is a position reported by a device.
type Location struct {
	ID         string
	Timestamp  time.Time
	Coordinate Coordinate
	Data       map[string]interface{}
}

type locationProperties struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

type locationFeature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string     `json:"type"`
		Coordinates Coordinate `json:"coordinates"`
	} `json:"geometry"`
	Properties locationProperties `json:"properties"`
}

// UnmarshalJSON decodes a GeoJSON Point feature. The telemetry service returns locations as the
// features of a FeatureCollection.
func (l *Location) UnmarshalJSON(data []byte) error {
	var f locationFeature
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Type != "Feature" {
		return fmt.Errorf("location is not a GeoJSON feature (type %q)", f.Type)
	}
	if f.Geometry.Type != "Point" {
		return fmt.Errorf("location geometry must be a Point, got %q", f.Geometry.Type)
	}
	*l = Location{
		ID:         f.Properties.ID,
		Timestamp:  f.Properties.Timestamp,
		Coordinate: f.Geometry.Coordinates,
		Data:       f.Properties.Data,
	}
	return nil
}

func (l Location) MarshalJSON() ([]byte, error) {
	var f locationFeature
	f.Type = "Feature"
	f.Geometry.Type = "Point"
	f.Geometry.Coordinates = l.Coordinate
	f.Properties = locationProperties{ID: l.ID, Timestamp: l.Timestamp, Data: l.Data}
	return json.Marshal(&f)
}

// Snapshot is a set of vehicle readings (e.g., rpm, vehicleSpeed) captured at one instant.
type Snapshot struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Float returns the numeric reading for field.
func (s *Snapshot) Float(field string) (float64, bool) {
	v, ok := s.Data[field].(float64)
	return v, ok
}

// Message is a raw telemetry message sent by a device.
type Message struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Dtc is a diagnostic trouble code, either as diagnosed by the diagnostics service or as reported
// by a device (in which case Start and Stop bound the period it was active).
type Dtc struct {
	Number      string     `json:"number"`
	Description string     `json:"description"`
	Make        string     `json:"make,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	Stop        *time.Time `json:"stop,omitempty"`
	Links       Links      `json:"links,omitempty"`
}

// Active returns true if the code was reported and has not yet cleared.
func (d *Dtc) Active() bool {
	return d.Start != nil && d.Stop == nil
}

type dtcFields Dtc

// UnmarshalJSON accepts a bare code or one nested under "code".
func (d *Dtc) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Code *dtcFields `json:"code"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Code != nil {
		*d = Dtc(*envelope.Code)
		return nil
	}
	var fields dtcFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*d = Dtc(fields)
	return nil
}
