// Package model contains the resources returned by Vinli services.
//
// Resources are plain values decoded from responses. The backend owns their lifecycle; nothing in
// this package writes them back or keeps them in sync.
package model

import (
	"encoding/json"
	"fmt"
)

// Links maps a relation name (e.g., "self", "vehicles", "next") to a URL.
type Links map[string]string

// Get returns the link for rel, or "" if there is none.
func (l Links) Get(rel string) string {
	if l == nil {
		return ""
	}
	return l[rel]
}

// ObjectRef references another resource, such as the subject of an event or rule.
type ObjectRef struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	AppID string `json:"appId,omitempty"`
}

// Coordinate is a WGS-84 position.
//
// On the wire, coordinates use GeoJSON order ([lon, lat]). Objects with explicit "lat" and "lon"
// fields are also accepted.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lon, c.Lat})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) < 2 {
			return fmt.Errorf("coordinate requires two values, got %d", len(pair))
		}
		c.Lon, c.Lat = pair[0], pair[1]
		return nil
	}
	var obj struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid coordinate: %s", data)
	}
	if obj.Lat == nil || obj.Lon == nil {
		return fmt.Errorf("coordinate missing lat or lon: %s", data)
	}
	c.Lat, c.Lon = *obj.Lat, *obj.Lon
	return nil
}
