package model

import (
	"net/url"
	"strconv"
	"time"
)

// TimeLayout is the format used for times in query parameters.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Sort directions for time-series queries.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// PageValues returns the query parameters of an offset-paginated request. Nil values are
// omitted so that the service applies its own defaults.
func PageValues(limit, offset *int) url.Values {
	q := url.Values{}
	if limit != nil {
		q.Set("limit", strconv.Itoa(*limit))
	}
	if offset != nil {
		q.Set("offset", strconv.Itoa(*offset))
	}
	return q
}

// SeriesQuery selects a window of a time series. Zero-valued fields are omitted.
type SeriesQuery struct {
	Since   *time.Time
	Until   *time.Time
	Limit   *int
	SortDir string
}

// Values returns q encoded as query parameters.
func (q SeriesQuery) Values() url.Values {
	v := url.Values{}
	if q.Since != nil {
		v.Set("since", q.Since.UTC().Format(TimeLayout))
	}
	if q.Until != nil {
		v.Set("until", q.Until.UTC().Format(TimeLayout))
	}
	if q.Limit != nil {
		v.Set("limit", strconv.Itoa(*q.Limit))
	}
	if q.SortDir != "" {
		v.Set("sortDir", q.SortDir)
	}
	return v
}

// EventQuery selects events by type and subject in addition to time.
type EventQuery struct {
	SeriesQuery
	Type     string
	ObjectID string
}

// Values returns q encoded as query parameters.
func (q EventQuery) Values() url.Values {
	v := q.SeriesQuery.Values()
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.ObjectID != "" {
		v.Set("objectId", q.ObjectID)
	}
	return v
}

// Int returns a pointer to v, for optional parameters.
func Int(v int) *int {
	return &v
}

// Time returns a pointer to t, for optional parameters.
func Time(t time.Time) *time.Time {
	return &t
}
