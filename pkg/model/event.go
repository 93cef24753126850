package model

import (
	"encoding/json"
	"time"
)

// Event records something that happened to a device, such as a rule boundary being crossed or
// the device being started up.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	DeviceID  string          `json:"deviceId"`
	Type      string          `json:"eventType"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Object    *ObjectRef      `json:"object,omitempty"`
	Links     Links           `json:"links,omitempty"`
}

// Subscription asks the events service to POST a notification to URL whenever an event of
// EventType occurs on a device.
type Subscription struct {
	ID        string     `json:"id"`
	DeviceID  string     `json:"deviceId"`
	EventType string     `json:"eventType"`
	URL       string     `json:"url"`
	AppData   string     `json:"appData,omitempty"`
	Object    *ObjectRef `json:"object,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Links     Links      `json:"links,omitempty"`
}

// SubscriptionSeed holds the fields used to create a subscription.
type SubscriptionSeed struct {
	EventType string     `json:"eventType"`
	URL       string     `json:"url"`
	AppData   string     `json:"appData,omitempty"`
	Object    *ObjectRef `json:"object,omitempty"`
}

// SubscriptionUpdate holds the mutable fields of a subscription.
type SubscriptionUpdate struct {
	URL     string `json:"url,omitempty"`
	AppData string `json:"appData,omitempty"`
}

// Notification is one delivery attempt of an event to a subscription's URL.
type Notification struct {
	ID             string          `json:"id"`
	EventID        string          `json:"eventId"`
	EventType      string          `json:"eventType"`
	EventTimestamp time.Time       `json:"eventTimestamp"`
	SubscriptionID string          `json:"subscriptionId"`
	URL            string          `json:"url"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	State          string          `json:"state"`
	ResponseCode   int             `json:"responseCode,omitempty"`
	NotifiedAt     *time.Time      `json:"notifiedAt,omitempty"`
	RespondedAt    *time.Time      `json:"respondedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	Links          Links           `json:"links,omitempty"`
}
