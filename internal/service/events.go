package service

import (
	"net/http"

	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Events is served by the events service.
type Events struct {
	client *rest.Client
}

func NewEvents(c *rest.Client) *Events {
	return &Events{client: c}
}

func (s *Events) ForDevice(deviceID string, q model.EventQuery) async.Call[*model.TimeSeries[model.Event]] {
	return rest.GetSeries[model.Event](s.client, rest.Path("devices", deviceID, "events"), q.Values())
}

func (s *Events) Get(eventID string) async.Call[model.Wrapped[model.Event]] {
	return rest.GetItem[model.Event](s.client, rest.Path("events", eventID), nil)
}

// Notifications returns the deliveries made for an event.
func (s *Events) Notifications(eventID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Notification]] {
	return rest.GetSeries[model.Notification](s.client, rest.Path("events", eventID, "notifications"), q.Values())
}

func (s *Events) Notification(notificationID string) async.Call[model.Wrapped[model.Notification]] {
	return rest.GetItem[model.Notification](s.client, rest.Path("notifications", notificationID), nil)
}

// Subscriptions is served by the events service.
type Subscriptions struct {
	client *rest.Client
}

func NewSubscriptions(c *rest.Client) *Subscriptions {
	return &Subscriptions{client: c}
}

func (s *Subscriptions) ForDevice(deviceID string, limit, offset *int) async.Call[*model.Page[model.Subscription]] {
	return rest.GetPage[model.Subscription](s.client, rest.Path("devices", deviceID, "subscriptions"), model.PageValues(limit, offset))
}

func (s *Subscriptions) Get(subscriptionID string) async.Call[model.Wrapped[model.Subscription]] {
	return rest.GetItem[model.Subscription](s.client, rest.Path("subscriptions", subscriptionID), nil)
}

func (s *Subscriptions) Create(deviceID string, seed model.SubscriptionSeed) async.Call[model.Wrapped[model.Subscription]] {
	return rest.SendItem[model.Subscription](s.client, http.MethodPost, rest.Path("devices", deviceID, "subscriptions"), seed)
}

func (s *Subscriptions) Update(subscriptionID string, update model.SubscriptionUpdate) async.Call[model.Wrapped[model.Subscription]] {
	return rest.SendItem[model.Subscription](s.client, http.MethodPut, rest.Path("subscriptions", subscriptionID), update)
}

func (s *Subscriptions) Delete(subscriptionID string) async.Call[struct{}] {
	return rest.Delete(s.client, rest.Path("subscriptions", subscriptionID))
}

// Notifications returns the deliveries made for a subscription.
func (s *Subscriptions) Notifications(subscriptionID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Notification]] {
	return rest.GetSeries[model.Notification](s.client, rest.Path("subscriptions", subscriptionID, "notifications"), q.Values())
}
