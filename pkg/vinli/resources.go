package vinli

import (
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

func (a *App) Vehicle(vehicleID string) async.Call[model.Vehicle] {
	return async.Map(a.svc.vehicles.Get(vehicleID), model.PluckItem[model.Vehicle])
}

func (a *App) Rule(ruleID string) async.Call[model.Rule] {
	return async.Map(a.svc.rules.Get(ruleID), model.PluckItem[model.Rule])
}

// DeleteRule deletes a rule. Subscriptions to the rule's events stop receiving notifications.
func (a *App) DeleteRule(ruleID string) async.Call[struct{}] {
	return a.svc.rules.Delete(ruleID)
}

func (a *App) Event(eventID string) async.Call[model.Event] {
	return async.Map(a.svc.events.Get(eventID), model.PluckItem[model.Event])
}

// EventNotifications returns the webhook deliveries made for an event.
func (a *App) EventNotifications(eventID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Notification]] {
	return a.svc.events.Notifications(eventID, q)
}

func (a *App) Notification(notificationID string) async.Call[model.Notification] {
	return async.Map(a.svc.events.Notification(notificationID), model.PluckItem[model.Notification])
}

func (a *App) Subscription(subscriptionID string) async.Call[model.Subscription] {
	return async.Map(a.svc.subscriptions.Get(subscriptionID), model.PluckItem[model.Subscription])
}

// UpdateSubscription changes a subscription's webhook URL or app data. Empty fields are left
// unchanged.
func (a *App) UpdateSubscription(subscriptionID string, update model.SubscriptionUpdate) async.Call[model.Subscription] {
	return async.Map(a.svc.subscriptions.Update(subscriptionID, update), model.PluckItem[model.Subscription])
}

func (a *App) DeleteSubscription(subscriptionID string) async.Call[struct{}] {
	return a.svc.subscriptions.Delete(subscriptionID)
}

// SubscriptionNotifications returns the webhook deliveries made for a subscription.
func (a *App) SubscriptionNotifications(subscriptionID string, q model.SeriesQuery) async.Call[*model.TimeSeries[model.Notification]] {
	return a.svc.subscriptions.Notifications(subscriptionID, q)
}

func (a *App) Message(messageID string) async.Call[model.Message] {
	return async.Map(a.svc.messages.Get(messageID), model.PluckItem[model.Message])
}
