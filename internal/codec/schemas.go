package codec

import "github.com/vinli/vinli-net/pkg/model"

// NewVinli returns a Codec with every Vinli resource registered.
func NewVinli() *Codec {
	c := New()
	Register[model.Device](c, Schema{Item: "device", Collection: "devices"})
	Register[model.Vehicle](c, Schema{Item: "vehicle", Collection: "vehicles"})
	Register[model.Rule](c, Schema{Item: "rule", Collection: "rules"})
	Register[model.RuleSeed](c, Schema{Item: "rule"})
	Register[model.Event](c, Schema{Item: "event", Collection: "events"})
	Register[model.Subscription](c, Schema{Item: "subscription", Collection: "subscriptions"})
	Register[model.SubscriptionSeed](c, Schema{Item: "subscription"})
	Register[model.SubscriptionUpdate](c, Schema{Item: "subscription"})
	Register[model.Notification](c, Schema{Item: "notification", Collection: "notifications"})
	Register[model.Location](c, Schema{Item: "location", Collection: "locations"})
	Register[model.Snapshot](c, Schema{Item: "snapshot", Collection: "snapshots"})
	Register[model.Message](c, Schema{Item: "message", Collection: "messages"})
	Register[model.User](c, Schema{Item: "user"})
	Register[model.Dtc](c, Schema{Item: "code", Collection: "codes"})
	return c
}
