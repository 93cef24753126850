package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/vinli"
)

var (
	ErrCommandLineArgs = errors.New("invalid command line arguments")
	ErrInvalidTime     = errors.New("invalid time")
	ErrRequiresDevice  = errors.New("command requires a device ID (use -device)")
	ErrUnknownCommand  = errors.New("unrecognized command")
)

// output receives command results.
var output io.Writer = os.Stdout

type Argument struct {
	name string
	help string
}

type Handler func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error

type Command struct {
	help           string
	requiresDevice bool
	args           []Argument
	optional       []Argument
	handler        Handler
}

func GetDegree(degStr string) (float64, error) {
	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0.0, err
	}
	if deg < -180 || deg > 180 {
		return 0.0, errors.New("latitude and longitude must both be in the range [-180, 180]")
	}
	return deg, nil
}

// optionalInt returns nil for an empty string so that the service default applies.
func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: expected a non-negative integer, got '%s'", ErrCommandLineArgs, s)
	}
	return &n, nil
}

// Since parses either an RFC 3339 time or a duration before now (e.g., "36h").
func Since(s string, now time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidTime)
		}
		t := now.Add(-d)
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: expected RFC 3339 time or duration", ErrInvalidTime)
	}
	return &t, nil
}

func seriesQuery(args map[string]string) (model.SeriesQuery, error) {
	var q model.SeriesQuery
	var err error
	if q.Limit, err = optionalInt(args["LIMIT"]); err != nil {
		return q, err
	}
	if q.Since, err = Since(args["SINCE"], time.Now()); err != nil {
		return q, err
	}
	return q, nil
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, string(encoded))
	return err
}

func printPage[T any](page *model.Page[T]) error {
	if err := printJSON(page.Items); err != nil {
		return err
	}
	if page.HasNext() {
		fmt.Fprintf(output, "Showing %d-%d of %d\n", page.Meta.Offset+1, page.Meta.Offset+len(page.Items), page.Meta.Total)
	}
	return nil
}

func printSeries[T any](series *model.TimeSeries[T]) error {
	if err := printJSON(series.Items); err != nil {
		return err
	}
	if series.Meta.Remaining > 0 {
		fmt.Fprintf(output, "%d older results not shown\n", series.Meta.Remaining)
	}
	return nil
}

func checkReadiness(commandName string, haveDevice bool) (*Command, error) {
	info, ok := commands[commandName]
	if !ok {
		return nil, ErrUnknownCommand
	}
	if info.requiresDevice && !haveDevice {
		return nil, ErrRequiresDevice
	}
	return info, nil
}

func execute(ctx context.Context, app *vinli.App, deviceID string, args []string) error {
	if len(args) == 0 {
		return errors.New("missing COMMAND")
	}

	info, err := checkReadiness(args[0], deviceID != "")
	if err != nil {
		return err
	}

	if len(args)-1 < len(info.args) || len(args)-1 > len(info.args)+len(info.optional) {
		writeErr("Invalid number of command line arguments: %d (%d required, %d optional).", len(args)-1, len(info.args), len(info.optional))
		err = ErrCommandLineArgs
	} else {
		keywords := make(map[string]string)
		for i, argInfo := range info.args {
			keywords[argInfo.name] = args[i+1]
		}
		index := len(info.args) + 1
		for _, argInfo := range info.optional {
			if index >= len(args) {
				break
			}
			keywords[argInfo.name] = args[index]
			index++
		}
		err = info.handler(ctx, app, app.ForDevice(deviceID), keywords)
	}

	// Print command-specific help
	if errors.Is(err, ErrCommandLineArgs) {
		info.Usage(args[0])
	}
	return err
}

func (c *Command) Usage(name string) {
	fmt.Printf("Usage: %s", name)
	maxLength := 0
	for _, arg := range c.args {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Printf(" [")
	}
	for _, arg := range c.optional {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Printf(" ]")
	}
	fmt.Printf("\n%s\n", c.help)
	maxLength++
	for _, arg := range c.args {
		fmt.Printf("    %s:%s%s\n", arg.name, strings.Repeat(" ", maxLength-len(arg.name)), arg.help)
	}
	for _, arg := range c.optional {
		fmt.Printf("    %s:%s%s\n", arg.name, strings.Repeat(" ", maxLength-len(arg.name)), arg.help)
	}
}

var (
	limitArg  = Argument{name: "LIMIT", help: "Maximum number of results (defaults to the service's page size)"}
	offsetArg = Argument{name: "OFFSET", help: "Number of results to skip"}
	sinceArg  = Argument{name: "SINCE", help: "Earliest time to include, as RFC 3339 or a duration such as 24h"}
)

var commands = map[string]*Command{
	"whoami": &Command{
		help: "Show the user that owns the access token",
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			user, err := app.CurrentUser().Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(user)
		},
	},
	"devices": &Command{
		help:     "List devices available to the access token",
		optional: []Argument{limitArg, offsetArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			limit, err := optionalInt(args["LIMIT"])
			if err != nil {
				return err
			}
			offset, err := optionalInt(args["OFFSET"])
			if err != nil {
				return err
			}
			page, err := app.DevicesPaged(limit, offset).Do(ctx)
			if err != nil {
				return err
			}
			return printPage(page)
		},
	},
	"device": &Command{
		help:           "Show the selected device",
		requiresDevice: true,
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			d, err := app.Device(device.ID()).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(d)
		},
	},
	"dtc": &Command{
		help: "Describe a diagnostic trouble CODE",
		args: []Argument{
			Argument{name: "CODE", help: "Diagnostic trouble code, e.g. P0300"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			dtc, err := app.DiagnoseDtcCode(strings.ToUpper(args["CODE"])).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(dtc)
		},
	},
	"codes": &Command{
		help:           "List trouble codes reported by the selected device",
		requiresDevice: true,
		optional:       []Argument{limitArg, sinceArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := device.Codes(q).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"vehicles": &Command{
		help:           "List vehicles the selected device has been plugged into",
		requiresDevice: true,
		optional:       []Argument{limitArg, offsetArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			limit, err := optionalInt(args["LIMIT"])
			if err != nil {
				return err
			}
			offset, err := optionalInt(args["OFFSET"])
			if err != nil {
				return err
			}
			page, err := device.Vehicles(limit, offset).Do(ctx)
			if err != nil {
				return err
			}
			return printPage(page)
		},
	},
	"latest-vehicle": &Command{
		help:           "Show the vehicle the selected device was most recently plugged into",
		requiresDevice: true,
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			v, err := device.LatestVehicle().Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(v)
		},
	},
	"vehicle": &Command{
		help: "Show a vehicle",
		args: []Argument{
			Argument{name: "VEHICLE_ID", help: "Vehicle ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			v, err := app.Vehicle(args["VEHICLE_ID"]).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(v)
		},
	},
	"rules": &Command{
		help:           "List rules of the selected device",
		requiresDevice: true,
		optional:       []Argument{limitArg, offsetArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			limit, err := optionalInt(args["LIMIT"])
			if err != nil {
				return err
			}
			offset, err := optionalInt(args["OFFSET"])
			if err != nil {
				return err
			}
			page, err := device.Rules(limit, offset).Do(ctx)
			if err != nil {
				return err
			}
			return printPage(page)
		},
	},
	"rule": &Command{
		help: "Show a rule",
		args: []Argument{
			Argument{name: "RULE_ID", help: "Rule ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			r, err := app.Rule(args["RULE_ID"]).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(r)
		},
	},
	"add-geofence": &Command{
		help:           "Create a rule that triggers when the selected device enters or leaves a circle",
		requiresDevice: true,
		args: []Argument{
			Argument{name: "NAME", help: "Rule name"},
			Argument{name: "LATITUDE", help: "Latitude of the center"},
			Argument{name: "LONGITUDE", help: "Longitude of the center"},
			Argument{name: "RADIUS", help: "Radius in meters"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			lat, err := GetDegree(args["LATITUDE"])
			if err != nil {
				return fmt.Errorf("%w: invalid LATITUDE: %s", ErrCommandLineArgs, err)
			}
			lon, err := GetDegree(args["LONGITUDE"])
			if err != nil {
				return fmt.Errorf("%w: invalid LONGITUDE: %s", ErrCommandLineArgs, err)
			}
			radius, err := strconv.ParseFloat(args["RADIUS"], 64)
			if err != nil || radius <= 0 {
				return fmt.Errorf("%w: RADIUS must be a positive number", ErrCommandLineArgs)
			}
			seed := model.RuleSeed{
				Name:       args["NAME"],
				Boundaries: []model.Boundary{model.NewRadiusBoundary(model.Coordinate{Lat: lat, Lon: lon}, radius)},
			}
			r, err := device.CreateRule(seed).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(r)
		},
	},
	"delete-rule": &Command{
		help: "Delete a rule",
		args: []Argument{
			Argument{name: "RULE_ID", help: "Rule ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			_, err := app.DeleteRule(args["RULE_ID"]).Do(ctx)
			return err
		},
	},
	"events": &Command{
		help:           "List events raised for the selected device",
		requiresDevice: true,
		optional: []Argument{
			Argument{name: "TYPE", help: "Event type, e.g. startup, shutdown or rule-enter"},
			limitArg,
			sinceArg,
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := device.Events(model.EventQuery{SeriesQuery: q, Type: args["TYPE"]}).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"event": &Command{
		help: "Show an event",
		args: []Argument{
			Argument{name: "EVENT_ID", help: "Event ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			e, err := app.Event(args["EVENT_ID"]).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(e)
		},
	},
	"event-notifications": &Command{
		help: "List webhook deliveries made for an event",
		args: []Argument{
			Argument{name: "EVENT_ID", help: "Event ID"},
		},
		optional: []Argument{limitArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := app.EventNotifications(args["EVENT_ID"], q).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"subscriptions": &Command{
		help:           "List webhook subscriptions of the selected device",
		requiresDevice: true,
		optional:       []Argument{limitArg, offsetArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			limit, err := optionalInt(args["LIMIT"])
			if err != nil {
				return err
			}
			offset, err := optionalInt(args["OFFSET"])
			if err != nil {
				return err
			}
			page, err := device.Subscriptions(limit, offset).Do(ctx)
			if err != nil {
				return err
			}
			return printPage(page)
		},
	},
	"subscribe": &Command{
		help:           "Deliver events of EVENT_TYPE raised for the selected device to URL",
		requiresDevice: true,
		args: []Argument{
			Argument{name: "EVENT_TYPE", help: "Event type, e.g. startup"},
			Argument{name: "URL", help: "Webhook URL"},
		},
		optional: []Argument{
			Argument{name: "APP_DATA", help: "Opaque string included with each notification"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			s, err := device.CreateSubscription(model.SubscriptionSeed{
				EventType: args["EVENT_TYPE"],
				URL:       args["URL"],
				AppData:   args["APP_DATA"],
			}).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	},
	"update-subscription": &Command{
		help: "Change the webhook URL of a subscription",
		args: []Argument{
			Argument{name: "SUBSCRIPTION_ID", help: "Subscription ID"},
			Argument{name: "URL", help: "New webhook URL"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			s, err := app.UpdateSubscription(args["SUBSCRIPTION_ID"], model.SubscriptionUpdate{URL: args["URL"]}).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	},
	"unsubscribe": &Command{
		help: "Delete a subscription",
		args: []Argument{
			Argument{name: "SUBSCRIPTION_ID", help: "Subscription ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			_, err := app.DeleteSubscription(args["SUBSCRIPTION_ID"]).Do(ctx)
			return err
		},
	},
	"subscription-notifications": &Command{
		help: "List webhook deliveries made for a subscription",
		args: []Argument{
			Argument{name: "SUBSCRIPTION_ID", help: "Subscription ID"},
		},
		optional: []Argument{limitArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := app.SubscriptionNotifications(args["SUBSCRIPTION_ID"], q).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"subscription": &Command{
		help: "Show a subscription",
		args: []Argument{
			Argument{name: "SUBSCRIPTION_ID", help: "Subscription ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			s, err := app.Subscription(args["SUBSCRIPTION_ID"]).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	},
	"notification": &Command{
		help: "Show a webhook delivery",
		args: []Argument{
			Argument{name: "NOTIFICATION_ID", help: "Notification ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			n, err := app.Notification(args["NOTIFICATION_ID"]).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(n)
		},
	},
	"locations": &Command{
		help:           "List recent locations of the selected device",
		requiresDevice: true,
		optional:       []Argument{limitArg, sinceArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := device.Locations(q).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"snapshots": &Command{
		help:           "List telemetry snapshots of the selected device",
		requiresDevice: true,
		args: []Argument{
			Argument{name: "FIELDS", help: "Comma-separated telemetry fields, e.g. rpm,vehicleSpeed"},
		},
		optional: []Argument{limitArg, sinceArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := device.Snapshots(strings.Split(args["FIELDS"], ","), q).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"messages": &Command{
		help:           "List raw messages sent by the selected device",
		requiresDevice: true,
		optional:       []Argument{limitArg, sinceArg},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			q, err := seriesQuery(args)
			if err != nil {
				return err
			}
			series, err := device.Messages(q).Do(ctx)
			if err != nil {
				return err
			}
			return printSeries(series)
		},
	},
	"message": &Command{
		help: "Show a message",
		args: []Argument{
			Argument{name: "MESSAGE_ID", help: "Message ID"},
		},
		handler: func(ctx context.Context, app *vinli.App, device vinli.DeviceScope, args map[string]string) error {
			m, err := app.Message(args["MESSAGE_ID"]).Do(ctx)
			if err != nil {
				return err
			}
			return printJSON(m)
		},
	},
}
