/*
Package cli facilitates building command-line applications that use Vinli services. It defines a
[Config] type that can be used to register common command-line flags (using the Golang flag
package) and environment variable equivalents.

The package uses [keyring]'s platform-agnostic interface for storing access tokens in an
OS-dependent credential store. Environment variables are read through viper and share the VINLI
prefix.

# Examples

	import flag

	config, err := NewConfig(FlagAll)
	if err != nil {
		panic(err)
	}
	config.RegisterCommandLineFlags() // Adds command-line flags for tokens, endpoints, etc.
	flag.Parse()
	config.ReadFromEnvironment()      // Fills in missing fields using environment variables
	config.LoadCredentials()          // Prompt for Keyring password if needed

	app, err := config.App()
	if err != nil {
		panic(err)
	}
	devices, err := app.Devices().Do(ctx)

Alternatively, you can use a [Flag] mask to control what [Config] fields are populated. Note that
config.Flags must be set before calling [flag.Parse] or [Config.ReadFromEnvironment]:

	config, err = NewConfig(FlagToken)             // Token only; endpoints use their defaults.
	config, err = NewConfig(FlagToken | FlagDevice) // Also accept a -device ID.
*/
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/spf13/viper"

	"github.com/vinli/vinli-net/internal/authentication"
	"github.com/vinli/vinli-net/internal/log"
	"github.com/vinli/vinli-net/pkg/endpoint"
	"github.com/vinli/vinli-net/pkg/vinli"
)

// EnvPrefix is prepended to the keys below to form environment variable names, e.g.
// VINLI_TOKEN_FILE.
const EnvPrefix = "VINLI"

// Keys used by [Config.ReadFromEnvironment] to set common parameters.
const (
	EnvTokenName     = "token_name"
	EnvTokenFile     = "token_file"
	EnvDeviceID      = "device_id"
	EnvKeyringType   = "keyring_type"
	EnvKeyringPass   = "keyring_password"
	EnvKeyringPath   = "keyring_path"
	EnvKeyringDebug  = "keyring_debug"
	envEndpointAffix = "_url"
)

// Flag controls what options should be scanned from the command line and/or environment variables.
type Flag int

func (f Flag) isSet(other Flag) bool {
	return (f & other) == other
}

const (
	FlagToken     Flag = 1 // Enable access token options.
	FlagDevice    Flag = 2 // Enable device ID option.
	FlagEndpoints Flag = 4 // Enable service URL overrides.
	FlagAll       Flag = FlagToken | FlagDevice | FlagEndpoints
)

var (
	ErrNoTokenSpecified = errors.New("access token location not provided")
	ErrKeyNotFound      = keyring.ErrKeyNotFound
)

// Config fields determine how a client authenticates to Vinli services and where those services
// are found.
type Config struct {
	Flags            Flag   // Controls which set of environment variables/CLI flags to use.
	KeyringTokenName string // Username for access token in system keyring
	TokenFilename    string
	DeviceID         string
	Endpoints        endpoint.Set // Service URL overrides. Missing services use their defaults.
	Backend          keyring.Config
	BackendType      keyringBackend
	Debug            bool // Enable keyring debug messages

	password    *string
	accessToken string
	now         func() time.Time
}

func NewConfig(flags Flag) (*Config, error) {
	c := Config{
		Flags:     flags,
		Endpoints: make(endpoint.Set),
		Backend: keyring.Config{
			ServiceName:              keyringServiceName,
			KeychainTrustApplication: true,
			KeyCtlScope:              "user",
		},
		now: time.Now,
	}
	c.BackendType = keyringBackend{&c}
	c.Backend.KeychainPasswordFunc = c.keyringPassword
	c.Backend.FilePasswordFunc = c.keyringPassword

	return &c, nil
}

// RegisterCommandLineFlags adds c's options to the default flag set.
func (c *Config) RegisterCommandLineFlags() {
	c.RegisterFlags(flag.CommandLine)
}

// RegisterFlags adds c's options to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	if c.Flags.isSet(FlagDevice) {
		fs.StringVar(&c.DeviceID, "device", "", "Device `ID`. Defaults to $VINLI_DEVICE_ID.")
	}
	if c.Flags.isSet(FlagToken) {
		fs.StringVar(&c.KeyringTokenName, "token-name", "", "System keyring `name` for access token. Defaults to $VINLI_TOKEN_NAME.")
		fs.StringVar(&c.TokenFilename, "token-file", "", "`File` containing access token. Defaults to $VINLI_TOKEN_FILE.")

		var names []string
		for _, name := range keyring.AvailableBackends() {
			names = append(names, string(name))
		}
		sort.Strings(names)
		fs.Var(&c.BackendType, "keyring-type", "Keyring `type` ("+strings.Join(names, "|")+"). Defaults to $VINLI_KEYRING_TYPE.")
		fs.StringVar(&c.Backend.FileDir, "keyring-file-dir", "", "keyring `directory` for file-backed keyring types. Defaults to $VINLI_KEYRING_PATH or "+keyringDirectory+".")
		fs.BoolVar(&c.Debug, "keyring-debug", false, "Enable keyring debug logging")
	}
	if c.Flags.isSet(FlagEndpoints) {
		for _, s := range endpoint.Services {
			fs.Func(string(s)+"-url", fmt.Sprintf("Base `URL` of the %s service. Defaults to $VINLI_%s_URL.", s, strings.ToUpper(string(s))),
				func(v string) error {
					c.Endpoints[s] = v
					return nil
				})
		}
	}
}

// LoadCredentials attempts to open a keyring, prompting for a password if needed. Call this
// method before issuing requests to prevent interactive prompts from counting against timeouts.
func (c *Config) LoadCredentials() error {
	if c.Flags.isSet(FlagToken) {
		if _, err := c.token(); err != nil {
			return err
		}
	}
	return nil
}

func environment() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// ReadFromEnvironment populates c using environment variables. Values that are already populated
// are not overwritten.
//
// Calling ReadFromEnvironment after flag.Parse() (or other initialization method) will prevent the
// environment from overriding explicit command-line parameters and avoid potentially misleading
// debug log messages.
func (c *Config) ReadFromEnvironment() {
	env := environment()
	if c.Flags.isSet(FlagDevice) {
		if c.DeviceID == "" {
			c.DeviceID = env.GetString(EnvDeviceID)
			log.Debug("Set device ID to '%s'", c.DeviceID)
		}
	}
	if c.Flags.isSet(FlagToken) {
		if c.KeyringTokenName == "" && c.TokenFilename == "" {
			c.KeyringTokenName = env.GetString(EnvTokenName)
			log.Debug("Set access token name to '%s'", c.KeyringTokenName)

			c.TokenFilename = env.GetString(EnvTokenFile)
			log.Debug("Set access token file to '%s'", c.TokenFilename)
		}
		if c.BackendType.String() == string(keyring.InvalidBackend) {
			if err := c.BackendType.Set(env.GetString(EnvKeyringType)); err == nil {
				log.Debug("Set keyring type to '%s'", c.BackendType)
			}
		}
		if c.password == nil {
			password := env.GetString(EnvKeyringPass)
			c.password = &password
			if len(password) > 0 {
				log.Debug("Set keyring File Password to %s", strings.Repeat("*", len("hunter2")))
			}
		}
		if c.Backend.FileDir == "" {
			c.Backend.FileDir = env.GetString(EnvKeyringPath)
			log.Debug("Set keyring File Path to '%s'", c.Backend.FileDir)
		}
		if !c.Debug {
			c.Debug = env.IsSet(EnvKeyringDebug)
			log.Debug("Set keyring Debug Logging to '%v'", c.Debug)
		}
	}
	if c.Flags.isSet(FlagEndpoints) {
		for _, s := range endpoint.Services {
			if _, ok := c.Endpoints[s]; ok {
				continue
			}
			if u := env.GetString(string(s) + envEndpointAffix); u != "" {
				c.Endpoints[s] = u
				log.Debug("Set %s service URL to '%s'", s, u)
			}
		}
	}
}

func (c *Config) token() (string, error) {
	if c.accessToken != "" {
		return c.accessToken, nil
	}
	if c.TokenFilename == "" && c.KeyringTokenName == "" {
		return "", ErrNoTokenSpecified
	}
	var err error
	if c.TokenFilename != "" {
		token, err := os.ReadFile(c.TokenFilename)
		if err == nil {
			c.accessToken = strings.TrimSpace(string(token))
			return c.accessToken, nil
		}
		if !errors.Is(err, os.ErrNotExist) || c.KeyringTokenName == "" {
			return "", err
		}
		// If the token file doesn't exist, fall through to trying to load from the system keyring.
	}
	c.accessToken, err = c.LoadTokenFromKeyring()
	return c.accessToken, err
}

// SetToken makes c use token instead of reading one from a file or keyring.
func (c *Config) SetToken(token string) {
	c.accessToken = strings.TrimSpace(token)
}

// TokenInfo returns the unverified claims of the configured access token.
func (c *Config) TokenInfo() (*authentication.TokenInfo, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	return authentication.InspectToken(token)
}

// App returns a [vinli.App] authenticated with the configured access token. Additional options
// are applied after the configured endpoints.
func (c *Config) App(opts ...vinli.Option) (*vinli.App, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	if info, err := authentication.InspectToken(token); err == nil {
		if info.Expired(c.now()) {
			log.Warning("Access token expired at %s; requests will likely be rejected", info.ExpiresAt.Format(time.RFC3339))
		}
	} else if !errors.Is(err, authentication.ErrOpaqueToken) {
		log.Warning("Could not inspect access token: %s", err)
	}
	opts = append([]vinli.Option{vinli.WithEndpoints(c.Endpoints)}, opts...)
	return vinli.New(token, opts...)
}
