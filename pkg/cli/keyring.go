package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/99designs/keyring"
	"golang.org/x/term"
)

const (
	keyringServiceName  = "li.vin.auth"
	keyringTokenService = "accesstoken"
	keyringDirectory    = "~/.vinli_keys"
)

// keyringBackend selects the credential store used for access tokens. It implements flag.Value
// on top of c.Backend.AllowedBackends.
type keyringBackend struct {
	config *Config
}

func (k keyringBackend) String() string {
	if k.config == nil || len(k.config.Backend.AllowedBackends) == 0 {
		return string(keyring.InvalidBackend)
	}
	return string(k.config.Backend.AllowedBackends[0])
}

func (k keyringBackend) Set(v string) error {
	if k.config == nil {
		return fmt.Errorf("keyring backend is not attached to a configuration")
	}
	if v == "" {
		return nil
	}
	available := keyring.AvailableBackends()
	names := make([]string, 0, len(available))
	for _, name := range available {
		if name == keyring.BackendType(v) {
			k.config.Backend.AllowedBackends = []keyring.BackendType{name}
			return nil
		}
		names = append(names, string(name))
	}
	return fmt.Errorf("cannot store access tokens in %q (available: %s)", v, strings.Join(names, ", "))
}

// promptOutput picks a terminal to show the password prompt on. Token contents may be piped to
// stdout, so stderr is tried when stdout is not a terminal.
func promptOutput() (io.Writer, error) {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if term.IsTerminal(int(f.Fd())) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no terminal available to prompt for the keyring password; set $VINLI_KEYRING_PASSWORD")
}

func (c *Config) keyringPassword(prompt string) (string, error) {
	if c.password != nil && *c.password != "" {
		return *c.password, nil
	}
	w, err := promptOutput()
	if err != nil {
		return "", err
	}
	if c.KeyringTokenName != "" {
		fmt.Fprintf(w, "%s (access token %q): ", prompt, c.KeyringTokenName)
	} else {
		fmt.Fprintf(w, "%s: ", prompt)
	}
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	password := string(b)
	c.password = &password
	return password, nil
}

// keyringConfig returns c.Backend with defaults applied for unset fields.
func (c *Config) keyringConfig() keyring.Config {
	cfg := c.Backend
	if cfg.FileDir == "" {
		cfg.FileDir = keyringDirectory
	}
	return cfg
}

func (c *Config) openKeyring() (keyring.Keyring, error) {
	keyring.Debug = c.Debug
	return keyring.Open(c.keyringConfig())
}

func (c *Config) tokenKey() string {
	return keyringTokenService + "." + c.KeyringTokenName
}

// LoadTokenFromKeyring loads the access token stored under c.KeyringTokenName.
func (c *Config) LoadTokenFromKeyring() (string, error) {
	kr, err := c.openKeyring()
	if err != nil {
		return "", err
	}
	item, err := kr.Get(c.tokenKey())
	if err != nil {
		return "", fmt.Errorf("could not load access token %q: %w", c.KeyringTokenName, err)
	}
	return strings.TrimSpace(string(item.Data)), nil
}

// SaveTokenToKeyring stores token under c.KeyringTokenName. The name only identifies the token
// locally; it need not match a Vinli user or the system username.
func (c *Config) SaveTokenToKeyring(token string) error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	err = kr.Set(keyring.Item{
		Key:         c.tokenKey(),
		Data:        []byte(strings.TrimSpace(token)),
		Label:       "Vinli access token (" + c.KeyringTokenName + ")",
		Description: "Bearer token for Vinli services",
	})
	if err != nil {
		return fmt.Errorf("failed to store access token in keyring: %w", err)
	}
	return nil
}

// DeleteTokenFromKeyring removes the access token stored under c.KeyringTokenName.
func (c *Config) DeleteTokenFromKeyring() error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	return kr.Remove(c.tokenKey())
}
