// Utility for storing access tokens in the system keyring

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinli/vinli-net/internal/authentication"
	"github.com/vinli/vinli-net/pkg/cli"
)

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "usage: %s [-token-name token_name] [-inspect | -remove] [file]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Reads an access token from stdin or file and saves it under token_name in the system")
	fmt.Fprintln(w, "keyring. The token_name defaults to $VINLI_TOKEN_NAME.")
	fmt.Fprintln(w, "")
	flag.PrintDefaults()
}

func describe(w io.Writer, token string, now time.Time) error {
	info, err := authentication.InspectToken(token)
	if errors.Is(err, authentication.ErrOpaqueToken) {
		fmt.Fprintln(w, "Token is opaque; no claims available")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Subject:  %s\n", info.Subject)
	fmt.Fprintf(w, "Issuer:   %s\n", info.Issuer)
	if len(info.Audience) > 0 {
		fmt.Fprintf(w, "Audience: %s\n", strings.Join(info.Audience, ", "))
	}
	if !info.IssuedAt.IsZero() {
		fmt.Fprintf(w, "Issued:   %s\n", info.IssuedAt.Format(time.RFC3339))
	}
	switch {
	case info.ExpiresAt.IsZero():
		fmt.Fprintln(w, "Expires:  never")
	case info.Expired(now):
		fmt.Fprintf(w, "Expired:  %s\n", info.ExpiresAt.Format(time.RFC3339))
	default:
		fmt.Fprintf(w, "Expires:  %s\n", info.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func main() {
	returnCode := 1
	defer func() {
		os.Exit(returnCode)
	}()

	var inspect, remove bool
	config, err := cli.NewConfig(cli.FlagToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load credential configuration: %s\n", err)
		return
	}

	flag.StringVar(&config.KeyringTokenName, "token-name", "", "Name to use for keyring entry")
	flag.BoolVar(&inspect, "inspect", false, "Print the claims of the stored token instead of saving one")
	flag.BoolVar(&remove, "remove", false, "Remove the stored token")
	flag.Usage = usage
	flag.Parse()
	config.ReadFromEnvironment()

	if config.KeyringTokenName == "" {
		fmt.Fprintln(os.Stderr, "Must provide system keyring name for the access token using -token-name or $VINLI_TOKEN_NAME")
		return
	}

	switch {
	case inspect && remove:
		fmt.Fprintln(os.Stderr, "Options -inspect and -remove are mutually exclusive")
		return
	case inspect:
		token, err := config.LoadTokenFromKeyring()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading token: %s\n", err)
			return
		}
		if err := describe(os.Stdout, token, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return
		}
		returnCode = 0
		return
	case remove:
		if err := config.DeleteTokenFromKeyring(); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing token: %s\n", err)
			return
		}
		returnCode = 0
		return
	}

	var token []byte
	switch flag.NArg() {
	case 0:
		token, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading token from stdin: %s\n", err)
			return
		}
	case 1:
		token, err = os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading token from file: %s\n", err)
			return
		}
	default:
		fmt.Fprintln(os.Stderr, "Too many command-line arguments")
		return
	}

	trimmed := strings.TrimSpace(string(token))
	if trimmed == "" {
		fmt.Fprintln(os.Stderr, "Access token is empty")
		return
	}
	if info, err := authentication.InspectToken(trimmed); err == nil && info.Expired(time.Now()) {
		fmt.Fprintf(os.Stderr, "Warning: token expired at %s\n", info.ExpiresAt.Format(time.RFC3339))
	}

	if err := config.SaveTokenToKeyring(trimmed); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving token to keyring: %s\n", err)
		return
	}

	returnCode = 0
}
