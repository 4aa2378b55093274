// Package main mints platform keys for the tasks API.
//
// Usage:
//
//	keygen -role anon
//	keygen -role service_role -ttl 720h
//
// The signing secret comes from TASKS_PLATFORM_JWT_SECRET (or config.yaml /
// .env, as for the server) unless -secret is given.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	role := fs.String("role", apikey.RoleAnon, "Role claim: anon, authenticated or service_role")
	ttl := fs.Duration("ttl", 0, "Key lifetime; 0 issues a key without expiry")
	secret := fs.String("secret", "", "Signing secret; defaults to the configured platform JWT secret")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *secret == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		*secret = cfg.Platform.JWTSecret
	}
	if *secret == "" {
		return fmt.Errorf("no signing secret: set TASKS_PLATFORM_JWT_SECRET or pass -secret")
	}
	if *ttl < 0 {
		return fmt.Errorf("ttl must not be negative")
	}

	key, err := apikey.Issue(*role, *secret, *ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, key)
	return err
}
