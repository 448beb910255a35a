// tokengen prints a bearer token for local testing of the API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kirinyoku/queuego/internal/auth"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		secret string
		userID int64
		ttl    time.Duration
	)

	flagSet := pflag.NewFlagSet("tokengen", pflag.ContinueOnError)
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (default: $JWT_SECRET)")
	flagSet.Int64VarP(&userID, "user", "u", 0, "user id to put into the token")
	flagSet.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if secret == "" {
		return fmt.Errorf("--secret or JWT_SECRET is required")
	}
	if userID <= 0 {
		return fmt.Errorf("--user must be a positive id")
	}

	token, err := auth.NewToken([]byte(secret), userID, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
