// Package main mints bearer tokens for local development. The token is
// signed with the same shared secret the server verifies with and names
// the given user as its subject.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atinyakov/taskboard/internal/auth"
)

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, signs a token and writes it to out.
func run(args []string, getenv func(string) string, out io.Writer) error {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	secret := fs.String("s", getenv("JWT_SECRET"), "shared signing secret")
	userID := fs.Int64("u", 0, "user id the token is issued for")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *secret == "":
		return errors.New("signing secret is required (-s or JWT_SECRET)")
	case *userID <= 0:
		return errors.New("a positive user id is required (-u)")
	case *ttl <= 0:
		return errors.New("ttl must be positive")
	}

	token, err := auth.NewTokens(*secret).Issue(*userID, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
