// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// DatabaseDSN holds the database connection string. When empty the
	// server keeps its records in process memory.
	DatabaseDSN string `json:"database_dsn"`

	// JWTSecret is the shared secret bearer tokens are signed with.
	JWTSecret string `json:"jwt_secret"`

	// MediaRoot is the directory uploaded avatars are written to.
	MediaRoot string `json:"media_root"`

	// MediaURL is the URL prefix media files are served under.
	MediaURL string `json:"media_url"`

	// LogLevel is the minimum zap level that is logged.
	LogLevel string `json:"log_level"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse parses the process arguments and environment. It exits the process
// on invalid configuration.
func Parse() *Options {
	opts, err := ParseArgs(os.Args[1:], os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return opts
}

// ParseArgs builds Options from args, then the JSON config file if one
// exists, then environment variables resolved through lookup. Later sources
// override earlier ones.
func ParseArgs(args []string, lookup func(string) (string, bool)) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8000", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.JWTSecret, "s", "", "bearer token secret")
	fs.StringVar(&options.MediaRoot, "m", "media", "media directory")
	fs.StringVar(&options.MediaURL, "media-url", "/media/", "media URL prefix")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.DurationVar(&options.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath, ok := lookup("CONFIG"); ok && configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	overrides := map[string]*string{
		"SERVER_ADDRESS": &options.Port,
		"DATABASE_DSN":   &options.DatabaseDSN,
		"JWT_SECRET":     &options.JWTSecret,
		"MEDIA_ROOT":     &options.MediaRoot,
		"MEDIA_URL":      &options.MediaURL,
		"LOG_LEVEL":      &options.LogLevel,
	}
	for key, dst := range overrides {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if options.JWTSecret == "" {
		return nil, errors.New("jwt secret is required (-s or JWT_SECRET)")
	}

	return options, nil
}
