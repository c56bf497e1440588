// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// Driver selects the storage backend: "sqlite" or "postgres".
	Driver string `json:"driver"`

	// DatabaseDSN is the SQLite file path or the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`

	// ReportsDir is where generated reports are written.
	ReportsDir string `json:"reports_dir"`

	// LogLevel is the minimum zap level.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse reads configuration from os.Args, the config file and the environment.
// It exits the process on malformed input.
func Parse() *Options {
	opts, err := Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return opts
}

// Load builds Options from args. Precedence, lowest first: flag defaults and
// values, the JSON config file, a .env file, process environment variables.
func Load(args []string) (*Options, error) {
	opts := &Options{}

	flags := flag.NewFlagSet("dietjournal", flag.ContinueOnError)
	flags.StringVar(&opts.Port, "a", "localhost:8080", "run on ip:port server")
	flags.StringVar(&opts.Driver, "driver", DriverSQLite, "storage driver: sqlite | postgres")
	flags.StringVar(&opts.DatabaseDSN, "d", "dietjournal.db", "db address")
	flags.StringVar(&opts.ReportsDir, "reports", "reports", "directory for generated reports")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level")
	flags.StringVar(&opts.Config, "config", "config.json", "path to config file")
	flags.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}

	if opts.Config != "" {
		if _, err := os.Stat(opts.Config); err == nil {
			data, err := os.ReadFile(opts.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, opts); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	overrideFromEnv(&opts.Port, "SERVER_ADDRESS")
	overrideFromEnv(&opts.Driver, "DATABASE_DRIVER")
	overrideFromEnv(&opts.DatabaseDSN, "DATABASE_DSN")
	overrideFromEnv(&opts.ReportsDir, "REPORTS_DIR")
	overrideFromEnv(&opts.LogLevel, "LOG_LEVEL")

	if opts.Driver != DriverSQLite && opts.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	return opts, nil
}

// loadDotEnv exports variables from path unless they are already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
