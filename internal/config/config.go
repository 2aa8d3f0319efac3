// Package config loads host configuration from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when a nil pointer is provided to Load
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)

// Demo configures the demo host.
type Demo struct {
	MachineID  string        `env:"FSMX_MACHINE_ID"`
	Definition string        `env:"FSMX_DEFINITION"`
	TickRate   time.Duration `env:"FSMX_TICK_RATE" envDefault:"10ms"`
	MaxEvents  int           `env:"FSMX_MAX_EVENTS_PER_TICK" envDefault:"1000"`
	LogLevel   string        `env:"FSMX_LOG_LEVEL" envDefault:"info"`
	LogFormat  string        `env:"FSMX_LOG_FORMAT" envDefault:"text"`
	DOT        bool          `env:"FSMX_PRINT_DOT" envDefault:"true"`
}

// LoadEnv loads the given .env files into the process environment. Existing
// variables are not overridden. With no paths it loads ./.env if present.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		// the default .env file is optional
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Load parses environment variables into v based on its env struct tags.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}
