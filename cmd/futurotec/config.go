package main

import (
	"fmt"
	"io"

	"github.com/jonathan/futurotec/internal/config"
	"github.com/jonathan/futurotec/internal/logging"
)

// loadConfig reads the optional config file, fills in defaults, applies
// environment overrides and validates the result.
func loadConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(config.Default())
	if err := merged.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLogger(out io.Writer, cfg *config.Config) (*logging.SlogLogger, error) {
	log, err := logging.New(out, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
