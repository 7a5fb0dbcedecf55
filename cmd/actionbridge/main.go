// cmd/actionbridge/main.go
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"actionbridge/internal/common/config"
	"actionbridge/internal/common/logger"
)

var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime reads configuration and builds the logger every subcommand shares.
func loadRuntime(configPath string) (*config.Config, *zap.Logger, logger.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog, err := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logger init failed: %w", err)
	}
	return cfg, zapLog, logger.NewZapAdapter(zapLog), nil
}
