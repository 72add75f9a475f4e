package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Init writes the example config to the --config path, creating a starting point for credentials.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		if !cmd.Bool("force") {
			r.logger.Info("config file already exists", "path", configPath)
			return nil
		}
		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("failed to replace config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	r.logger.Info("config file not found, creating from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	if _, err := shared.LoadConfig(configPath); err != nil {
		return fmt.Errorf("created config does not parse: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("Add your client ID and secret from https://developer.spotify.com/dashboard to %s\n", configPath)
}
