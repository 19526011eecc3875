package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a documented config.toml to the given path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Set credentials.spotify.client_id before running `lyrix spotify connect`\n")

	return nil
}

// SetupDatabase initializes the cache database and applies migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)

	return nil
}
