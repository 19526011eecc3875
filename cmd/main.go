package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/lyrix/internal/session"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var store session.Store
	if config.Session.Path != "" {
		store = session.NewFileStore(config.Session.Path)
	} else {
		fileStore, err := session.DefaultFileStore()
		if err != nil {
			logger.Fatalf("failed to locate session store: %v", err)
		}
		store = fileStore
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  store,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "lyrix",
		Usage:    "Look up lyrics and meanings for whatever Spotify is playing",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
