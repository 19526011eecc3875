// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, spotifyCommand, lyricsCommand, cacheCommand, statusCommand, watchCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// spotifyCommand handles the Spotify session and playback operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify session and playback operations",
		Commands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Authorize with Spotify via the browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.SpotifyConnect,
			},
			{
				Name:    "disconnect",
				Aliases: []string{"logout"},
				Usage:   "Clear the stored Spotify session",
				Action:  r.SpotifyDisconnect,
			},
			{
				Name:   "status",
				Usage:  "Show session state and signed-in account",
				Action: r.SpotifyStatus,
			},
			{
				Name:  "now",
				Usage: "Show the currently playing track",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SpotifyNow,
			},
			{
				Name:  "recent",
				Usage: "Show recently played tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SpotifyRecent,
			},
		},
	}
}

// lyricsCommand handles lyrics and meaning lookups
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lyrics",
		Aliases: []string{"ly"},
		Usage:   "Lyrics and meaning lookups",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch lyrics for a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "song"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist name to disambiguate the lookup",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the local cache and refetch",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LyricsGet,
			},
			{
				Name:  "meaning",
				Usage: "Fetch the AI interpretation for a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "song"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist name to disambiguate the lookup",
					},
					&cli.StringFlag{
						Name:    "instructions",
						Aliases: []string{"i"},
						Usage:   "Custom analysis instructions",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LyricsMeaning,
			},
			{
				Name:  "current",
				Usage: "Fetch lyrics for the track Spotify is playing right now",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LyricsCurrent,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml with documented defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the generated config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the cache database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// cacheCommand handles local cache inspection and eviction
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the local lookup cache",
		Commands: []*cli.Command{
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List cached lyrics entries",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Evict all cached lyrics and meanings",
				Action: r.CacheClear,
			},
			{
				Name:  "history",
				Usage: "Show locally recorded play history",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of plays to show",
						Value: 20,
					},
				},
				Action: r.CacheHistory,
			},
		},
	}
}

// statusCommand reports backend and session health
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check backend health and session state",
		Action: r.Status,
	}
}

// watchCommand returns the top-level TUI command for the live dashboard.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"tui"},
		Usage:   "Live now-playing dashboard with lyrics and meanings",
		Action:  r.Watch,
	}
}
