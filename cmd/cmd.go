// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.1.0"

func init() {
	// -v is taken by --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// app builds the root command. With no subcommand it runs the interactive flow.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:      "spotfetch",
		Usage:     "Look up Spotify tracks, albums and playlists by link or search",
		UsageText: "spotfetch [global options] [command] [link or query]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "Spotify client ID (overrides SPOTIFY_CLIENT_ID and config)",
			},
			&cli.StringFlag{
				Name:  "client-secret",
				Usage: "Spotify client secret (overrides SPOTIFY_CLIENT_SECRET and config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			typeFlag(),
		},
		Before:   r.Configure,
		Action:   r.Interactive,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		lookupCommand, searchCommand, resolveCommand, initCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// typeFlag is persistent: lookup, search and resolve read it too.
func typeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "Resource type searched for free-text input (track, album, playlist); defaults to search.type",
	}
}

// lookupCommand resolves and displays one resource
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lookup",
		Aliases: []string{"get"},
		Usage:   "Show details for a Spotify link, URI or search query",
		ArgsUsage: "<link, URI or query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-features",
				Usage: "Skip the audio features request for tracks",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save details to a text file in export.directory",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (implies --save)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the resource in the browser",
			},
		},
		Action: r.Lookup,
	}
}

// searchCommand lists search results
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "List the top search results for a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (1-50); defaults to search.limit",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Search,
	}
}

// resolveCommand prints the type and ID of an input
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Print the resource type and ID a link or query resolves to",
		ArgsUsage: "<link, URI or query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON with URI and link",
			},
		},
		Action: r.Resolve,
	}
}

// initCommandName is checked by [Runner.Configure], which leaves the config file to init.
const initCommandName = "init"

// initCommand writes a starter config file
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  initCommandName,
		Usage: "Create config.toml from the built-in template",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: r.Init,
	}
}
