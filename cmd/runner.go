package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotfetch/internal/auth"
	"github.com/desertthunder/spotfetch/internal/formatter"
	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/prompt"
	"github.com/desertthunder/spotfetch/internal/resolver"
	"github.com/desertthunder/spotfetch/internal/services"
	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	preloaded  bool
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	prompter   prompt.Prompter
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is: the config file and environment are not read.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Prompter   prompt.Prompter
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	preloaded := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Prompter == nil {
		opts.Prompter = prompt.New(os.Stdin, os.Stderr)
	}

	return &Runner{
		config:     opts.Config,
		preloaded:  preloaded,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		prompter:   opts.Prompter,
	}
}

// Configure runs before every command: it loads config.toml and the environment, applies global flags,
// then builds the HTTP client and catalog.
//
// init is left alone so that it can replace a config file that does not parse or validate.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Args().First() == initCommandName {
		if cmd.Bool("verbose") {
			shared.SetLogLevel(r.logger, log.DebugLevel)
		}
		r.logger.Debug("config not loaded", "command", initCommandName)
		return ctx, nil
	}

	if !r.preloaded {
		config, err := shared.LoadConfigOrDefault(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		if err := config.ApplyEnv(); err != nil {
			return ctx, err
		}
		r.config = config
	}

	if id := cmd.String("client-id"); id != "" {
		r.config.Credentials.Spotify.ClientID = id
	}
	if secret := cmd.String("client-secret"); secret != "" {
		r.config.Credentials.Spotify.ClientSecret = secret
	}
	if level := cmd.String("log-level"); level != "" {
		r.config.Log.Level = level
	}

	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	r.logger = shared.WithLogger(r.logger, "run", shared.GenerateID()[:8])

	if r.httpClient == nil {
		timeout, err := r.config.HTTP.TimeoutDuration()
		if err != nil {
			return ctx, err
		}
		r.httpClient = &http.Client{Timeout: timeout}
	}

	if r.catalog == nil {
		r.catalog = services.NewSpotifyService(services.SpotifyOptions{
			BaseURL:           r.config.Provider.APIURL,
			HTTPClient:        r.httpClient,
			Market:            r.config.Provider.Market,
			RequestsPerSecond: r.config.HTTP.RequestsPerSecond,
			Logger:            r.logger,
		})
	}

	return ctx, nil
}

// credentials returns the configured client credentials. When ask is set, missing halves are prompted for.
func (r *Runner) credentials(ask bool) (auth.Credentials, error) {
	creds := auth.Credentials{
		ClientID:     r.config.Credentials.Spotify.ClientID,
		ClientSecret: r.config.Credentials.Spotify.ClientSecret,
	}

	if ask && creds.ClientID == "" {
		id, err := r.prompter.Input("SPOTIFY_CLIENT_ID:")
		if err != nil {
			return creds, err
		}
		creds.ClientID = id
	}
	if ask && creds.ClientSecret == "" {
		secret, err := r.prompter.Password("SPOTIFY_CLIENT_SECRET:")
		if err != nil {
			return creds, err
		}
		creds.ClientSecret = secret
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return creds, fmt.Errorf("%w: set --client-id/--client-secret, SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET or [credentials.spotify] in config.toml",
			shared.ErrMissingCredentials)
	}
	return creds, nil
}

// authenticate acquires the token used for the rest of the run.
func (r *Runner) authenticate(ctx context.Context, ask bool) (*auth.TokenManager, *oauth2.Token, error) {
	creds, err := r.credentials(ask)
	if err != nil {
		return nil, nil, err
	}

	tm, err := auth.NewTokenManager(creds,
		auth.WithTokenURL(r.config.Provider.TokenURL),
		auth.WithHTTPClient(r.httpClient),
		auth.WithLogger(r.logger),
	)
	if err != nil {
		return nil, nil, err
	}

	tok, err := tm.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("authenticated", "expires", tok.Expiry.Format("15:04:05"))
	return tm, tok, nil
}

// searchKind picks the free-text search category: the flag when set, else config.
func (r *Runner) searchKind(cmd *cli.Command) (models.Kind, error) {
	name := cmd.String("type")
	if name == "" {
		name = r.config.Search.Type
	}

	kind, err := models.ParseKind(name)
	if err != nil {
		return models.KindUnrecognized, fmt.Errorf("%w: --type: %v", shared.ErrInvalidArgument, err)
	}
	return kind, nil
}

func (r *Runner) resolver(kind models.Kind) *resolver.Resolver {
	return resolver.New(r.catalog,
		resolver.WithOpenHost(r.config.Provider.OpenHost),
		resolver.WithCategory(kind),
		resolver.WithLogger(r.logger),
	)
}

type lookupOpts struct {
	res      *resolver.Resolver
	features bool
}

// lookup resolves input and fetches its details, renewing tok between calls when it has expired.
func (r *Runner) lookup(ctx context.Context, tm *auth.TokenManager, tok *oauth2.Token, input string, opts lookupOpts) (*models.Details, error) {
	ref, err := opts.res.Resolve(ctx, tok, input)
	if err != nil {
		return nil, err
	}
	r.logger.Info("resolved", "type", ref.Kind, "id", ref.ID)

	if tok, err = tm.Ensure(ctx, tok); err != nil {
		return nil, err
	}

	return r.catalog.Details(ctx, tok, ref, services.DetailOptions{Features: opts.features})
}

// exportPath is the --output path or the default file name under the export directory.
func (r *Runner) exportPath(d *models.Details, output string) string {
	if output != "" {
		return output
	}
	return filepath.Join(r.config.Export.Directory, formatter.DefaultFilename(d))
}

func (r *Runner) export(d *models.Details, output string) error {
	path, err := formatter.WriteTextExport(d, r.exportPath(d, output))
	if err != nil {
		return err
	}
	r.logger.Info("saved", "file", path)
	return nil
}

func (r *Runner) render(d *models.Details) error {
	return formatter.Render(r.output, d, formatter.RenderOptions{})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
