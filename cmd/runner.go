package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibes/internal/engine"
	"github.com/desertthunder/vibes/internal/repositories"
	"github.com/desertthunder/vibes/internal/services"
	"github.com/desertthunder/vibes/internal/shared"
	"github.com/desertthunder/vibes/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	logger     *log.Logger
	output     io.Writer
	renderer   *ui.Renderer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		logger:     opts.Logger,
		output:     opts.Output,
		renderer:   ui.NewRenderer(opts.Output),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playlistsCommand, analyzeCommand, vibeCommand, genreCommand, deleteCommand, setupCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Close releases the cache database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}

	err := r.db.Close()
	r.db = nil
	return err
}

// applyVerbosity switches the logger to debug when the root --verbose flag is set.
func (r *Runner) applyVerbosity(cmd *cli.Command) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
}

// requireCatalog returns the configured catalog client, refreshing its token
// when the client supports that. Commands that talk to the catalog call this first.
func (r *Runner) requireCatalog(ctx context.Context) (services.Catalog, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("%w: set spotify credentials in config.toml or the environment", shared.ErrMissingCredentials)
	}

	if auth, ok := r.catalog.(interface{ Authenticate(context.Context) error }); ok {
		if err := auth.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	return r.catalog, nil
}

// buildEngine assembles the aggregation engine from the configured catalog,
// the cache database when present, and the vibe profiles from config.
// A positive threshold overrides the configured one.
func (r *Runner) buildEngine(ctx context.Context, threshold float64) (*engine.Engine, error) {
	catalog, err := r.requireCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if threshold <= 0 {
		threshold = r.config.Engine.VibeThreshold
	}

	opts := engine.Opts{
		Profiles:  engine.ProfilesFromConfig(r.config.Vibes),
		Threshold: threshold,
		Workers:   r.config.Engine.Workers,
		Logger:    shared.WithLogger(r.logger, "component", "engine"),
	}

	if db, err := r.openCache(false); err != nil {
		r.logger.Warn("cache unavailable, fetching without it", "error", err)
	} else if db != nil {
		ttl := time.Duration(r.config.Database.CacheTTLHours) * time.Hour
		opts.ArtistCache = repositories.NewArtistRepository(db, ttl)
		opts.FeatureCache = repositories.NewFeatureRepository(db, ttl)
	}

	return engine.New(catalog, opts), nil
}

// openCache opens the cache database configured under [database]. When required
// is false a missing database is not an error and the caller proceeds without
// caching. The handle is kept on the Runner and reused by later calls.
func (r *Runner) openCache(required bool) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	path := r.config.Database.Path
	if path == "" {
		if required {
			return nil, fmt.Errorf("%w: database.path is not set", shared.ErrMissingConfig)
		}
		return nil, nil
	}

	if _, err := os.Stat(path); err != nil {
		if required {
			return nil, fmt.Errorf("cache database not found at %s, run 'vibes setup database' first", path)
		}
		return nil, nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	r.db = db
	return db, nil
}

// watchProgress creates a progress channel drained by a goroutine that logs
// every update at debug level and, when plain is true, streams it through the
// renderer. The caller closes the channel after the engine call returns and
// then waits on done.
func (r *Runner) watchProgress(plain bool) (chan engine.ProgressUpdate, <-chan struct{}) {
	progressCh := make(chan engine.ProgressUpdate, 100)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug("progress", "phase", update.Phase, "message", update.Message)
			if plain {
				r.renderer.Progress(update)
			}
		}
	}()

	return progressCh, done
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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
