package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/desertthunder/playdeck/internal/services"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	catalog    player.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
//
// DB is opened lazily from the config when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Catalog    player.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient)
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewCatalogService(opts.Config.API.CatalogBase(), opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playCommand, catalogCommand, historyCommand, settingsCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. to move output off the terminal while the TUI runs.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// database returns the open database, opening and migrating it on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	return db, nil
}

// Close releases the database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
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

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
