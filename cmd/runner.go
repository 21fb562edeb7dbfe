package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/localnext/internal/repositories"
	"github.com/desertthunder/localnext/internal/services"
	"github.com/desertthunder/localnext/internal/shared"
	"github.com/desertthunder/localnext/internal/songkick"
	"github.com/desertthunder/localnext/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	music      services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Music      services.Service
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		music:      opts.Music,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, buildCommand, concertsCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the Runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase opens the page cache database from config.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run 'localnext setup' first): %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// newScanner builds a listing-site client backed by the page cache.
func (r *Runner) newScanner(db *sql.DB) *songkick.Client {
	var cache songkick.PageCache
	if db != nil {
		cache = repositories.NewPageRepository(db)
	}

	var limiter *rate.Limiter
	if r.config.Listing.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.Listing.RequestsPerSec), 1)
	}

	timeout := 30 * time.Second
	if r.config.Listing.TimeoutSeconds > 0 {
		timeout = time.Duration(r.config.Listing.TimeoutSeconds) * time.Second
	}

	return songkick.NewClient(songkick.ClientOpts{
		BaseURL:    r.config.Listing.BaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Cache:      cache,
		Limiter:    limiter,
		Logger:     shared.WithLogger(r.logger, "component", "scanner"),
	})
}

// newEngine builds the pipeline engine from the Runner's dependencies.
func (r *Runner) newEngine(scanner *songkick.Client, shuffle, expandLineups bool) *tasks.BuildEngine {
	return tasks.NewBuildEngine(tasks.EngineOpts{
		Music:         r.music,
		Scanner:       scanner,
		Exclude:       r.config.Listing.Exclude,
		ExpandLineups: expandLineups,
		Shuffle:       shuffle,
		Logger:        shared.WithLogger(r.logger, "component", "engine"),
	})
}

// parseBuildArgs parses "year month area [area...]" positional arguments into
// one AreaQuery per area.
func parseBuildArgs(args []string) ([]songkick.AreaQuery, int, time.Month, error) {
	if len(args) < 3 {
		return nil, 0, 0, fmt.Errorf("%w: expected year, month, and at least one area ID", shared.ErrMissingArgument)
	}

	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 {
		return nil, 0, 0, fmt.Errorf("%w: invalid year %q", shared.ErrInvalidArgument, args[0])
	}

	monthNum, err := strconv.Atoi(args[1])
	if err != nil || monthNum < 1 || monthNum > 12 {
		return nil, 0, 0, fmt.Errorf("%w: invalid month %q", shared.ErrInvalidArgument, args[1])
	}
	month := time.Month(monthNum)

	var queries []songkick.AreaQuery
	for _, arg := range args[2:] {
		areaID, err := strconv.Atoi(arg)
		if err != nil || areaID < 1 {
			return nil, 0, 0, fmt.Errorf("%w: invalid area ID %q", shared.ErrInvalidArgument, arg)
		}
		queries = append(queries, songkick.NewAreaQuery(areaID, year, month))
	}

	return queries, year, month, nil
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
