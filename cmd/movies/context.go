package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Clark-Hu/movie-review/internal/app"
	"github.com/Clark-Hu/movie-review/internal/config"
	"github.com/Clark-Hu/movie-review/internal/logging"
	"github.com/Clark-Hu/movie-review/internal/repository"
	"github.com/Clark-Hu/movie-review/internal/store"
	"github.com/Clark-Hu/movie-review/internal/tmdb"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     config.Config
	configErr  error

	logger   *log.Logger
	closers  []func() error
	closeErr error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFile(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *log.Logger {
	if c.logger != nil {
		return c.logger
	}
	cfg, _ := c.ensureConfig()
	opts := logging.OptionsFromConfig(cfg, "[movies] ")
	opts.Console = io.Discard
	if c.verboseFlag != nil && *c.verboseFlag {
		opts.Console = os.Stderr
	}
	logger, closeFn := logging.New(opts)
	c.logger = logger
	c.closers = append(c.closers, closeFn)
	return logger
}

// openService builds the application service. requireLookup makes a missing
// TMDB API key an error; otherwise lookup operations report it at call time.
func (c *commandContext) openService(ctx context.Context, requireLookup bool) (*app.Service, store.HealthChecker, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := c.ensureLogger()

	var lookup tmdb.Client
	if strings.TrimSpace(cfg.TMDBAPIKey) != "" {
		client, err := tmdb.NewHTTPClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, tmdb.Options{
			Language:  cfg.TMDBLanguage,
			Timeout:   time.Duration(cfg.TMDBTimeoutSecs) * time.Second,
			RateLimit: float64(cfg.TMDBRateLimit),
			RateBurst: cfg.TMDBRateBurst,
			Logger:    logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init tmdb client: %w", err)
		}
		lookup = client
	} else if requireLookup {
		return nil, nil, errors.New("TMDB_API_KEY is required for movie lookup")
	}

	ratings, health, err := c.openRatings(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	svc := app.New(lookup, ratings, logger)
	if err := svc.Initialize(ctx); err != nil {
		return nil, nil, err
	}
	return svc, health, nil
}

func (c *commandContext) openRatings(ctx context.Context, cfg config.Config, logger *log.Logger) (repository.RatingStore, store.HealthChecker, error) {
	opts := store.OptionsFromConfig(cfg, logger)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.DBDriver {
	case config.DriverPostgres:
		st, err := store.NewPostgres(dbCtx, cfg.DBURL, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		c.closers = append(c.closers, st.Close)
		return repository.NewPostgres(st).Ratings, st, nil
	default:
		st, err := store.OpenSQLite(dbCtx, cfg.DBPath, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		c.closers = append(c.closers, st.Close)
		return repository.NewSQLite(st).Ratings, st, nil
	}
}

// close releases resources in reverse order of acquisition.
func (c *commandContext) close() error {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && c.closeErr == nil {
			c.closeErr = err
		}
	}
	c.closers = nil
	return c.closeErr
}
