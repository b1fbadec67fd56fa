package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/swamp-dev/mastery/internal/backup"
	"github.com/swamp-dev/mastery/internal/career"
	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/config"
	"github.com/swamp-dev/mastery/internal/goals"
	"github.com/swamp-dev/mastery/internal/industry"
	"github.com/swamp-dev/mastery/internal/metrics"
	"github.com/swamp-dev/mastery/internal/review"
	"github.com/swamp-dev/mastery/internal/store"
)

// app bundles everything a command needs, built from one config.
type app struct {
	cfg      *config.Config
	clock    clock.Clock
	catalog  *catalog.Catalog
	store    *store.Store
	engine   *metrics.Engine
	career   *career.Tracker
	industry *industry.Log
	goals    *goals.Planner
	reviews  *review.Book
	backups  *backup.Manager
}

func (a *app) Close() error {
	return a.store.Close()
}

// today is the current calendar day.
func (a *app) today() time.Time {
	return clock.Today(a.clock)
}

// intensity is the stored level, falling back to the configured default.
func (a *app) intensity(ctx context.Context) catalog.Intensity {
	raw := a.store.GetString(ctx, store.IntensityKey, a.cfg.Intensity)
	level, err := catalog.ParseIntensity(raw)
	if err != nil {
		logger.Warn("stored intensity invalid, using standard", "value", raw)
		return catalog.Standard
	}
	return level
}

// loadConfig reads the config file, applies MASTERY_* variables and then the --db flag.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if f := rootCmd.PersistentFlags().Lookup("db"); f != nil && f.Changed {
		cfg.Store.Path = viper.GetString("store.path")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.Store.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Store.Redis.Addr, err)
		}
		return store.NewRedis(client, cfg.Store.Redis.Prefix), nil
	default:
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		b, err := store.OpenSQLite(cfg.Store.Path, cfg.Store.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("opening database at %s: %w", cfg.Store.Path, err)
		}
		return b, nil
	}
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.System{}
	s := store.New(b,
		store.WithLogger(logger),
		store.WithClock(clk),
		store.WithRetentionMonths(cfg.Retention.Months),
	)
	return newApp(cfg, s), nil
}

func newApp(cfg *config.Config, s *store.Store) *app {
	cat := catalog.Default()
	return &app{
		cfg:      cfg,
		clock:    s.Clock(),
		catalog:  cat,
		store:    s,
		engine:   metrics.NewEngine(cat, s, s.Clock()),
		career:   career.New(s, logger),
		industry: industry.New(s, logger),
		goals:    goals.New(s, logger),
		reviews:  review.New(s, logger),
		backups:  backup.New(s, logger),
	}
}
