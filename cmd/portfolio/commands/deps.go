package commands

import (
	"context"
	"fmt"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/external/naver"
	"github.com/jaudi/Portfolio-analysis/internal/external/yahoo"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/internal/profile"
	"github.com/jaudi/Portfolio-analysis/pkg/config"
	"github.com/jaudi/Portfolio-analysis/pkg/database"
	"github.com/jaudi/Portfolio-analysis/pkg/httputil"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
	"github.com/jaudi/Portfolio-analysis/pkg/redis"
)

// cachePrefix namespaces every Redis key of this service
const cachePrefix = "portfolio"

// app holds the wired dependencies shared by the commands
// ⭐ SSOT: providers, store and cache are constructed here only
type app struct {
	cfg         *config.Config
	log         *logger.Logger
	profile     *profile.Profile
	profileHash string

	// db and repo are nil when DATABASE_URL is unset
	db    *database.DB
	repo  *marketdata.PriceRepository
	redis *redis.Client

	// remote holds the uncached providers by name; sources wraps them in the cache
	remote  map[string]contracts.PriceSource
	sources *marketdata.Registry
}

// setupOptions selects which optional backends are mandatory
type setupOptions struct {
	requireDB bool
}

// setup loads config and profile and wires every price source
func setup(ctx context.Context, opts setupOptions) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if profilePath != "" {
		cfg.Analysis.ProfilePath = profilePath
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load profile
	p, err := profile.LoadOrDefault(cfg.Analysis.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	hash, err := profile.Hash(p)
	if err != nil {
		return nil, fmt.Errorf("hash profile: %w", err)
	}

	a := &app{
		cfg:         cfg,
		log:         log,
		profile:     p,
		profileHash: hash,
		remote:      make(map[string]contracts.PriceSource),
	}

	// 4. Price store (optional)
	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			if opts.requireDB {
				return nil, fmt.Errorf("connect to database: %w", err)
			}
			log.WithError(err).Warn("Price store unavailable, continuing without the db source")
		} else {
			a.db = db
			a.repo = marketdata.NewPriceRepository(db.Pool)
		}
	} else if opts.requireDB {
		return nil, fmt.Errorf("DATABASE_URL is required for this command")
	}

	// 5. Price cache (optional)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, price cache disabled")
		rc, _ = redis.New(ctx, &config.Config{})
	}
	a.redis = rc
	cache := redis.NewCache(rc, cachePrefix)

	// 6. Remote providers share one rate-limited HTTP client
	httpClient := httputil.New(cfg, log)
	a.remote[yahoo.SourceName] = yahoo.NewClient(httpClient, log, cfg.Yahoo.BaseURL)
	a.remote[naver.SourceName] = naver.NewClient(httpClient, log, cfg.Naver.BaseURL, cfg.Naver.ChartURL)

	a.sources = marketdata.NewRegistry(marketdata.NewDemoSource())
	for _, src := range a.remote {
		a.sources.Register(marketdata.NewCachedSource(src, cache, cfg.Redis.PriceTTL, log))
	}
	if a.repo != nil {
		a.sources.Register(a.repo)
	}

	log.WithFields(map[string]interface{}{
		"profile":      p.Meta.ProfileID,
		"profile_hash": hash[:12],
		"sources":      a.sources.Names(),
		"cache":        rc.Enabled(),
	}).Debug("Application wired")

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
