// cmd/suggestion-server/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"suggestion-engine/internal/cache"
	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/database"
	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/observability"
	"suggestion-engine/internal/cooldown"
	"suggestion-engine/internal/geocontext"
	"suggestion-engine/internal/orchestrator"
	"suggestion-engine/internal/ratelimit"
	"suggestion-engine/internal/server"
	"suggestion-engine/internal/suggest"
	"suggestion-engine/internal/tenant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting suggestion engine", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()
	tracing := observability.NewTracing(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	defer tracing.Shutdown()

	// --- Infrastructure clients (all optional, memory fallbacks) ---

	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled() {
		if err := retryWithBackoff("postgres", log, func() error {
			client, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				client.Close()
				return err
			}
			pg = client
			return nil
		}); err != nil {
			log.WithError(err).Warn("postgres unavailable, using static tenant registry", nil)
		} else {
			defer pg.Close()
		}
	}

	var rdb *database.RedisClient
	if cfg.Database.Redis.Enabled() {
		if err := retryWithBackoff("redis", log, func() error {
			client, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				client.Close()
				return err
			}
			rdb = client
			return nil
		}); err != nil {
			log.WithError(err).Warn("redis unavailable, using in-memory stores", nil)
		} else {
			defer rdb.Close()
		}
	}

	var es *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		if err := retryWithBackoff("elasticsearch", log, func() error {
			client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := client.Ping(); err != nil {
				return err
			}
			es = client
			return nil
		}); err != nil {
			log.WithError(err).Warn("elasticsearch unavailable, poi source disabled", nil)
		}
	}

	// --- Tenant resolution ---

	var registry tenant.Registry = tenant.NewStaticRegistry(cfg.Tenants.Registry)
	if pg != nil {
		registry = tenant.NewPostgresRegistry(pg)
		log.Info("tenant registry backed by postgres", nil)
	}
	resolver := tenant.NewResolver(registry, log)

	// --- Quotas, cooldowns, cache ---

	var limiterStore ratelimit.Store = ratelimit.NewMemoryStore()
	var cooldownStore cooldown.Store = cooldown.NewMemoryStore()
	var cacheStore cache.Store

	if rdb != nil {
		limiterStore = ratelimit.NewRedisStore(rdb.GetClient())
		cooldownStore = cooldown.NewRedisStore(rdb.GetClient())
		cacheStore = cache.NewRedisStore(rdb.GetClient())
	} else {
		memCache := cache.NewMemoryStore()
		memCache.StartSweeper(cfg.Cache.SweepDuration())
		defer memCache.Stop()
		cacheStore = memCache
	}

	limiter := ratelimit.NewLimiter(limiterStore, cfg.Tenants, log)
	cooldowns := cooldown.NewRegistry(cooldownStore, cfg.Cooldown.CooldownDuration(), log)
	respCache := cache.New(cacheStore, cfg.Cache.TTLDuration(), log)

	// --- Geo context sources ---

	sources := []geocontext.Source{
		geocontext.NewCitybeatSource(cfg.Sources.Citybeat),
		geocontext.NewGatherlySource(cfg.Sources.Gatherly),
	}
	if es != nil {
		sources = append([]geocontext.Source{geocontext.NewPOISource(es, cfg.Sources.POI)}, sources...)
	}
	fetcher := geocontext.NewFetcher(sources, geocontext.NewWeatherSource(cfg.Sources.Weather), log)

	// --- Providers ---

	providers := make([]suggest.SuggestionProvider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		providers = append(providers, suggest.NewHTTPProvider(pc))
	}
	generator := suggest.NewGenerator(providers, cooldowns, log)

	orch := orchestrator.New(respCache, fetcher, generator, tracing, log)
	srv := server.New(cfg.Server, cfg.App.Name, resolver, limiter, orch, obs, log)

	opsServer := startOpsListener(cfg.Server.OpsPort, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server failed", nil)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown incomplete", nil)
	}
	if opsServer != nil {
		opsServer.Shutdown(shutdownCtx)
	}
	log.Info("shutdown complete", nil)
}

// startOpsListener serves Prometheus metrics and pprof on a separate port
// so the public API surface stays clean.
func startOpsListener(port int, log logger.Logger) *http.Server {
	if port <= 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		log.Info("ops listener started", map[string]interface{}{"port": port})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("ops listener stopped", nil)
		}
	}()
	return srv
}

// retryWithBackoff attempts fn a few times with growing delays before
// giving up, so a slow-starting dependency does not kill the process.
func retryWithBackoff(name string, log logger.Logger, fn func() error) error {
	const attempts = 4
	delay := 500 * time.Millisecond

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts {
			log.WithError(err).Warn("dependency not ready, retrying", map[string]interface{}{
				"dependency": name,
				"attempt":    i,
				"retryInMs":  delay.Milliseconds(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
