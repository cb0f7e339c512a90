package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/brainbolt/backend/internal/catalog"
	"github.com/brainbolt/backend/internal/config"
	"github.com/brainbolt/backend/internal/database"
	"github.com/brainbolt/backend/internal/engine"
	"github.com/brainbolt/backend/internal/estimator"
	"github.com/brainbolt/backend/internal/idempotency"
	"github.com/brainbolt/backend/internal/leaderboard"
	"github.com/brainbolt/backend/internal/logger"
	"github.com/brainbolt/backend/internal/metrics"
	"github.com/brainbolt/backend/internal/middleware"
	"github.com/brainbolt/backend/internal/ratelimit"
	"github.com/brainbolt/backend/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	var db *sql.DB
	if cfg.NeedsPostgres() {
		db, err = database.Connect(cfg.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
	}

	// Initialize redis
	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb, err = connectRedis(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
	}

	cat, err := loadCatalog(ctx, cfg, db)
	if err != nil {
		log.Fatal("Failed to load catalog", "source", cfg.CatalogSource, "error", err)
	}
	log.Info("catalog loaded", "source", cfg.CatalogSource, "items", cat.Len(), "tiers", cat.TierCounts())
	if missing := cat.MissingTiers(); len(missing) > 0 {
		log.Warn("catalog has empty difficulty tiers", "missing", missing)
	}

	// State store
	var states state.Store
	switch cfg.StoreBackend {
	case config.BackendRedis:
		states = state.NewRedis(rdb, cfg.RedisPrefix)
	case config.BackendPostgres:
		states = state.NewPostgres(db)
	default:
		states = state.NewMemory()
	}

	// Rate limiter, idempotency cache and leaderboard share redis when it
	// is configured and fall back to process memory otherwise.
	limitOpts := ratelimit.Options{Capacity: cfg.RateLimitCapacity, Window: cfg.RateLimitWindow}
	idemOpts := idempotency.DefaultOptions()
	idemOpts.TTL = cfg.IdempotencyTTL
	idemOpts.ClaimTTL = idempotency.ClaimTTLFor(cfg.IdempotencyWait)

	var (
		limiter ratelimit.Limiter
		idem    idempotency.Cache
		board   leaderboard.Projection
	)
	if rdb != nil {
		limiter = ratelimit.NewRedis(rdb, cfg.RedisPrefix, limitOpts)
		idem = idempotency.NewRedis(rdb, cfg.RedisPrefix, idemOpts)
		board = leaderboard.NewRedis(rdb, cfg.RedisPrefix)
	} else {
		limiter = ratelimit.NewMemory(limitOpts)
		mem := idempotency.NewMemory(idemOpts, log)
		go mem.StartSweepWorker(ctx, cfg.IdempotencySweepInterval)
		idem = mem
		board = leaderboard.NewMemory()
	}

	var est estimator.Estimator
	if cfg.EstimatorURL != "" {
		client := estimator.NewClient(cfg.EstimatorURL, cfg.EstimatorTimeout)
		hctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Health(hctx); err != nil {
			log.Warn("estimator not reachable, formula scoring until it recovers", "url", cfg.EstimatorURL, "error", err)
		} else {
			log.Info("estimator connected", "url", cfg.EstimatorURL)
		}
		cancel()
		est = client
	}

	var rec metrics.Recorder = metrics.Nop()
	if cfg.MetricsEnabled {
		rec = metrics.Prometheus()
	}

	opts := engine.DefaultOptions()
	opts.InactivityDecay = cfg.InactivityDecayEnabled
	opts.InactivityThreshold = cfg.InactivityThreshold
	opts.EstimatorTimeout = cfg.EstimatorTimeout
	opts.IdempotencyWait = cfg.IdempotencyWait

	eng := engine.New(engine.Deps{
		Catalog:     cat,
		States:      states,
		Limiter:     limiter,
		Idempotency: idem,
		Leaderboard: board,
		Estimator:   est,
		Logger:      log,
		Metrics:     rec,
	}, opts)

	// Initialize handlers
	quizHandler := engine.NewHandler(eng, log)
	boardHandler := leaderboard.NewHandler(board, log)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))
	api := r.PathPrefix("/api/v1").Subrouter()

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Identity(cfg.JWTSecret))
	protected.HandleFunc("/quiz/next", quizHandler.Next).Methods("GET")
	protected.HandleFunc("/quiz/answer", quizHandler.Answer).Methods("POST")
	protected.HandleFunc("/leaderboard/{board}", boardHandler.Top).Methods("GET")
	protected.HandleFunc("/leaderboard/{board}/rank", boardHandler.Rank).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	// CORS
	allowCredentials := true
	for _, o := range cfg.CORSOrigins {
		if o == "*" {
			allowCredentials = false
		}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.IdentityHeader, engine.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Remaining", "X-Request-ID"},
		AllowCredentials: allowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "store", cfg.StoreBackend, "redis", rdb != nil, "estimator", est != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, db *sql.DB) (*catalog.Catalog, error) {
	switch cfg.CatalogSource {
	case config.CatalogFile:
		return catalog.LoadFile(cfg.CatalogPath)
	case config.CatalogPostgres:
		store := catalog.NewStore(db)
		if _, err := store.SeedIfEmpty(ctx, catalog.Seed()); err != nil {
			return nil, fmt.Errorf("seed items: %w", err)
		}
		return store.Load(ctx)
	default:
		return catalog.New(catalog.Seed())
	}
}
