package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"tablegate/internal/auth"
	"tablegate/internal/config"
	"tablegate/internal/core"
	"tablegate/internal/logging"
	"tablegate/internal/seed"
	"tablegate/internal/store/postgres"
	"tablegate/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_backend", cfg.Store.Backend,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Seed file: groups, grants, users, initial tables
	var seedFile *seed.File
	if cfg.Seed.Path != "" {
		seedFile, err = seed.Load(cfg.Seed.Path)
		if err != nil {
			slog.Error("failed to load seed file", "path", cfg.Seed.Path, "error", err)
			os.Exit(1)
		}
		slog.Info("seed file loaded",
			"groups", len(seedFile.Groups),
			"grants", len(seedFile.Grants),
			"users", len(seedFile.Users),
			"tables", len(seedFile.Tables),
		)
	} else {
		seedFile = &seed.File{}
	}

	// Select the backing stores
	var (
		perms core.PermissionStore
		rows  core.RowStore
		users core.UserStore
	)
	switch cfg.Store.Backend {
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(cfg.Store.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Store.MaxConns)
		poolConfig.MinConns = int32(cfg.Store.MinConns)
		poolConfig.MaxConnLifetime = cfg.Store.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Store.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		st := postgres.New(pool)
		if err := st.Init(ctx); err != nil {
			slog.Error("failed to initialize store schema", "error", err)
			os.Exit(1)
		}
		if err := st.EnsureGrants(ctx, seedFile.Permissions()); err != nil {
			slog.Error("failed to provision grants", "error", err)
			os.Exit(1)
		}
		perms, rows, users = st, st, st
		slog.Info("using postgres store")

	default:
		perms = core.NewMemoryPermissionStore(seedFile.Permissions())
		rows = core.NewMemoryRowStore()
		users = core.NewMemoryUserStore()
		slog.Info("using in-memory store")
	}

	verifier := auth.New(cfg.Auth.SharedSecret)
	directory := core.NewDirectory(users, seedFile.CoreGroups(), verifier)

	if err := seedFile.Apply(ctx, users, rows, directory.GroupName); err != nil {
		slog.Error("failed to apply seed data", "error", err)
		os.Exit(1)
	}

	audit := core.NewAuditLog(cfg.Audit.MaxEntries)
	service := core.NewService(perms, rows, directory, audit)
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
