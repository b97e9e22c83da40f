package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ipsfulano/clinical-records-api/internal/api"
	"github.com/ipsfulano/clinical-records-api/internal/infrastructure/db/postgres"
	redisdb "github.com/ipsfulano/clinical-records-api/internal/infrastructure/db/redis"
	"github.com/ipsfulano/clinical-records-api/internal/pkg/config"
	"github.com/ipsfulano/clinical-records-api/pkg/logger"
)

// @title           Clinical Records API
// @version         1.0
// @description     REST backend for staff accounts, patient records and clinical histories.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:   "clinical-records-api",
		Short: "Clinical records REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and seed the default admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			ctx := context.Background()
			pool, err := postgres.Connect(ctx, postgres.Config{
				URL:      cfg.Postgres.URL,
				MaxConns: cfg.Postgres.MaxConns,
				MinConns: cfg.Postgres.MinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Bootstrap(ctx, pool); err != nil {
				return fmt.Errorf("bootstrap schema: %w", err)
			}
			if err := postgres.SeedAdmin(ctx, pool, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}

			fmt.Println("Schema applied and admin account seeded.")
			return nil
		},
	}
}

func runServer() error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.Postgres.Bootstrap {
		if err := postgres.Bootstrap(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap schema")
		}
		if err := postgres.SeedAdmin(ctx, pool, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin account")
		}
		log.Info().Msg("schema bootstrapped")
	}

	rdb, err := connectRedis(ctx, cfg)
	if err != nil {
		// The throttle is an optional hardening layer; a missing Redis
		// must not keep the API down.
		log.Warn().Err(err).Msg("redis unavailable, login throttle disabled")
	}
	if rdb != nil {
		defer rdb.Close()
		log.Info().Msg("connected to redis")
	}

	e := api.NewRouter(cfg, pool, rdb, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("starting http server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func connectRedis(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	return redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}
