package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"company_research/internal/app/config"
	"company_research/internal/app/di"
	"company_research/internal/app/router"
	researchhandler "company_research/internal/feature/research/transport/handler"
	"company_research/internal/platform/http/handler"
	"company_research/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

var serveArgs struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the operator API (POST /v1/summaries) over HTTP",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVar(&serveArgs.addr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveArgs.addr != "" {
		cfg.HTTPAddr = serveArgs.addr
	}
	// JWT_SECRETチェック（未設定だと認証付きのAPIはすべて500になる）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret before exposing the API.")
	}

	rdb := di.NewRedis(ctx, cfg.Redis)
	checks := map[string]handler.CheckFunc{}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
		checks["redis"] = redis.PingCheck(rdb)
	}

	generator, err := di.NewGenerateUsecase(ctx, cfg, di.NewRateLimiter(rdb, cfg.RateLimitCallsPerMinute, nil))
	if err != nil {
		return err
	}

	r := router.NewRouter(researchhandler.NewSummaryHandler(generator), router.Options{
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		HealthChecks: checks,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("operator API listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down operator API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
