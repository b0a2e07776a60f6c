package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clientbook/clientbook/internal/api"
	"github.com/clientbook/clientbook/internal/auth"
	"github.com/clientbook/clientbook/internal/config"
	"github.com/clientbook/clientbook/internal/crm"
	"github.com/clientbook/clientbook/internal/meeting"
	"github.com/clientbook/clientbook/internal/metrics"
	"github.com/clientbook/clientbook/internal/ratelimit"
	"github.com/clientbook/clientbook/internal/stocks"
	"github.com/clientbook/clientbook/internal/summarize"
	"github.com/clientbook/clientbook/internal/user"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Clientbook API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	m := metrics.New()
	m.RegisterDBPoolCollector(func() metrics.PoolStats {
		st := pool.Stat()
		return metrics.PoolStats{
			TotalConns:        st.TotalConns(),
			IdleConns:         st.IdleConns(),
			AcquiredConns:     st.AcquiredConns(),
			MaxConns:          st.MaxConns(),
			EmptyAcquireCount: st.EmptyAcquireCount(),
			AcquireDuration:   st.AcquireDuration(),
		}
	})

	userStore := user.NewStore(pool)
	clientStore := crm.NewStore(pool)
	meetingStore := meeting.NewStore(pool)

	summarizer := summarize.NewClient(summarize.Config{
		BaseURL:   cfg.Summarize.BaseURL,
		APIKey:    cfg.Summarize.APIKey,
		Model:     cfg.Summarize.Model,
		MaxTokens: cfg.Summarize.MaxTokens,
		Timeout:   cfg.Summarize.Timeout,
	})
	summarizer.SetMetrics(m)

	meetingService := meeting.NewService(clientStore, meetingStore, summarizer)

	quotes := stocks.NewClient(cfg.Stocks.BaseURL, cfg.Stocks.APIKey, cfg.Stocks.RequestsPerSec)
	cache := stocks.NewCache(quotes, cfg.Stocks.Watchlist, cfg.Stocks.RefreshInterval)
	cache.SetMetrics(m)
	go cache.Start(ctx)

	limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := api.NewRouter(api.Deps{
		Users:    userStore,
		Auth:     authService,
		Clients:  clientStore,
		Meetings: meetingService,
		Quotes:   quotes,
		Cache:    cache,
		Metrics:  m,
		Limiter:  limiter,
		DB:       pool,
		CORS:     api.CORSConfig{AllowedOrigins: cfg.CORS.AllowedOrigins},
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cache.Stop()

	return srv.Shutdown(shutdownCtx)
}
