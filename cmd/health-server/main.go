package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/config"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/notify"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/platform/blobstore"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/platform/db"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/platform/messaging"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/platform/middleware"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/platform/websocket"
	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/store"
)

// logSounder satisfies notify.Sounder. There is no audio device on the
// server; the sound channel is surfaced to clients through the event
// stream, so here it only leaves a log trace.
type logSounder struct {
	logger zerolog.Logger
}

func (l *logSounder) Play(_ context.Context, n notify.Notification) error {
	l.logger.Info().Str("id", n.ID).Str("category", n.Category).Msg("sound alert")
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "health-server",
		Short: "Patient health data API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the health data API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// newBlobStore selects the session persistence backend from config.
func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, func(), error) {
	switch cfg.PersistBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		bs, err := blobstore.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return bs, pool.Close, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		bs, err := blobstore.NewRedis(ctx, client)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return bs, func() { client.Close() }, nil
	default:
		return blobstore.NewMemory(), func() {}, nil
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Session persistence
	ctx := context.Background()
	blobs, closeBlobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.PersistBackend).Msg("failed to open blob store")
	}
	defer closeBlobs()
	logger.Info().Str("backend", cfg.PersistBackend).Msg("session persistence ready")

	// Medical data store
	dataStore := store.New()

	// Desktop alerts over WebSocket
	hub := websocket.NewHub(logger)

	// Email/SMS delivery. Log-backed senders stand in for real SMTP and
	// SMS gateways.
	outbox := messaging.NewOutbox(
		&messaging.LogEmailSender{Logger: logger},
		&messaging.LogSMSSender{Logger: logger},
		messaging.NewTemplateEngine(),
	)
	emailChannel := messaging.NewEmailChannel(outbox, func() string {
		if p := dataStore.Patient(); p != nil {
			return p.Email
		}
		return ""
	})
	smsChannel := messaging.NewSMSChannel(outbox, func() string {
		if p := dataStore.Patient(); p != nil {
			return p.Phone
		}
		return ""
	})

	// Notification scheduler
	scheduler := notify.NewScheduler(logger,
		notify.WithMax(cfg.NotifyMax),
		notify.WithSounder(&logSounder{logger: logger}),
		notify.WithDesktopNotifier(hub),
		notify.WithEmailNotifier(emailChannel),
		notify.WithSMSNotifier(smsChannel),
	)
	if err := scheduler.Restore(ctx, blobs); err != nil {
		logger.Warn().Err(err).Msg("failed to restore notification state")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	storeHandler := store.NewHandler(dataStore)
	storeHandler.RegisterRoutes(apiV1)

	notifyHandler := notify.NewHandler(scheduler)
	notifyHandler.RegisterRoutes(apiV1)

	wsHandler := websocket.NewHandler(hub)
	wsHandler.RegisterRoutes(apiV1)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	// Flush notification state before exit.
	if err := scheduler.Persist(context.Background(), blobs); err != nil {
		logger.Error().Err(err).Msg("failed to persist notification state")
	}

	logger.Info().Msg("server stopped")
	return nil
}
