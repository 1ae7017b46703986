package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dharmasatrya/fleetdesk/internal/cache"
	"github.com/dharmasatrya/fleetdesk/internal/chat"
	"github.com/dharmasatrya/fleetdesk/internal/config"
	"github.com/dharmasatrya/fleetdesk/internal/events"
	"github.com/dharmasatrya/fleetdesk/internal/handler"
	"github.com/dharmasatrya/fleetdesk/internal/logger"
	"github.com/dharmasatrya/fleetdesk/internal/ratelimit"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
	"github.com/dharmasatrya/fleetdesk/internal/service"
	"github.com/dharmasatrya/fleetdesk/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("FLEETDESK_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	listCache := newCache(cfg, log)
	defer listCache.Close()

	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	planeStore, err := store.Open(cfg.StoreBackend, cfg.StorePath("planes"), schema.Planes)
	if err != nil {
		return fmt.Errorf("open plane store: %w", err)
	}
	defer planeStore.Close()

	legStore, err := store.Open(cfg.StoreBackend, cfg.StorePath("legs"), schema.Legs)
	if err != nil {
		return fmt.Errorf("open leg store: %w", err)
	}
	defer legStore.Close()

	opts := []service.Option{
		service.WithCache(listCache),
		service.WithPublisher(publisher),
		service.WithLogger(log),
	}
	planes := service.NewFleet(planeStore, opts...)
	legs := service.NewFleet(legStore, opts...)
	log.Info("Stores opened",
		zap.String("backend", cfg.StoreBackend),
		zap.String("planes", cfg.StorePath("planes")),
		zap.String("legs", cfg.StorePath("legs")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var answerer handler.Answerer
	if cfg.ChatEnabled() {
		pipeline, err := newChatPipeline(ctx, cfg, legs, log)
		if err != nil {
			return err
		}
		answerer = pipeline
		log.Info("Chat enabled", zap.String("model", cfg.ChatModel))
	} else {
		log.Info("Chat disabled: GOOGLE_API_KEY is not set")
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler.Register(e, handler.Handlers{
		Planes: handler.NewFleetHandler(planes),
		Legs:   handler.NewFleetHandler(legs),
		Chat:   handler.NewChatHandler(answerer),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting fleet server", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newCache(cfg *config.Config, log *zap.Logger) cache.Cache {
	if !cfg.CacheEnabled {
		log.Info("Cache disabled")
		return cache.NewNoOpCache()
	}

	addr := net.JoinHostPort(cfg.RedisHost, cfg.RedisPort)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     addr,
		Password: cfg.RedisPassword,
		TTL:      cfg.RedisTTL,
	})
	if err != nil {
		log.Warn("Failed to connect to Redis, serving lists uncached", zap.Error(err))
		return cache.NewNoOpCache()
	}
	log.Info("Redis cache enabled",
		zap.String("addr", addr),
		zap.Duration("ttl", cfg.RedisTTL),
	)
	return redisCache
}

func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if cfg.NATSURL == "" {
		return events.NewNoOpPublisher()
	}

	p, err := events.NewNATSPublisher(events.NATSConfig{
		URL:           cfg.NATSURL,
		SubjectPrefix: cfg.NATSSubject,
		Name:          "fleetdesk",
	})
	if err != nil {
		log.Warn("Failed to connect to NATS, change events disabled", zap.Error(err))
		return events.NewNoOpPublisher()
	}
	log.Info("Publishing change events", zap.String("url", cfg.NATSURL), zap.String("subject", cfg.NATSSubject))
	return p
}

func newChatPipeline(ctx context.Context, cfg *config.Config, legs *service.Fleet, log *zap.Logger) (*chat.Pipeline, error) {
	gemini, err := chat.NewGemini(ctx, chat.GeminiConfig{
		APIKey:         cfg.GoogleAPIKey,
		Model:          cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Temperature:    chat.DefaultGeminiConfig().Temperature,
	})
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewPool(
		ratelimit.Limit{PerSecond: cfg.ChatRPS, Burst: cfg.ChatBurst},
		map[string]ratelimit.Limit{
			chat.DownstreamEmbed: {PerSecond: cfg.ChatEmbedRPS, Burst: cfg.ChatEmbedBurst},
		},
	)

	retry := chat.RetryPolicy{
		Timeout:    cfg.ChatTimeout,
		MaxRetries: cfg.ChatMaxRetries,
		RetryDelays: []time.Duration{
			200 * time.Millisecond,
			500 * time.Millisecond,
			time.Second,
		},
		RateLimiter: limiter,
	}

	chatLog := log.Named("chat")
	index := chat.NewIndex(gemini, chat.IndexOptions{
		Splitter: chat.DefaultSplitter(),
		Workers:  4,
		Retry:    retry,
		Logger:   chatLog,
	})

	return chat.NewPipeline(legs, index, gemini, chat.PipelineConfig{
		TopK:       cfg.ChatTopK,
		ContextPDF: cfg.ChatContextPDF,
		Retry:      retry,
	}, chatLog), nil
}
