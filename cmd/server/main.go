package main // Entry point of the question HTTP service

import (
	"context"   // shutdown deadline
	"errors"    // ErrServerClosed check
	"net/http"  // ErrServerClosed
	"os/signal" // SIGINT/SIGTERM handling
	"strings"   // level parsing
	"syscall"   // signal numbers

	"github.com/joho/godotenv"       // optional .env loading
	"github.com/labstack/gommon/log" // echo's logger, used for startup lines

	"github.com/iliyamo/question-service/internal/config"     // environment config
	"github.com/iliyamo/question-service/internal/middleware" // EventPublisher interface
	"github.com/iliyamo/question-service/internal/router"     // echo assembly
	"github.com/iliyamo/question-service/internal/service"    // RabbitMQ publisher
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := config.Load()               // launch settings, all defaulted
	level := parseLevel(cfg.LogLevel) // shared by global and echo loggers
	log.SetLevel(level)

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil when redis is unreachable
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	events := config.LoadEventsConfig()
	var (
		pub       middleware.EventPublisher
		publisher *service.AMQPPublisher
	)
	if events.Enabled {
		publisher = service.NewAMQPPublisher(events.URL, events.Queue)
		pub = publisher
		log.Infof("publishing served-question events to queue %s", events.Queue)
	}

	e := router.New(router.Deps{
		Config:    cfg,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Events:    events,
		Redis:     rdb,
		Publisher: pub,
	})
	e.Logger.SetLevel(level) // c.Logger() in middleware follows LOG_LEVEL too

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("listening on %s (env=%s)", cfg.Addr(), cfg.Env)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done() // block until SIGINT/SIGTERM
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warnf("close publisher: %v", err)
		}
	}
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
