package router // package router assembles the echo instance and its routes

import (
	"github.com/labstack/echo/v4"                    // Echo web framework for routing
	echomw "github.com/labstack/echo/v4/middleware" // stock middleware: recover, access log, body limit
	"github.com/redis/go-redis/v9"                  // shared client for cache and rate limiting

	"github.com/iliyamo/question-service/internal/config"     // per-concern settings
	"github.com/iliyamo/question-service/internal/handler"    // route handlers
	"github.com/iliyamo/question-service/internal/middleware" // cache, rate limit and event middleware
)

// Deps carries everything New needs.  A zero Deps yields a working server
// with caching, rate limiting and events switched off.
type Deps struct {
	Config    config.Config
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Events    config.EventsConfig
	Redis     *redis.Client             // nil disables cache and rate limiting
	Publisher middleware.EventPublisher // nil disables served-question events
}

// New creates the echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()     // fresh instance per call so tests stay isolated
	e.HideBanner = true // startup is logged by cmd/server
	e.HidePort = true

	e.Use(echomw.Recover()) // turn handler panics into 500s
	e.Use(echomw.Logger())  // one access log line per request
	if d.Config.BodyLimit != "" {
		e.Use(echomw.BodyLimit(d.Config.BodyLimit))
	}

	RegisterRoutes(e)
	// outermost first: cached answers still count against the limit and still emit events
	RegisterQuestion(e,
		middleware.QuestionEvents(d.Publisher, d.Events.PublishTimeout),
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis),
	)
	return e
}

// RegisterRoutes registers the operational routes.  The health probe is
// never cached or rate limited.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health) // load balancer probe
}

// RegisterQuestion maps GET /question/:question to the echo handler behind
// the given route middleware.  Other methods on the path get echo's 405.
func RegisterQuestion(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	// a trailing param captures the rest of the path; the handler rejects
	// anything that is not exactly one segment
	e.GET("/question/:question", handler.GetQuestion, mw...)
}
