package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// newRedis starts an in-process Redis for the duration of the test.
func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// questionEcho registers a counting question handler behind mw.
func questionEcho(calls *int, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/question/:question", func(c echo.Context) error {
		*calls++
		q := c.Param("question")
		if q == "missing" {
			return echo.ErrNotFound
		}
		return c.JSON(http.StatusOK, map[string]string{"question": q})
	}, mw...)
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}
