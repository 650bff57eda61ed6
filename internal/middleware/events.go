package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"

	"github.com/iliyamo/question-service/internal/handler"
	"github.com/iliyamo/question-service/internal/queue"
)

// EventPublisher delivers served-question events to the broker.
type EventPublisher interface {
	PublishQuestionServed(ctx context.Context, ev queue.QuestionServedEvent) error
}

// QuestionEvents publishes a QuestionServedEvent after every 200 response on
// the wrapped route.  Publishing runs in the background with its own
// timeout; a failure is logged and never reaches the client.  A nil
// publisher disables the middleware.
func QuestionEvents(pub EventPublisher, timeout time.Duration) echo.MiddlewareFunc {
	if pub == nil {
		return passThrough
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status != http.StatusOK {
				return nil
			}

			question, ok := handler.Segment(c, "question")
			if !ok {
				return nil
			}
			r := c.Request()
			ev := queue.QuestionServedEvent{
				ID:       ksuid.New().String(),
				Question: question,
				Path:     r.URL.Path,
				RemoteIP: c.RealIP(),
				Cache:    c.Response().Header().Get("X-Cache"),
				ServedAt: time.Now().UTC().Format(time.RFC3339),
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				if err := pub.PublishQuestionServed(ctx, ev); err != nil {
					log.Warn("question event not published", "id", ev.ID, "error", err)
				}
			}()
			return nil
		}
	}
}
