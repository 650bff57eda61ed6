package handler // HTTP handlers for the question service

import (
	"net/http" // status codes
	"net/url"  // PathUnescape for values captured from the raw path
	"strings"  // slash detection in the captured segment

	"github.com/labstack/echo/v4" // echo context and sentinel errors
)

// QuestionResponse is the document returned by GetQuestion.  It carries the
// captured path segment verbatim; numeric-looking values stay strings.
type QuestionResponse struct {
	Question string `json:"question"`
}

// GetQuestion handles GET /question/:question and echoes the segment back as
// {"question": "<segment>"}.  It has no side effects, so identical requests
// always produce identical bodies.
func GetQuestion(c echo.Context) error {
	q, ok := Segment(c, "question")
	if !ok {
		// empty or multi-segment paths do not match the route
		return echo.ErrNotFound
	}
	return c.JSON(http.StatusOK, QuestionResponse{Question: q}) // 200 with the segment unchanged
}

// Segment returns the decoded value of a single-segment path parameter.
// ok is false when the value is empty or spans more than one segment.
//
// A trailing param in echo captures the rest of the path, slashes included,
// so a raw "/" means the request had extra segments.  An escaped %2F is
// still escaped at this point (echo matched against URL.RawPath) and only
// becomes "/" after decoding.
func Segment(c echo.Context, name string) (string, bool) {
	v := c.Param(name)
	if v == "" || strings.Contains(v, "/") {
		return "", false
	}
	if c.Request().URL.RawPath == "" {
		return v, true // matched on URL.Path, already decoded
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u, true
	}
	return v, true
}
