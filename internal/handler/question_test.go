package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newQuestionContext(t *testing.T, target, rawPath, param string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.URL.RawPath = rawPath
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/question/:question")
	c.SetParamNames("question")
	c.SetParamValues(param)
	return c, rec
}

func TestGetQuestion(t *testing.T) {
	tests := []struct {
		name    string
		rawPath string
		param   string
		want    string
	}{
		{name: "plain", param: "hello", want: "hello"},
		{name: "numeric stays string", param: "42", want: "42"},
		{name: "space", param: " ", want: " "},
		{name: "unicode", param: "héllo 世界", want: "héllo 世界"},
		{name: "json escapes", param: "say \"hi\" \\ \t\x01", want: "say \"hi\" \\ \t\x01"},
		{name: "html chars", param: "<a&b>", want: "<a&b>"},
		{name: "escaped slash from raw path", rawPath: "/question/a%2Fb", param: "a%2Fb", want: "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newQuestionContext(t, "/question/x", tt.rawPath, tt.param)
			if err := GetQuestion(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
				t.Errorf("content type = %q", ct)
			}

			var raw map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
				t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
			}
			if len(raw) != 1 {
				t.Errorf("expected exactly one key, got %v", raw)
			}
			got, ok := raw["question"].(string)
			if !ok {
				t.Fatalf("question is %T, want string", raw["question"])
			}
			if got != tt.want {
				t.Errorf("question = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetQuestionRejectsNonSegments(t *testing.T) {
	// a trailing echo param swallows the rest of the path, slashes included
	tests := []struct {
		name    string
		target  string
		rawPath string
		param   string
	}{
		{name: "empty", target: "/question/", param: ""},
		{name: "extra segment", target: "/question/a/b", param: "a/b"},
		{name: "trailing slash", target: "/question/hello/", param: "hello/"},
		{name: "many segments", target: "/question/a/b/c", param: "a/b/c"},
		{name: "escaped then raw slash", target: "/question/a/b/c", rawPath: "/question/a%2Fb/c", param: "a%2Fb/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newQuestionContext(t, tt.target, tt.rawPath, tt.param)
			if err := GetQuestion(c); err != echo.ErrNotFound {
				t.Fatalf("err = %v, want echo.ErrNotFound", err)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("handler wrote a body: %q", rec.Body.String())
			}
		})
	}
}

func TestSegment(t *testing.T) {
	c, _ := newQuestionContext(t, "/question/a/b", "/question/a%2Fb", "a%2Fb")
	if got, ok := Segment(c, "question"); !ok || got != "a/b" {
		t.Errorf("Segment = %q, %v; want a/b, true", got, ok)
	}
	c, _ = newQuestionContext(t, "/question/%25", "", "%")
	if got, ok := Segment(c, "question"); !ok || got != "%" {
		t.Errorf("decoded path value must not be unescaped twice, got %q, %v", got, ok)
	}
}

func TestGetQuestionIdempotent(t *testing.T) {
	var first string
	for i := 0; i < 5; i++ {
		c, rec := newQuestionContext(t, "/question/again", "", "again")
		if err := GetQuestion(c); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = rec.Body.String()
			continue
		}
		if rec.Body.String() != first {
			t.Fatalf("response %d differs: %q vs %q", i, rec.Body.String(), first)
		}
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)
	if err := Health(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
