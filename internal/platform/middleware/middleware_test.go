package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var seen string
	err := RequestID()(func(c echo.Context) error {
		seen, _ = c.Get("request_id").(string)
		return ok(c)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == "" {
		t.Error("expected request_id to be generated")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header %q does not match %q", rec.Header().Get(RequestIDHeader), seen)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	RequestID()(ok)(c)

	if rec.Header().Get(RequestIDHeader) != "my-custom-id" {
		t.Errorf("expected my-custom-id, got %s", rec.Header().Get(RequestIDHeader))
	}
}

func TestLogger_LogsRenderedStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	e := echo.New()
	e.HTTPErrorHandler = envelope.ErrorHandler(zerolog.Nop(), false)
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/incidents/9", nil), rec)
	c.Set("request_id", "req-1")

	Logger(logger)(func(c echo.Context) error {
		return envelope.NotFound("Incident avec l'ID 9 introuvable")
	})(c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 response, got %d", rec.Code)
	}
	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["status"] != float64(404) {
		t.Errorf("logged status = %v, want 404", line["status"])
	}
	if line["level"] != "warn" {
		t.Errorf("level = %v, want warn", line["level"])
	}
	if line["request_id"] != "req-1" {
		t.Errorf("request_id = %v", line["request_id"])
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/panic", nil), httptest.NewRecorder())

	err := Recovery(zerolog.Nop())(func(c echo.Context) error { panic("test panic") })(c)

	var ee *envelope.Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *envelope.Error, got %T", err)
	}
	if ee.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", ee.Status)
	}
	if !strings.Contains(ee.Err.Error(), "test panic") {
		t.Errorf("panic value lost: %v", ee.Err)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/ok", nil), httptest.NewRecorder())
	if err := Recovery(zerolog.Nop())(ok)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	SecurityHeaders()(ok)(c)

	for h, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := rec.Header().Get(h); got != want {
			t.Errorf("%s = %q, want %q", h, got, want)
		}
	}
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/incidents", nil), httptest.NewRecorder())

	err := RequestTimeout(time.Second)(func(c echo.Context) error {
		if _, ok := c.Request().Context().Deadline(); !ok {
			t.Error("expected a deadline on the request context")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequestTimeout_Returns504(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/incidents", nil), httptest.NewRecorder())

	err := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return c.Request().Context().Err()
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %v", err)
	}
	if !errors.Is(he.Internal, context.DeadlineExceeded) {
		t.Errorf("internal error = %v", he.Internal)
	}
}

func TestRequestTimeout_Exempt(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/incidents/export", nil), httptest.NewRecorder())
	c.SetPath("/api/incidents/export")

	RequestTimeout(time.Second, "/api/incidents/export")(func(c echo.Context) error {
		if _, ok := c.Request().Context().Deadline(); ok {
			t.Error("export route should not get a deadline")
		}
		return nil
	})(c)
}

func TestAudit_LogsWrites(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/incidents/4/suivis/9", nil), httptest.NewRecorder())
	c.Set("request_id", "req-123")

	if err := Audit(zerolog.New(&buf))(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one audit line, got %q", buf.String())
	}
	want := map[string]interface{}{
		"type": "audit", "action": "delete", "resource": "incidents",
		"record_id": "9", "request_id": "req-123", "status": float64(200),
	}
	for k, v := range want {
		if line[k] != v {
			t.Errorf("%s = %v, want %v", k, line[k], v)
		}
	}
}

func TestAudit_UsesErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/incidents", nil), httptest.NewRecorder())

	Audit(zerolog.New(&buf))(func(c echo.Context) error {
		return envelope.NotFound("Patient avec l'ID 999 introuvable")
	})(c)

	var line map[string]interface{}
	json.Unmarshal(buf.Bytes(), &line)
	if line["status"] != float64(404) {
		t.Errorf("status = %v, want 404", line["status"])
	}
}

func TestAudit_SkipsReads(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/patients", nil), httptest.NewRecorder())
	Audit(zerolog.New(&buf))(ok)(c)
	if buf.Len() != 0 {
		t.Errorf("expected no audit line for GET, got %s", buf.String())
	}
}

func TestExtractResource(t *testing.T) {
	tests := []struct {
		path, resource, id string
	}{
		{"/api/incidents", "incidents", ""},
		{"/api/incidents/12", "incidents", "12"},
		{"/api/suivis/3/etapes/8", "suivis", "8"},
		{"/api/", "unknown", ""},
	}
	for _, tt := range tests {
		r, id := extractResource(tt.path)
		if r != tt.resource || id != tt.id {
			t.Errorf("extractResource(%q) = (%q, %q), want (%q, %q)", tt.path, r, id, tt.resource, tt.id)
		}
	}
}
