package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
)

func limitedHandler(cfg RateLimitConfig) echo.HandlerFunc {
	return RateLimit(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}

func callFrom(e *echo.Echo, h echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRateLimit_RequestsWithinBurst(t *testing.T) {
	e := echo.New()
	h := limitedHandler(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	for i := 0; i < 5; i++ {
		rec := callFrom(e, h, "10.0.0.1:1000")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "10" {
			t.Errorf("request %d: expected X-RateLimit-Limit 10, got %q", i+1, got)
		}
	}
}

func TestRateLimit_ExceedsBurst(t *testing.T) {
	e := echo.New()
	h := limitedHandler(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	for i := 0; i < 2; i++ {
		if rec := callFrom(e, h, "10.0.0.1:1000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := callFrom(e, h, "10.0.0.1:1000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"rate limit exceeded"}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || retry < 1 {
		t.Errorf("expected Retry-After >= 1, got %q", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0")
	}
	assertErrorHeaders(t, rec.Header())
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	e := echo.New()
	h := limitedHandler(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	if rec := callFrom(e, h, "10.0.0.1:1000"); rec.Code != http.StatusOK {
		t.Fatalf("client a first request: got %d", rec.Code)
	}
	if rec := callFrom(e, h, "10.0.0.1:1000"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("client a second request: got %d", rec.Code)
	}
	if rec := callFrom(e, h, "10.0.0.2:1000"); rec.Code != http.StatusOK {
		t.Fatalf("client b first request: got %d", rec.Code)
	}
}

func TestRateLimit_DisabledWithZeroRate(t *testing.T) {
	e := echo.New()
	h := limitedHandler(RateLimitConfig{})
	for i := 0; i < 50; i++ {
		if rec := callFrom(e, h, "10.0.0.1:1000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimit_DefaultConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 100 {
		t.Errorf("expected RequestsPerSecond 100, got %f", cfg.RequestsPerSecond)
	}
	if cfg.BurstSize != 200 {
		t.Errorf("expected BurstSize 200, got %d", cfg.BurstSize)
	}
}

func TestLimiterStore_ReusesLimiter(t *testing.T) {
	store := newLimiterStore(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})
	a := store.get("key1")
	if a != store.get("key1") {
		t.Error("expected same limiter for same key")
	}
	if a == store.get("key2") {
		t.Error("expected different limiter for different key")
	}
}
