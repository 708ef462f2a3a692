package db

import (
	"testing"
	"time"

	"github.com/medcare/medcare/internal/platform/interchange"
)

func TestPoolStats_Encoding(t *testing.T) {
	stats := PoolStats{
		TotalConns:      10,
		IdleConns:       5,
		AcquiredConns:   5,
		MaxConns:        20,
		AcquireCount:    100,
		AcquireDuration: 1500 * time.Millisecond,
		Healthy:         true,
	}

	want := `{"total_conns":10,"idle_conns":5,"acquired_conns":5,"max_conns":20,"acquire_count":100,"acquire_duration":"1.5s","healthy":true}`
	if got := interchange.Marshal(stats); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestHealthReport_Encoding(t *testing.T) {
	msg := "connection refused"
	healthy := healthReport{Status: "healthy", Pool: PoolStats{}}
	unhealthy := healthReport{Status: "unhealthy", Error: &msg, Pool: PoolStats{}}

	got := interchange.Decode(interchange.Marshal(healthy))
	if got["status"] != "healthy" {
		t.Errorf("unexpected status %q", got["status"])
	}
	if _, ok := got["error"]; ok {
		t.Error("healthy report must not carry an error member")
	}

	got = interchange.Decode(interchange.Marshal(unhealthy))
	if got["error"] != "connection refused" {
		t.Errorf("unexpected error %q", got["error"])
	}
}
