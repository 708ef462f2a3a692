package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/medcare/medcare/internal/platform/interchange"
)

// PoolStats is a snapshot of connection pool statistics.
type PoolStats struct {
	TotalConns      int32
	IdleConns       int32
	AcquiredConns   int32
	MaxConns        int32
	AcquireCount    int64
	AcquireDuration time.Duration
	Healthy         bool
}

func (s PoolStats) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "total_conns", Value: s.TotalConns},
		{Name: "idle_conns", Value: s.IdleConns},
		{Name: "acquired_conns", Value: s.AcquiredConns},
		{Name: "max_conns", Value: s.MaxConns},
		{Name: "acquire_count", Value: s.AcquireCount},
		{Name: "acquire_duration", Value: s.AcquireDuration.String()},
		{Name: "healthy", Value: s.Healthy},
	}
}

func GetPoolStats(pool *pgxpool.Pool) PoolStats {
	stat := pool.Stat()
	return PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration(),
		Healthy:         stat.TotalConns() > 0,
	}
}

// healthReport is the body of the database health endpoint.
type healthReport struct {
	Status string
	Error  *string
	Pool   PoolStats
}

func (h healthReport) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "status", Value: h.Status},
		{Name: "error", Value: h.Error},
		{Name: "pool", Value: h.Pool},
	}
}

// HealthHandler pings the database and reports pool statistics.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err := pool.Ping(ctx)
		report := healthReport{Status: "healthy", Pool: GetPoolStats(pool)}
		status := http.StatusOK
		if err != nil {
			msg := err.Error()
			report.Status = "unhealthy"
			report.Error = &msg
			report.Pool.Healthy = false
			status = http.StatusServiceUnavailable
		}
		return c.Blob(status, echo.MIMEApplicationJSON, []byte(interchange.Marshal(report)))
	}
}
