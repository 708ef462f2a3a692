package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/medcare/medcare/internal/platform/router"
)

// WorkerPool caps the number of requests handled at once. Requests beyond
// the cap wait for a slot until their context is done, then fail with 503.
func WorkerPool(size int) echo.MiddlewareFunc {
	if size <= 0 {
		size = 1
	}
	sem := semaphore.NewWeighted(int64(size))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := sem.Acquire(c.Request().Context(), 1); err != nil {
				router.WriteError(c.Response(), http.StatusServiceUnavailable, "server busy")
				return nil
			}
			defer sem.Release(1)
			return next(c)
		}
	}
}
