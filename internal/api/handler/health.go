package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// DependencyChecker is one thing the service needs before it can take traffic.
type DependencyChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks []DependencyChecker
}

func NewHealthHandler(checks ...DependencyChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness handles GET /health. Returns 200 as long as the process serves.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready. Every dependency is checked in
// parallel; any failure makes the whole service report degraded (503).
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy = true
		deps    = make(map[string]dependencyStatus, len(h.checks))
	)
	for _, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := check.Check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				deps[check.Name()] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				healthy = false
				return
			}
			deps[check.Name()] = dependencyStatus{Status: "ok"}
		}()
	}
	wg.Wait()

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
