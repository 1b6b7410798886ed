package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = 3 * time.Second

// UpstreamPinger reports transport-level reachability of the thesis API.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	// rdb is nil when the cookie session backend is active.
	rdb      *redis.Client
	upstream UpstreamPinger
}

// NewHealthHandler wires the probes. Either dependency may be nil and is
// then skipped.
func NewHealthHandler(rdb *redis.Client, upstream UpstreamPinger) *HealthHandler {
	return &HealthHandler{rdb: rdb, upstream: upstream}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the portal can serve traffic: Redis when it backs
// the session store, and the thesis API the portal fronts.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	deps := map[string]string{}
	healthy := true

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = "unreachable"
			healthy = false
		} else {
			deps["redis"] = "ok"
		}
	}
	if h.upstream != nil {
		if err := h.upstream.Ping(ctx); err != nil {
			deps["upstream"] = "unreachable"
			healthy = false
		} else {
			deps["upstream"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status":       state,
		"dependencies": deps,
	})
}
