// Package health tracks component and service liveness for the health endpoint.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthPinger is implemented by stores that expose a cheap connectivity
// check. HealthPing returns nil while the backend is reachable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// HealthChecker is implemented by per-component monitors (store, mail relay).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker folds component checkers into one service-level flag.
// The service is healthy only while every component reports healthy.
type ServiceHealthChecker struct {
	healthy atomic.Bool
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log}
}

// IsHealthy reports the cached service health without blocking.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() }

// Start re-evaluates component health on every tick until ctx is done.
// It blocks, so callers run it in a goroutine.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.evaluate()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.evaluate()
		}
	}
}

// evaluate logs only transitions, not steady state.
func (h *ServiceHealthChecker) evaluate() {
	var down []string
	for _, c := range h.deps {
		if !c.IsHealthy() {
			down = append(down, c.Name())
		}
	}
	up := len(down) == 0
	if prev := h.healthy.Swap(up); prev == up {
		return
	}
	if up {
		h.log.Info().Msg("service healthy")
	} else {
		h.log.Error().Strs("components", down).Msg("service unhealthy")
	}
}
