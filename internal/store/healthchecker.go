package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/health"
	"github.com/ai-mall/backend/internal/model"
)

// StoreHealthChecker probes the backing database on an interval and caches
// the result for non-blocking health reads.
type StoreHealthChecker struct {
	store        Store
	healthy      atomic.Bool
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewStoreHealthChecker builds a checker that starts unhealthy until the
// first probe succeeds.
func NewStoreHealthChecker(store Store, log zerolog.Logger, probeTimeout time.Duration) *StoreHealthChecker {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &StoreHealthChecker{store: store, log: log, probeTimeout: probeTimeout}
}

func (hc *StoreHealthChecker) Name() string { return "store" }

// IsHealthy reports the cached result of the last probe.
func (hc *StoreHealthChecker) IsHealthy() bool { return hc.healthy.Load() }

// Start probes immediately and then on every tick until ctx is done.
// It blocks, so callers run it in a goroutine.
func (hc *StoreHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hc.runProbe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hc.runProbe(ctx)
		}
	}
}

func (hc *StoreHealthChecker) runProbe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, hc.probeTimeout)
	defer cancel()

	err := hc.probe(probeCtx)
	hc.healthy.Store(err == nil)
	if err != nil {
		hc.log.Error().Err(err).Msg("store probe failed")
	}
}

// probe uses the driver's HealthPing when available and otherwise falls back
// to a point read, where ErrNotFound still proves the store is answering.
func (hc *StoreHealthChecker) probe(ctx context.Context) error {
	if p, ok := hc.store.(health.HealthPinger); ok {
		return p.HealthPing(ctx)
	}
	_, err := hc.store.Users().Get(ctx, "health-probe")
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}
