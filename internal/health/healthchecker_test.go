package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name    string
	healthy atomic.Bool
}

func (s *stubChecker) Name() string                               { return s.name }
func (s *stubChecker) IsHealthy() bool                            { return s.healthy.Load() }
func (s *stubChecker) Start(ctx context.Context, _ time.Duration) { <-ctx.Done() }

func TestServiceHealthAggregation(t *testing.T) {
	up := &stubChecker{name: "store"}
	up.healthy.Store(true)
	down := &stubChecker{name: "relay"}

	h := NewServiceHealthChecker(zerolog.Nop(), up, down)
	assert.False(t, h.IsHealthy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Start(ctx, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, h.IsHealthy(), "one unhealthy dependency keeps the service down")

	down.healthy.Store(true)
	assert.Eventually(t, h.IsHealthy, time.Second, 10*time.Millisecond)
}
