package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	time.Sleep(80 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(5, time.Hour)
	defer rl.Stop()

	rl.Allow("k")
	rl.mu.Lock()
	rl.requests["k"] = []time.Time{time.Now().Add(-2 * time.Hour)}
	rl.mu.Unlock()

	rl.evict()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.requests, "k")
}
