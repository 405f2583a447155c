package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	r := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, r.allow(1), "call %d", i)
	}
	assert.False(t, r.allow(1), "fourth call in window must be rejected")
}

func TestRateLimiter_IsPerUser(t *testing.T) {
	r := newRateLimiter(1, time.Minute)

	assert.True(t, r.allow(1))
	assert.False(t, r.allow(1))
	assert.True(t, r.allow(2), "another user has an independent window")
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	r := newRateLimiter(2, 50*time.Millisecond)

	assert.True(t, r.allow(1))
	assert.True(t, r.allow(1))
	assert.False(t, r.allow(1))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, r.allow(1), "expired calls fall out of the window")
}

func TestRateLimiter_Defaults(t *testing.T) {
	r := newRateLimiter(0, 0)
	for i := 0; i < 10; i++ {
		assert.True(t, r.allow(1))
	}
	assert.False(t, r.allow(1))
}
