package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Duration(100*time.Millisecond, DefaultJitter)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}

	assert.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	assert.Equal(t, base, ExponentialBackoff(base, time.Second, 0, 0))
	assert.Equal(t, 400*time.Millisecond, ExponentialBackoff(base, time.Second, 2, 0))
	assert.Equal(t, time.Second, ExponentialBackoff(base, time.Second, 10, 0))
}
