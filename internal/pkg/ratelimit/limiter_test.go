package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FloorsQPS(t *testing.T) {
	l := New(0.1)
	assert.Equal(t, MinQPS, l.QPS())
	assert.Equal(t, 2.0, New(2).QPS())
}

func TestLimiter_SharedAcrossGoroutines(t *testing.T) {
	l := New(50)
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				assert.NoError(t, l.Wait(ctx))
			}
		}()
	}
	wg.Wait()

	// 12 токенов при 50 rps и емкости 1: не меньше 11 интервалов по 20ms
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := New(MinQPS)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))
}
