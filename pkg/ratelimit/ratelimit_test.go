package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerSecond(t *testing.T) {
	assert.Equal(t, Limit{Rate: 5, Period: time.Second, Burst: 10}, PerSecond(5, 10))
	assert.Equal(t, 5, PerSecond(5, 0).Burst)
	assert.NoError(t, PerSecond(5, 0).Validate())
	assert.ErrorIs(t, PerSecond(0, 10).Validate(), ErrInvalidLimit)
	assert.ErrorIs(t, Limit{Rate: 1, Burst: 1}.Validate(), ErrInvalidLimit)
}

func TestResultSeconds(t *testing.T) {
	tests := []struct {
		name      string
		res       Result
		retry     int64
		resetSecs int64
	}{
		{"allowed", Result{Allowed: true, ResetAfter: 200 * time.Millisecond}, 0, 1},
		{"rejected rounds up", Result{RetryAfter: 1500 * time.Millisecond, ResetAfter: 2 * time.Second}, 2, 2},
		{"rejected without hint", Result{}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retry, tt.res.RetryAfterSeconds())
			assert.Equal(t, tt.resetSecs, tt.res.ResetSeconds())
		})
	}
}

func TestRedisRateLimiter_InvalidLimitSkipsRedis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRedisRateLimiter(db, "rentvsbuy:ratelimit:")

	res, err := limiter.Allow(context.Background(), "127.0.0.1", PerSecond(0, 0))
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrInvalidLimit)
	assert.NoError(t, mock.ExpectationsWereMet())
}
