package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDenylist_ExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewMemoryDenylist()
	d.now = func() time.Time { return now }

	require.NoError(t, d.Add(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, d.Add(ctx, "b", now.Add(time.Hour)))
	require.NoError(t, d.Add(ctx, "past", now.Add(-time.Second)))

	ok, _ := d.Contains(ctx, "a")
	assert.True(t, ok)
	ok, _ = d.Contains(ctx, "past")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = d.Contains(ctx, "a")
	assert.False(t, ok)

	assert.Equal(t, 1, d.Sweep())
	ok, _ = d.Contains(ctx, "b")
	assert.True(t, ok)
}

func TestMemoryDenylist_JanitorStopsOnCancel(t *testing.T) {
	d := NewMemoryDenylist()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

type fakeRedis struct {
	keys   map[string]time.Duration
	setErr error
	exErr  error
}

func (f *fakeRedis) Set(_ context.Context, key string, _ interface{}, exp time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.keys[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.exErr != nil {
		return redis.NewIntResult(0, f.exErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rdb := &fakeRedis{keys: map[string]time.Duration{}}
	d := NewRedisDenylist(rdb, "")
	d.now = func() time.Time { return now }

	require.NoError(t, d.Add(ctx, "jti-1", now.Add(90*time.Second)))
	assert.Equal(t, 90*time.Second, rdb.keys["revoked:jti-1"])

	require.NoError(t, d.Add(ctx, "old", now.Add(-time.Second)))
	_, stored := rdb.keys["revoked:old"]
	assert.False(t, stored)

	ok, err := d.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDenylist_Errors(t *testing.T) {
	ctx := context.Background()
	rdb := &fakeRedis{keys: map[string]time.Duration{}, setErr: errors.New("down"), exErr: errors.New("down")}
	d := NewRedisDenylist(rdb, "p:")

	assert.Error(t, d.Add(ctx, "x", time.Now().Add(time.Hour)))
	_, err := d.Contains(ctx, "x")
	assert.Error(t, err)
}
