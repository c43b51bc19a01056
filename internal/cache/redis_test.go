package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/domain"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "quotation:job:abc", jobKey("abc"))
	assert.Equal(t, "cache:quotations:recent", recentKey())
}

// Runs against a live server only when REDIS_ADDR is set.
func TestRedisCache_JobRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store := NewRedisCache(config.RedisConfig{Addr: addr}, time.Minute)
	defer store.Close()
	ctx := context.Background()

	job := &domain.GenerationJob{ID: uuid.NewString(), Status: domain.JobStatusPending, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveJob(ctx, job))

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, got.Status)

	_, err = store.GetJob(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestRedisCache_Recent(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store := NewRedisCache(config.RedisConfig{Addr: addr, RecentTTLSeconds: 60}, time.Minute)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.InvalidateRecent(ctx))
	miss, err := store.GetRecent(ctx)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, store.SetRecent(ctx, []domain.QuotationSummary{{ID: "q-1", TripTitle: "Rome"}}))
	hit, err := store.GetRecent(ctx)
	require.NoError(t, err)
	require.Len(t, hit, 1)
	assert.Equal(t, "Rome", hit[0].TripTitle)
}
