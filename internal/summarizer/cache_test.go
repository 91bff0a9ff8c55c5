package summarizer

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/civicpulse/civicpulse/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl), mr
}

func TestCache_MissThenHit(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "HSR Layout"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	summary := models.AreaSummary{
		ID:          "summary_HSR Layout_1",
		Zone:        "HSR Layout",
		TimeRange:   "Last 24 hours",
		Summary:     "quiet",
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := cache.Put(ctx, summary); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok, err := cache.Get(ctx, "HSR Layout")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.ID != summary.ID || got.Zone != summary.Zone || got.Summary != summary.Summary {
		t.Errorf("cached summary differs: %+v", got)
	}
}

func TestCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Put(ctx, models.AreaSummary{Zone: "Bellandur", Summary: "stale soon"}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := cache.Get(ctx, "Bellandur"); err != nil || ok {
		t.Errorf("expected expired entry to miss, got ok=%v err=%v", ok, err)
	}
}

func TestCache_ZonesAreIsolated(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Put(ctx, models.AreaSummary{Zone: "Koramangala", Summary: "a"}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	if _, ok, _ := cache.Get(ctx, "Whitefield"); ok {
		t.Error("different zone unexpectedly hit the cache")
	}
}
