package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"inno-quiz-service/internal/domain"
	"inno-quiz-service/internal/infra/memory"
)

func TestCategoryCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{StaticTriviaSource: sampleSource()}
	cache := NewCategoryCache(newClient(mr), source, time.Minute)

	categories, err := cache.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected source called once, got %d", source.calls)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	if got := mr.HGet(CategoriesKey, "10"); got != "Books" {
		t.Fatalf("expected cached hash field, got %q", got)
	}
	if mr.TTL(CategoriesKey) <= 0 {
		t.Fatalf("expected ttl on cached categories")
	}

	// Second call should hit cache, source not incremented.
	cached, err := cache.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls=%d", source.calls)
	}
	if cached[0].ID != "9" || cached[1].ID != "10" || cached[2].ID != "11" {
		t.Fatalf("expected numeric id order, got %+v", cached)
	}
}

func TestCategoryCacheReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{StaticTriviaSource: sampleSource()}
	cache := NewCategoryCache(newClient(mr), source, time.Minute)

	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories after expiry: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected reload after expiry, source calls=%d", source.calls)
	}
}

type countingSource struct {
	*memory.StaticTriviaSource
	calls int
}

func (s *countingSource) Categories(ctx context.Context) ([]domain.TriviaCategory, error) {
	s.calls++
	return s.StaticTriviaSource.Categories(ctx)
}

func sampleSource() *memory.StaticTriviaSource {
	return memory.NewStaticTriviaSource(
		[]domain.TriviaCategory{
			{ID: "10", Name: "Books"},
			{ID: "9", Name: "General Knowledge"},
			{ID: "11", Name: "Film"},
		},
		nil,
	)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
