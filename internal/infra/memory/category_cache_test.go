package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"inno-quiz-service/internal/domain"
)

func TestCategoryCacheCaches(t *testing.T) {
	source := &countingSource{StaticTriviaSource: stubSource()}
	cache := NewCategoryCache(source, time.Minute)

	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected source once, got %d", got)
	}

	categories, err := cache.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories 2: %v", err)
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected cache hit, source calls %d", got)
	}
	if len(categories) != 2 || categories[0].ID != "9" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestCategoryCacheExpires(t *testing.T) {
	source := &countingSource{StaticTriviaSource: stubSource()}
	cache := NewCategoryCache(source, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories after ttl: %v", err)
	}
	if got := source.calls.Load(); got != 2 {
		t.Fatalf("expected reload after ttl, source calls %d", got)
	}
}

func TestCategoryCacheCollapsesConcurrentMisses(t *testing.T) {
	release := make(chan struct{})
	source := &countingSource{StaticTriviaSource: stubSource(), gate: release}
	cache := NewCategoryCache(source, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Categories(context.Background()); err != nil {
				t.Errorf("categories: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}

func TestCategoryCachePassesQuestionsThrough(t *testing.T) {
	source := &countingSource{StaticTriviaSource: stubSource()}
	cache := NewCategoryCache(source, time.Minute)

	drafts, err := cache.Questions(context.Background(), domain.TriviaQuery{Amount: 1})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(drafts) != 1 || drafts[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected drafts %+v", drafts)
	}
}

type countingSource struct {
	*StaticTriviaSource
	gate  chan struct{}
	calls atomic.Int32
}

func (s *countingSource) Categories(ctx context.Context) ([]domain.TriviaCategory, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.StaticTriviaSource.Categories(ctx)
}

func stubSource() *StaticTriviaSource {
	return NewStaticTriviaSource(
		[]domain.TriviaCategory{{ID: "9", Name: "General Knowledge"}, {ID: "10", Name: "Books"}},
		[]domain.QuestionDraft{
			{Text: "2 + 2?", Options: []string{"3", "5", "4"}, CorrectAnswer: "4", Points: 1},
			{Text: "Capital of France?", Options: []string{"Rome", "Paris"}, CorrectAnswer: "Paris", Points: 1},
		},
	)
}
