package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
)

const categoriesKey = "categories"

// CategoryCache caches trivia categories with TTL to avoid repeated upstream hits.
// Question fetches are passed through untouched.
type CategoryCache struct {
	source app.TriviaSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu         sync.RWMutex
	categories []domain.TriviaCategory
	expiresAt  time.Time
}

func NewCategoryCache(source app.TriviaSource, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CategoryCache) Categories(ctx context.Context) ([]domain.TriviaCategory, error) {
	if categories, ok := c.cached(c.clock()); ok {
		return categories, nil
	}

	result, err, _ := c.sf.Do(categoriesKey, func() (interface{}, error) {
		now := c.clock()
		if categories, ok := c.cached(now); ok {
			return categories, nil
		}

		categories, err := c.source.Categories(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.categories = categories
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.TriviaCategory), nil
}

func (c *CategoryCache) Questions(ctx context.Context, query domain.TriviaQuery) ([]domain.QuestionDraft, error) {
	return c.source.Questions(ctx, query)
}

func (c *CategoryCache) cached(now time.Time) ([]domain.TriviaCategory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.categories != nil && c.expiresAt.After(now) {
		return c.categories, true
	}
	return nil, false
}

func (c *CategoryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticTriviaSource serves fixed trivia content (useful for tests/demos).
type StaticTriviaSource struct {
	categories []domain.TriviaCategory
	questions  []domain.QuestionDraft
}

func NewStaticTriviaSource(categories []domain.TriviaCategory, questions []domain.QuestionDraft) *StaticTriviaSource {
	return &StaticTriviaSource{categories: categories, questions: questions}
}

func (s *StaticTriviaSource) Categories(context.Context) ([]domain.TriviaCategory, error) {
	return s.categories, nil
}

func (s *StaticTriviaSource) Questions(_ context.Context, query domain.TriviaQuery) ([]domain.QuestionDraft, error) {
	if query.Amount < len(s.questions) {
		return s.questions[:query.Amount], nil
	}
	return s.questions, nil
}
