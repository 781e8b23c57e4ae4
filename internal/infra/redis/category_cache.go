package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
)

// CategoriesKey is the hash holding cached trivia categories:
// HSET trivia:categories {categoryID} {name}
const CategoriesKey = "trivia:categories"

// CategoryCache caches trivia categories in Redis and falls back to the source
// on a miss. Question fetches are passed through untouched.
type CategoryCache struct {
	client *redis.Client
	source app.TriviaSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCategoryCache(client *redis.Client, source app.TriviaSource, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CategoryCache) Categories(ctx context.Context) ([]domain.TriviaCategory, error) {
	cached, err := c.client.HGetAll(ctx, CategoriesKey).Result()
	if err == nil && len(cached) > 0 {
		return buildCategories(cached), nil
	}

	result, err, _ := c.sf.Do(CategoriesKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := c.client.HGetAll(ctx, CategoriesKey).Result()
		if err == nil && len(cached) > 0 {
			return buildCategories(cached), nil
		}

		categories, err := c.source.Categories(ctx)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			return categories, nil
		}

		fields := make(map[string]interface{}, len(categories))
		for _, cat := range categories {
			fields[cat.ID] = cat.Name
		}
		pipe := c.client.TxPipeline()
		pipe.Del(ctx, CategoriesKey)
		pipe.HSet(ctx, CategoriesKey, fields)
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, CategoriesKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

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

// buildCategories orders cached categories by numeric id, then lexically.
func buildCategories(cached map[string]string) []domain.TriviaCategory {
	categories := make([]domain.TriviaCategory, 0, len(cached))
	for id, name := range cached {
		categories = append(categories, domain.TriviaCategory{ID: id, Name: name})
	}
	sort.Slice(categories, func(i, j int) bool {
		a, errA := strconv.Atoi(categories[i].ID)
		b, errB := strconv.Atoi(categories[j].ID)
		if errA == nil && errB == nil {
			return a < b
		}
		return categories[i].ID < categories[j].ID
	})
	return categories
}

func (c *CategoryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
