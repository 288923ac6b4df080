package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"quiz-studio-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches a quiz aggregate from the backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error)
}

// QuizCache caches quizzes with TTL to avoid rebuilding the aggregate on every read.
type QuizCache struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[int64]cachedQuiz
	// gen counts invalidations per quiz; a load only fills the cache if no
	// invalidation happened while it ran.
	gen map[int64]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(loader QuizLoader, ttl time.Duration) *QuizCache {
	return &QuizCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuiz),
		gen:    make(map[int64]uint64),
	}
}

// GetQuiz returns the quiz if ownerID owns it. A cached quiz of another owner
// is reported as not found without touching the store.
func (c *QuizCache) GetQuiz(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error) {
	if quiz, ok := c.lookup(quizID); ok {
		return ownedBy(quiz, ownerID)
	}

	key := strconv.FormatInt(ownerID, 10) + ":" + strconv.FormatInt(quizID, 10)
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if quiz, ok := c.lookup(quizID); ok {
			return quiz, nil
		}

		c.mu.RLock()
		gen := c.gen[quizID]
		c.mu.RUnlock()

		quiz, err := c.loader.LoadQuiz(ctx, ownerID, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if c.ttl <= 0 {
			return quiz, nil
		}

		c.mu.Lock()
		if c.gen[quizID] == gen {
			c.cache[quizID] = cachedQuiz{
				quiz:      quiz,
				expiresAt: c.clock().Add(c.ttlWithJitterLocked()),
			}
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return ownedBy(result.(domain.Quiz), ownerID)
}

// Invalidate drops cached entries so the next read goes to the store. Loads
// already in flight for these quizzes are not cached.
func (c *QuizCache) Invalidate(_ context.Context, quizIDs ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range quizIDs {
		delete(c.cache, id)
		c.gen[id]++
	}
}

func (c *QuizCache) lookup(quizID int64) (domain.Quiz, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[quizID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Quiz{}, false
	}
	return entry.quiz, true
}

// ttlWithJitterLocked adds up to 10% jitter to spread expirations. Callers hold mu.
func (c *QuizCache) ttlWithJitterLocked() time.Duration {
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func ownedBy(quiz domain.Quiz, ownerID int64) (domain.Quiz, error) {
	if quiz.UserID != ownerID {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}
