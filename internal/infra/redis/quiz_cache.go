package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"quiz-studio-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches a quiz aggregate from the backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error)
}

// QuizCache keeps assembled quizzes in Redis as JSON and falls back to a loader on cache miss.
// Entries are stored as: SET quiz:{quizID} {json} EX ttl
// Invalidate bumps quiz:{quizID}:gen; a load is written back only if the
// generation it started under is still current (WATCH + MULTI).
type QuizCache struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizCache(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error) {
	key := quizKey(quizID)
	if quiz, ok := c.read(ctx, key); ok {
		return ownedBy(quiz, ownerID)
	}

	flight := strconv.FormatInt(ownerID, 10) + ":" + strconv.FormatInt(quizID, 10)
	result, err, _ := c.sf.Do(flight, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.read(ctx, key); ok {
			return quiz, nil
		}

		gen, genErr := c.generation(ctx, quizID)
		quiz, err := c.loader.LoadQuiz(ctx, ownerID, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if ttl := c.ttlWithJitter(); ttl > 0 && genErr == nil {
			c.store(ctx, quizID, gen, quiz, ttl)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return ownedBy(result.(domain.Quiz), ownerID)
}

// Invalidate deletes the cached entries; failures only cost a stale read until TTL.
func (c *QuizCache) Invalidate(ctx context.Context, quizIDs ...int64) {
	if len(quizIDs) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range quizIDs {
			pipe.Del(ctx, quizKey(id))
			pipe.Incr(ctx, generationKey(id))
			pipe.Expire(ctx, generationKey(id), c.generationTTL())
		}
		return nil
	})
	if err != nil {
		log.Printf("quiz cache invalidate: %v", err)
	}
}

var errGenerationMoved = errors.New("quiz invalidated during load")

func (c *QuizCache) generation(ctx context.Context, quizID int64) (string, error) {
	gen, err := c.client.Get(ctx, generationKey(quizID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		log.Printf("quiz cache generation %d: %v", quizID, err)
	}
	return gen, err
}

// store writes the quiz unless the generation moved since the load started.
func (c *QuizCache) store(ctx context.Context, quizID int64, gen string, quiz domain.Quiz, ttl time.Duration) {
	payload, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	genKey := generationKey(quizID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, quizKey(quizID), payload, ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, errGenerationMoved) && !errors.Is(err, redis.TxFailedErr) {
		log.Printf("quiz cache write %d: %v", quizID, err)
	}
}

// generationTTL outlives any cached entry so a bump is never forgotten while a
// load that predates it can still write.
func (c *QuizCache) generationTTL() time.Duration {
	if c.ttl <= 0 {
		return time.Hour
	}
	return 2*c.ttl + time.Hour
}

func (c *QuizCache) read(ctx context.Context, key string) (domain.Quiz, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("quiz cache read %s: %v", key, err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(payload, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func quizKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10)
}

func generationKey(quizID int64) string {
	return quizKey(quizID) + ":gen"
}

func ownedBy(quiz domain.Quiz, ownerID int64) (domain.Quiz, error) {
	if quiz.UserID != ownerID {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}
