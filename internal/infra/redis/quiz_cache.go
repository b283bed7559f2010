package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

// QuizCache caches whole quiz documents in Redis and falls back to the backing
// store on a miss. Documents are stored as JSON under quiz:{quizID}.
// Writes go to the store first, then bump quiz:{quizID}:version and drop the
// cached copy. A fill only lands if the version it read before loading is
// still current, checked with WATCH so it holds across instances.
type QuizCache struct {
	client *redis.Client
	store  app.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizCache(client *redis.Client, store app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		version, versionErr := r.version(ctx, r.client, quizID)
		if versionErr != nil {
			log.Printf("read quiz %s cache version: %v", quizID, versionErr)
		}

		quiz, err := r.store.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if versionErr != nil {
			return quiz, nil
		}
		if err := r.fill(ctx, quizID, quiz, version); err != nil {
			log.Printf("cache quiz %s: %v", quizID, err)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizCache) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	return r.store.CreateQuiz(ctx, quiz)
}

func (r *QuizCache) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := r.store.UpdateQuiz(ctx, quiz); err != nil {
		return err
	}
	return r.invalidate(ctx, quiz.ID)
}

func (r *QuizCache) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := r.store.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	return r.invalidate(ctx, quizID)
}

func (r *QuizCache) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return r.store.ListQuizzes(ctx, filter)
}

func (r *QuizCache) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := r.client.Get(ctx, r.key(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached quiz %s: %v", quizID, err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

// fill stores quiz unless its version moved past version since the load began.
func (r *QuizCache) fill(ctx context.Context, quizID string, quiz domain.Quiz, version int64) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.version(ctx, tx, quizID)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(quizID), data, r.ttlWithJitter())
			return nil
		})
		return err
	}, r.versionKey(quizID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *QuizCache) version(ctx context.Context, c stringGetter, quizID string) (int64, error) {
	v, err := c.Get(ctx, r.versionKey(quizID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (r *QuizCache) invalidate(ctx context.Context, quizID string) error {
	r.sf.Forget(quizID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.versionKey(quizID))
		pipe.Del(ctx, r.key(quizID))
		return nil
	})
	return err
}

func (r *QuizCache) key(quizID string) string {
	return "quiz:" + quizID
}

func (r *QuizCache) versionKey(quizID string) string {
	return "quiz:" + quizID + ":version"
}

func (r *QuizCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
