package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

// QuizCache caches quizzes read through GetQuiz with a TTL to avoid repeated DB
// hits. Writes go to the backing repository and drop the cached copy. Each
// invalidation bumps the quiz's generation; a fill that started under an older
// generation is not stored.
type QuizCache struct {
	store app.QuizRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu          sync.RWMutex
	cache       map[string]cachedQuiz
	generations map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(store app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:       make(map[string]cachedQuiz),
		generations: make(map[string]uint64),
	}
}

func (r *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		generation := r.generations[quizID]
		r.mu.RUnlock()

		quiz, err := r.store.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		if r.generations[quizID] == generation {
			r.cache[quizID] = cachedQuiz{
				quiz:      quiz,
				expiresAt: now.Add(r.ttlWithJitter()),
			}
		}
		r.mu.Unlock()
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
	defer r.invalidate(quiz.ID)
	return r.store.UpdateQuiz(ctx, quiz)
}

func (r *QuizCache) DeleteQuiz(ctx context.Context, quizID string) error {
	defer r.invalidate(quizID)
	return r.store.DeleteQuiz(ctx, quizID)
}

func (r *QuizCache) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return r.store.ListQuizzes(ctx, filter)
}

func (r *QuizCache) invalidate(quizID string) {
	r.mu.Lock()
	delete(r.cache, quizID)
	r.generations[quizID]++
	r.mu.Unlock()
	r.sf.Forget(quizID)
}

func (r *QuizCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
