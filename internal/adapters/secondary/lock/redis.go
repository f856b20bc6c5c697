package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

const DefaultLockKey = "vehicle-insurance-mlops:training-lock"

// release only deletes the key while this holder still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLock serializes training runs across every replica sharing redisURL.
// The TTL bounds how long a crashed holder can block new runs.
func NewRedisLock(redisURL string, ttl time.Duration) (ports.TrainingLock, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, &domain.ConnectionError{Resource: "redis", Err: err}
	}
	return NewRedisLockWithClient(client, DefaultLockKey, ttl), nil
}

func NewRedisLockWithClient(client *redis.Client, key string, ttl time.Duration) ports.TrainingLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisLock{client: client, key: key, ttl: ttl}
}

func (l *redisLock) TryAcquire(ctx context.Context) (func(), error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, &domain.ConnectionError{Resource: "redis", Err: err}
	}
	if !ok {
		return nil, domain.ErrTrainingInProgress
	}

	return func() {
		if err := releaseScript.Run(context.Background(), l.client, []string{l.key}, token).Err(); err != nil {
			log.WithError(err).Warn("release training lock failed")
		}
	}, nil
}
