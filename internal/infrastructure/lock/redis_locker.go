package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
)

var _ ledger.Locker = (*RedisLocker)(nil)

const (
	redisKeyPrefix     = "ledger:lock:"
	redisRetryInterval = 100 * time.Millisecond
	// espera máxima cuando el ctx del llamador no trae deadline
	redisDefaultWait = 10 * time.Second
)

// RedisLocker lock distribuido por clave sobre Redis (bsm/redislock). El TTL acota cuánto
// puede retener la clave una instancia que muere sin liberarla.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisLocker construye el locker sobre un cliente ya conectado.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, log: log}
}

// NewRedisClient abre y verifica la conexión a Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 50,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// Acquire reintenta con backoff lineal hasta obtener la clave o agotar el deadline.
// Si no se obtiene devuelve domain.ErrConflict: otra escritura sobre la misma referencia sigue en curso.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	waitCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, redisDefaultWait)
		defer cancel()
	}

	lock, err := l.client.Obtain(waitCtx, redisKeyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(redisRetryInterval),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		l.log.Warn().Str("lock_key", key).Msg("no se pudo obtener el lock de la referencia")
		return nil, fmt.Errorf("%w: la referencia %s está siendo modificada", domain.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain redis lock: %w", err)
	}

	return func() {
		// contexto propio: el del request puede estar cancelado al liberar
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Error().Err(err).Str("lock_key", key).Msg("error liberando lock")
		}
	}, nil
}
