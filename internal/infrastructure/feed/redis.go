package feed

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Claves por defecto en Redis.
const (
	DefaultQueue = "tesoreria:movimientos"
	cursorSuffix = ":cursor"
)

// NewRedis crea y valida la conexión con Redis.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// RedisQueue publica envelopes en una lista (LPUSH) y guarda el cursor en una clave
// vecina. Los consumidores leen con BRPOP en orden de seq.
type RedisQueue struct {
	rdb   redis.UniversalClient
	queue string
}

// NewRedisQueue construye la cola; queue vacío usa DefaultQueue.
func NewRedisQueue(rdb redis.UniversalClient, queue string) *RedisQueue {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RedisQueue{rdb: rdb, queue: queue}
}

// Publish empuja el lote en una sola llamada, preservando el orden.
func (q *RedisQueue) Publish(ctx context.Context, envelopes [][]byte) error {
	if len(envelopes) == 0 {
		return nil
	}
	values := make([]interface{}, len(envelopes))
	for i, e := range envelopes {
		values[i] = e
	}
	return q.rdb.LPush(ctx, q.queue, values...).Err()
}

// Load devuelve 0 si nunca se publicó nada.
func (q *RedisQueue) Load(ctx context.Context) (int64, error) {
	raw, err := q.rdb.Get(ctx, q.queue+cursorSuffix).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (q *RedisQueue) Save(ctx context.Context, seq int64) error {
	return q.rdb.Set(ctx, q.queue+cursorSuffix, seq, 0).Err()
}

// Len longitud de la cola, para health y monitoreo.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queue).Result()
}
