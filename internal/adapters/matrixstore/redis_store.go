package matrixstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "itinerary:"

// RedisStore keeps one hash per origin: field = destination name, value =
// itinerary JSON. A zero TTL keeps entries forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.MatrixStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Dial connects to Redis and verifies the connection.
func Dial(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func originKey(origin string) string {
	return keyPrefix + origin
}

func (s *RedisStore) Load(ctx context.Context, names []string) (_ domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.redis.Load")(&err)

	if s.client == nil {
		return nil, errors.New("matrix store: redis client is nil")
	}

	out := domain.CostMatrix{}
	if len(names) == 0 {
		return out, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(names))
	for i, origin := range names {
		cmds[i] = pipe.HMGet(ctx, originKey(origin), names...)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load matrix: redis pipeline: %w", err)
	}

	for i, origin := range names {
		vals, err := cmds[i].Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("load matrix: hmget %q: %w", origin, err)
		}
		for j, v := range vals {
			raw, ok := v.(string)
			if !ok || names[j] == origin {
				continue
			}
			var it domain.Itinerary
			if err := json.Unmarshal([]byte(raw), &it); err != nil {
				return nil, fmt.Errorf("load matrix: decode %q -> %q: %w", origin, names[j], err)
			}
			out.Set(origin, names[j], it)
		}
	}

	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, matrix domain.CostMatrix) (err error) {
	defer obs.Time(ctx, "matrix.redis.Save")(&err)

	if s.client == nil {
		return errors.New("matrix store: redis client is nil")
	}

	if len(matrix) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for origin, row := range matrix {
		if len(row) == 0 {
			continue
		}
		fields := make(map[string]any, len(row))
		for dest, it := range row {
			raw, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("save matrix: encode %q -> %q: %w", origin, dest, err)
			}
			fields[dest] = raw
		}
		pipe.HSet(ctx, originKey(origin), fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, originKey(origin), s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save matrix: redis pipeline: %w", err)
	}
	return nil
}
