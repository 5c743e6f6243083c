package cache

import (
	"context"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

// RedisGeocodeCache keeps geocode results in Redis under "geocode:<address>"
// and lets Redis expire them after TTL.
type RedisGeocodeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisGeocodeCache(client redis.UniversalClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

// Connect to Redis and verify the server answers.
func OpenRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}

func (c *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string][]ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	trimmed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		trimmed = append(trimmed, strings.TrimSpace(a))
	}
	uniq := uniqueKeys(trimmed)
	if len(uniq) == 0 {
		return map[string][]ports.GeocodeResult{}, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = geocodeKeyPrefix + a
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string][]ports.GeocodeResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		results, err := decodeResults([]byte(s))
		if err != nil {
			// A corrupt entry is a miss; the next PutMany overwrites it.
			log.Printf("geocode cache: skip key=%q: %v", keys[i], err)
			continue
		}
		out[uniq[i]] = results
	}

	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string][]ports.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.redis.PutMany")(&err)

	if c.client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for addr, r := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		raw, err := encodeResults(r)
		if err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}
		pipe.Set(ctx, geocodeKeyPrefix+addr, raw, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: pipeline exec: %w", err)
	}

	return nil
}
