// cache.go - Response cache with tag-scoped invalidation
//
// Cached values are grouped under tags ("bookings:user:7",
// "availability:hotel:3"). A write invalidates only the tags it affects
// instead of clearing the whole cache.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const prefix = "cache:"

// Store is a key/value cache whose entries can be dropped by tag.
//
// Every Invalidate bumps a generation counter per tag. A reader takes
// Generation before computing a value and stores it with SetIfCurrent, which
// refuses when one of the tags was invalidated in between. That keeps a slow
// read from caching data older than a write that finished while it ran.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	Generation(ctx context.Context, tags ...string) (string, error)
	SetIfCurrent(ctx context.Context, key string, value []byte, ttl time.Duration, gen string, tags ...string) (bool, error)
	Invalidate(ctx context.Context, tags ...string) error
}

// UserBookingsTag groups the cached booking lists of one user.
func UserBookingsTag(userID uint) string {
	return fmt.Sprintf("bookings:user:%d", userID)
}

// HotelAvailabilityTag groups cached availability answers for one hotel.
func HotelAvailabilityTag(hotelID uint) string {
	return fmt.Sprintf("availability:hotel:%d", hotelID)
}

// Invalidate drops tags from store, logging instead of failing. A nil store is a no-op.
func Invalidate(ctx context.Context, store Store, tags ...string) {
	if store == nil || len(tags) == 0 {
		return
	}
	if err := store.Invalidate(ctx, tags...); err != nil {
		log.Printf("[CACHE] invalidate %v: %v", tags, err)
	}
}

// RedisStore keeps entries as plain keys and tag membership as Redis sets.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Connect dials Redis at addr and verifies the connection.
func Connect(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisStore(rdb), nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		setTagged(ctx, pipe, key, value, ttl, tags)
		return nil
	})
	return err
}

func setTagged(ctx context.Context, pipe redis.Pipeliner, key string, value []byte, ttl time.Duration, tags []string) {
	pipe.Set(ctx, prefix+key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), prefix+key)
		// The newest member expires last, so the set only has to live as long as it.
		pipe.Expire(ctx, tagKey(tag), ttl)
	}
}

// Generation returns the current generation counters of tags joined into one token.
func (s *RedisStore) Generation(ctx context.Context, tags ...string) (string, error) {
	return generation(ctx, s.rdb, tags)
}

// SetIfCurrent stores value like Set, unless the generation of tags moved away
// from gen. The counters are watched, so an Invalidate racing with the write
// aborts it. It reports whether the value was stored.
func (s *RedisStore) SetIfCurrent(ctx context.Context, key string, value []byte, ttl time.Duration, gen string, tags ...string) (bool, error) {
	if len(tags) == 0 {
		return true, s.Set(ctx, key, value, ttl)
	}
	genKeys := make([]string, len(tags))
	for i, tag := range tags {
		genKeys[i] = genKey(tag)
	}

	stored := false
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, tags)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			setTagged(ctx, pipe, key, value, ttl, tags)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKeys...)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		// Bump first: a reader that has not stored yet must see the change.
		if err := s.rdb.Incr(ctx, genKey(tag)).Err(); err != nil {
			return err
		}
		keys, err := s.rdb.SMembers(ctx, tagKey(tag)).Result()
		if err != nil {
			return err
		}
		keys = append(keys, tagKey(tag))
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// multiGetter is satisfied by both *redis.Client and *redis.Tx.
type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func generation(ctx context.Context, c multiGetter, tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = genKey(tag)
	}
	vals, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		if v == nil {
			parts[i] = "0"
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ","), nil
}

func tagKey(tag string) string {
	return prefix + "tag:" + tag
}

func genKey(tag string) string {
	return prefix + "gen:" + tag
}
