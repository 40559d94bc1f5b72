package todo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redmonkez12/go-todo-api/internal/logging"
)

// Cache is a byte-oriented key/value cache where every key carries a version
// that Invalidate bumps. Fills are conditional on the version so a reader
// that raced a writer cannot put the old value back.
type Cache interface {
	// Get reports found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Version returns the current version of key, zero if it was never
	// invalidated.
	Version(ctx context.Context, key string) (int64, error)
	// SetIfVersion stores value only while key is still at version and
	// reports whether it did.
	SetIfVersion(ctx context.Context, key string, version int64, value []byte, ttl time.Duration) (bool, error)
	// Invalidate bumps the version of every key and drops its value.
	Invalidate(ctx context.Context, keys ...string) error
}

// CachedStore reads single todos through a cache in front of another Store.
// Writes evict, only reads fill. Cache failures are logged and otherwise
// ignored.
type CachedStore struct {
	Store
	cache  Cache
	ttl    time.Duration
	logger *logging.Logger
}

func NewCachedStore(store Store, cache Cache, ttl time.Duration, logger *logging.Logger) *CachedStore {
	return &CachedStore{Store: store, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(id int64) string {
	return "todo:" + strconv.FormatInt(id, 10)
}

func (s *CachedStore) Get(ctx context.Context, id int64) (*Todo, error) {
	key := cacheKey(id)

	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("todo cache read failed", "key", key, "error", err.Error())
	} else if found {
		var t Todo
		if err := json.Unmarshal(data, &t); err == nil {
			return &t, nil
		}
		s.logger.Warn("dropping undecodable todo cache entry", "key", key)
		s.invalidate(ctx, key)
	}

	// the version must be read before the store so a write landing in
	// between is detected by the fill
	version, verr := s.cache.Version(ctx, key)
	if verr != nil {
		s.logger.Warn("todo cache version read failed", "key", key, "error", verr.Error())
	}

	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		s.fill(ctx, key, version, t)
	}
	return t, nil
}

func (s *CachedStore) Update(ctx context.Context, id int64, patch Patch) (*Todo, error) {
	t, err := s.Store.Update(ctx, id, patch)
	s.invalidate(ctx, cacheKey(id))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *CachedStore) Delete(ctx context.Context, id int64) (*Todo, error) {
	t, err := s.Store.Delete(ctx, id)
	s.invalidate(ctx, cacheKey(id))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *CachedStore) DeleteAll(ctx context.Context) ([]Todo, error) {
	deleted, err := s.Store.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		keys := make([]string, 0, len(deleted))
		for _, t := range deleted {
			keys = append(keys, cacheKey(t.ID))
		}
		s.invalidate(ctx, keys...)
	}
	return deleted, nil
}

func (s *CachedStore) fill(ctx context.Context, key string, version int64, t *Todo) {
	data, err := json.Marshal(t)
	if err != nil {
		s.logger.Warn("todo cache encode failed", "key", key, "error", err.Error())
		return
	}
	stored, err := s.cache.SetIfVersion(ctx, key, version, data, s.ttl)
	if err != nil {
		s.logger.Warn("todo cache write failed", "key", key, "error", err.Error())
		return
	}
	if !stored {
		s.logger.Debug("todo changed while reading, not caching", "key", key)
	}
}

func (s *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("todo cache invalidate failed", "keys", keys, "error", err.Error())
	}
}
