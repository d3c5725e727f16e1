package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibhealth/diabetes-risk/internal/domain/port"
)

const keyPrefix = "diabetes-risk:proba:"

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore implements Store on a go-redis client.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore connected to addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping checks Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// CachedClassifier memoizes class probabilities per preprocessed row. Store
// failures are logged and fall through to the wrapped classifier.
type CachedClassifier struct {
	next      port.Classifier
	store     Store
	logger    *slog.Logger
	namespace string
	ttl       time.Duration
}

// NewCachedClassifier wraps next with a probability cache. namespace must
// identify the model behind next (see ml.ModelInfo.CacheNamespace) so a
// replaced artifact never reads scores cached for its predecessor.
func NewCachedClassifier(next port.Classifier, store Store, namespace string, ttl time.Duration, logger *slog.Logger) *CachedClassifier {
	return &CachedClassifier{next: next, store: store, namespace: namespace, ttl: ttl, logger: logger}
}

// PredictProba serves cached rows from the store and scores the rest.
func (c *CachedClassifier) PredictProba(ctx context.Context, rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	keys := make([]string, len(rows))

	var (
		missRows [][]float64
		missIdx  []int
	)
	for i, row := range rows {
		keys[i] = Key(c.namespace, row)
		if probs, ok := c.lookup(ctx, keys[i]); ok {
			out[i] = probs
			continue
		}
		missRows = append(missRows, row)
		missIdx = append(missIdx, i)
	}

	if len(missRows) == 0 {
		return out, nil
	}

	scored, err := c.next.PredictProba(ctx, missRows)
	if err != nil {
		return nil, err
	}
	if len(scored) != len(missRows) {
		return nil, fmt.Errorf("classifier returned %d results for %d rows", len(scored), len(missRows))
	}

	for j, i := range missIdx {
		out[i] = scored[j]
		c.save(ctx, keys[i], scored[j])
	}
	return out, nil
}

func (c *CachedClassifier) lookup(ctx context.Context, key string) ([]float64, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.WarnContext(ctx, "probability cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var probs []float64
	if err := json.Unmarshal(data, &probs); err != nil || len(probs) != 2 {
		return nil, false
	}
	return probs, true
}

func (c *CachedClassifier) save(ctx context.Context, key string, probs []float64) {
	data, err := json.Marshal(probs)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "probability cache write failed", slog.String("error", err.Error()))
	}
}

// Key derives the cache key of a preprocessed row scored by the model in
// namespace from the bit patterns of its values.
func Key(namespace string, row []float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, v := range row {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return keyPrefix + namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
