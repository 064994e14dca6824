package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/timer"
)

// DefaultBucket is the JetStream key-value bucket holding the record.
const DefaultBucket = "debatify"

// KVStore keeps the timer record in a NATS JetStream key-value bucket so a
// replacement process on another host can resume the countdown.
type KVStore struct {
	kv  jetstream.KeyValue
	key string
}

// NewKVStore wraps an existing bucket.
func NewKVStore(kv jetstream.KeyValue) *KVStore {
	return &KVStore{kv: kv, key: timer.StorageKey}
}

// OpenKVStore creates the bucket if needed and returns a store over it.
func OpenKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketNotFound) {
			return nil, fmt.Errorf("get key-value bucket: %w", err)
		}
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "debatify timer state",
			History:     1,
			Storage:     jetstream.FileStorage,
		})
		if err != nil {
			return nil, fmt.Errorf("create key-value bucket: %w", err)
		}
		log.Info().Str("bucket", bucket).Msg("created JetStream key-value bucket")
	} else {
		log.Info().Str("bucket", bucket).Msg("using existing JetStream key-value bucket")
	}

	return NewKVStore(kv), nil
}

func (s *KVStore) Load(ctx context.Context) ([]byte, error) {
	entry, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, timer.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	return entry.Value(), nil
}

func (s *KVStore) Save(ctx context.Context, data []byte) error {
	if _, err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("put %s: %w", s.key, err)
	}
	return nil
}

func (s *KVStore) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, s.key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return nil
}
