package timer

import "context"

// Store is the durable medium the timer record lives in. Implementations
// hold a single record under StorageKey.
type Store interface {
	// Load returns the raw record, or ErrNoRecord when nothing is stored
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored record
	Save(ctx context.Context, data []byte) error
	// Clear removes the stored record; clearing an empty store is not an error
	Clear(ctx context.Context) error
}

// NopStore never holds a record and discards writes.
type NopStore struct{}

func (NopStore) Load(context.Context) ([]byte, error) { return nil, ErrNoRecord }

func (NopStore) Save(context.Context, []byte) error { return nil }

func (NopStore) Clear(context.Context) error { return nil }
