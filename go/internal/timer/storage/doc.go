// Package storage provides the durable media the timer record can live in.
package storage

import "github.com/mcdev12/debatify/go/internal/timer"

var (
	_ timer.Store = (*FileStore)(nil)
	_ timer.Store = (*MemoryStore)(nil)
	_ timer.Store = (*KVStore)(nil)
	_ timer.Store = (*PostgresStore)(nil)
)
