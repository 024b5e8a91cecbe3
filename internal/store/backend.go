package store

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by backends for keys that were never written.
var ErrSlotNotFound = errors.New("slot not found")

// Backend is a durable key-value store holding one JSON document per key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
