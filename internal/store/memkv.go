package store

import (
	"context"
	"sync"
	"time"
)

// memKV is a map-backed KV for tests and local development without a
// Redis. TTLs are accepted and ignored.
type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemKV() KV {
	return &memKV{m: map[string]string{}}
}

func (k *memKV) Get(_ context.Context, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.m[key], nil
}

func (k *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}

func (k *memKV) Del(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}
