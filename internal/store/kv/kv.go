// Package kv defines the durable key-value slot the todo list is mirrored to.
package kv

//go:generate go run go.uber.org/mock/mockgen -source=./kv.go -destination=./mocks/kv_mock.go -package=mocks

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable key-value store. Put overwrites the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
