// Package metadata stores the client's durable key-value pairs: the session
// token and the serialized user profile.
//
// Two backends are provided. SQLiteRepository keeps pairs in the local
// "metadata" table created by the embedded migrations; RedisRepository keeps
// them under a key prefix in a Redis database. Both treat a missing key as
// (nil, nil) and apply SetMany and DeleteMany atomically.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs or none.
	SetMany(ctx context.Context, pairs map[string][]byte) error
	Delete(ctx context.Context, key string) error
	// DeleteMany removes all keys or none. Absent keys are not an error.
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Close() error
}
