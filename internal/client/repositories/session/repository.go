// Package session stores the auth client's session data as key/value pairs in
// the local SQLite database.
package session

import "context"

// Repository is the key/value store behind the auth client. Get returns
// (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
