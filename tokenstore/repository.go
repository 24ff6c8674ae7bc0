// Package tokenstore is the durable client-side storage of the web shell: a
// small key/value table holding the credential token under TokenKey.
package tokenstore

import "context"

// TokenKey is the fixed name the credential token is stored under.
const TokenKey = "token"

// Repository is a key/value store. Get returns (nil, nil) for a missing key
// and Delete is idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
