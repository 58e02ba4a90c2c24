// Package metadata is the client's general-purpose persistent key-value store:
// a single sqlite table of small device-level facts such as the
// "has onboarded" sentinel.
package metadata

import (
	"context"
)

// Repository is the raw byte-oriented view of the metadata table.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
