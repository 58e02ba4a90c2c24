// Package codes declares the server-side repository contract for pending
// email verification codes.
package codes

import (
	"context"
	"time"

	"github.com/dzikiwschod/clubapp/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// verification codes. A user has at most one pending code.
type Repository interface {
	// Save stores code for userID, replacing any previous code.
	Save(ctx context.Context, userID string, code string, expires time.Time) error

	// Find returns the pending code of userID, or common.ErrorNotFound.
	Find(ctx context.Context, userID string) (*models.VerificationCode, error)

	// Delete removes the pending code of userID. Deleting a non-existent code
	// is not an error.
	Delete(ctx context.Context, userID string) error
}
