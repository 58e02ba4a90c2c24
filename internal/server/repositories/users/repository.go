// Package users declares the server-side repository contract for member
// accounts, with Postgres and in-memory implementations.
package users

import (
	"context"

	"github.com/dzikiwschod/clubapp/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in CreatedAt. A taken email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// MarkVerified flags the account as verified and records the consents.
	MarkVerified(ctx context.Context, userID string, marketing, dataProcessing bool) error
	Delete(ctx context.Context, userID string) error
}
