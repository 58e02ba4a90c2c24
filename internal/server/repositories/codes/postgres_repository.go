package codes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/dbx"
	"github.com/dzikiwschod/clubapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, userID string, code string, expires time.Time) error {

	query :=
		`INSERT INTO verification_codes (user_id, code, expires_at)
         VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
		 `

	_, err := r.db.ExecContext(ctx, query, userID, code, expires)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID string) (*models.VerificationCode, error) {

	query :=
		`SELECT user_id, code, expires_at FROM verification_codes
		 WHERE user_id = $1
		 `

	c := &models.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.UserID, &c.Code, &c.Expires)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {

	query := `DELETE FROM verification_codes WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
