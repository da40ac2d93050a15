package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrInviteInvalid — код приглашения не существует или уже использован
var ErrInviteInvalid = errors.New("invitation code is invalid or already used")

type InviteRepository interface {
	Claim(ctx context.Context, code string) error
}

type inviteRepository struct {
	db *PostgresDB
}

func NewInviteRepository(db *PostgresDB) InviteRepository {
	return &inviteRepository{db: db}
}

// Claim помечает код использованным. Условие is_used = false в WHERE
// гарантирует одноразовость даже при конкурентных регистрациях.
func (r *inviteRepository) Claim(ctx context.Context, code string) error {
	query := `
		UPDATE invitation_codes
		SET is_used = true
		WHERE code = $1 AND is_used = false
	`

	result, err := r.db.Pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to claim invitation code: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInviteInvalid
	}

	return nil
}
