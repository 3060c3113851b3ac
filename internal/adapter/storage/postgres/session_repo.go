package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, client_id, token, amount, description, status, expires_at, confirmed_at, created_at`

// SessionRepo implements ports.PaymentSessionRepository.
type SessionRepo struct {
	pool Pool
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(pool Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create inserts a new payment session.
func (r *SessionRepo) Create(ctx context.Context, s *domain.PaymentSession) error {
	query := `INSERT INTO payment_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.ClientID, s.Token, s.Amount, s.Description,
		s.Status, s.ExpiresAt, s.ConfirmedAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment session: %w", err)
	}
	return nil
}

// GetLatestByToken returns the newest session carrying the token, or nil.
func (r *SessionRepo) GetLatestByToken(ctx context.Context, token string) (*domain.PaymentSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM payment_sessions
		WHERE token = $1 ORDER BY created_at DESC LIMIT 1`

	return scanSession(r.pool.QueryRow(ctx, query, token), "get session by token")
}

// GetLatestByTokenForUpdate locks the newest session carrying the token.
// This MUST be called within a transaction; it serializes concurrent
// confirmation attempts on the same session.
func (r *SessionRepo) GetLatestByTokenForUpdate(ctx context.Context, tx pgx.Tx, token string) (*domain.PaymentSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM payment_sessions
		WHERE token = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`

	return scanSession(tx.QueryRow(ctx, query, token), "get session by token for update")
}

// HasLiveToken reports whether an unexpired PENDING session holds the token.
func (r *SessionRepo) HasLiveToken(ctx context.Context, token string, now time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM payment_sessions
		WHERE token = $1 AND status = $2 AND expires_at > $3
	)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, token, domain.SessionStatusPending, now).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check live token: %w", err)
	}
	return exists, nil
}

// MarkExpired persists the lazy PENDING -> EXPIRED transition. The status
// guard keeps a settled session from being clobbered by a late attempt.
func (r *SessionRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE payment_sessions SET status = $1 WHERE id = $2 AND status = $3`

	_, err := r.pool.Exec(ctx, query, domain.SessionStatusExpired, id, domain.SessionStatusPending)
	if err != nil {
		return fmt.Errorf("mark session expired: %w", err)
	}
	return nil
}

// Confirm sets CONFIRMED and the settlement time within a transaction.
func (r *SessionRepo) Confirm(ctx context.Context, tx pgx.Tx, id uuid.UUID, confirmedAt time.Time) error {
	query := `UPDATE payment_sessions
		SET status = $1, confirmed_at = $2 WHERE id = $3 AND status = $4`

	tag, err := tx.Exec(ctx, query, domain.SessionStatusConfirmed, confirmedAt, id, domain.SessionStatusPending)
	if err != nil {
		return fmt.Errorf("confirm session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s is not pending", id)
	}
	return nil
}

func scanSession(row pgx.Row, op string) (*domain.PaymentSession, error) {
	s := &domain.PaymentSession{}
	err := row.Scan(
		&s.ID, &s.ClientID, &s.Token, &s.Amount, &s.Description,
		&s.Status, &s.ExpiresAt, &s.ConfirmedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}
