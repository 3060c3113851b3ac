package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"
	"github.com/raechelCardenas/billetera-digital/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const clientColumns = `id, document, full_name, email, phone, created_at, updated_at`

// ClientRepo implements ports.ClientRepository.
type ClientRepo struct {
	pool Pool
}

// NewClientRepo creates a new ClientRepo.
func NewClientRepo(pool Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

// Create inserts a client within a transaction. A unique-constraint violation
// on document or email surfaces as CLIENT_EXISTS: the constraint is the
// authoritative guard when two registrations race past the pre-check.
func (r *ClientRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		c.ID, c.Document, c.FullName, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolationField(err); ok {
			return apperror.ErrClientExists(field)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID fetches a client by its UUID.
func (r *ClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	return r.scanClient(r.pool.QueryRow(ctx, query, id), "get client by id")
}

// GetByDocumentOrEmail returns any client sharing either identifier, or nil.
func (r *ClientRepo) GetByDocumentOrEmail(ctx context.Context, document, email string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
		WHERE document = $1 OR email = $2 LIMIT 1`

	return r.scanClient(r.pool.QueryRow(ctx, query, document, email), "get client by document or email")
}

// GetByIdentity resolves a client by document + phone, or nil when no match.
func (r *ClientRepo) GetByIdentity(ctx context.Context, document, phone string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
		WHERE document = $1 AND phone = $2`

	return r.scanClient(r.pool.QueryRow(ctx, query, document, phone), "get client by identity")
}

func (r *ClientRepo) scanClient(row pgx.Row, op string) (*domain.Client, error) {
	c := &domain.Client{}
	err := row.Scan(&c.ID, &c.Document, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// uniqueViolationField maps a 23505 error to the conflicting client field.
func uniqueViolationField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return "email", true
	}
	return "document", true
}
