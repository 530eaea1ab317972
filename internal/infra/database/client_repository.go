package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/leadline-hq/crm-api/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, business, notes, source, source_lead_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Business,
		client.Notes,
		client.Source,
		nullString(client.SourceLeadID),
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Unique index on source_lead_id: someone else converted first.
			return entity.ErrDuplicateConversion
		}
		return err
	}

	return nil
}

func (r *ClientRepository) FindBySourceLeadID(ctx context.Context, leadID string) (*entity.Client, error) {
	query := `
		SELECT id, name, email, business, notes, source, source_lead_id, created_at, updated_at
		FROM clients
		WHERE source_lead_id = $1
	`

	client, err := scanClient(r.DB.QueryRowContext(ctx, query, leadID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *ClientRepository) List(ctx context.Context, limit int) ([]*entity.Client, error) {
	query := `
		SELECT id, name, email, business, notes, source, source_lead_id, created_at, updated_at
		FROM clients
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*entity.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*entity.Client, error) {
	client := &entity.Client{}
	var sourceLeadID sql.NullString

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Business,
		&client.Notes,
		&client.Source,
		&sourceLeadID,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.SourceLeadID = sourceLeadID.String
	return client, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
