package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/leadline-hq/crm-api/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *entity.Activity) error {
	meta, err := json.Marshal(activity.Meta)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activities (id, type, message, lead_id, client_id, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.DB.ExecContext(ctx, query,
		activity.ID,
		activity.Type,
		activity.Message,
		nullString(activity.LeadID),
		nullString(activity.ClientID),
		meta,
		activity.CreatedAt,
	)
	return err
}

func (r *ActivityRepository) List(ctx context.Context, limit int) ([]*entity.Activity, error) {
	query := `
		SELECT id, type, message, lead_id, client_id, meta, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Activity, 0)
	for rows.Next() {
		activity := &entity.Activity{}
		var leadID, clientID sql.NullString
		var meta []byte

		if err := rows.Scan(
			&activity.ID,
			&activity.Type,
			&activity.Message,
			&leadID,
			&clientID,
			&meta,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}

		activity.LeadID = leadID.String
		activity.ClientID = clientID.String
		if err := json.Unmarshal(meta, &activity.Meta); err != nil {
			return nil, err
		}
		items = append(items, activity)
	}

	return items, rows.Err()
}
