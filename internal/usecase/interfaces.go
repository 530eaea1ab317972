package usecase

import (
	"context"

	"github.com/leadline-hq/crm-api/internal/entity"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context, limit int) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type ClientRepository interface {
	// Create returns entity.ErrDuplicateConversion when another client
	// already references the same source lead.
	Create(ctx context.Context, client *entity.Client) error
	FindBySourceLeadID(ctx context.Context, leadID string) (*entity.Client, error)
	List(ctx context.Context, limit int) ([]*entity.Client, error)
	Count(ctx context.Context) (int, error)
}

type ActivityRepository interface {
	Insert(ctx context.Context, activity *entity.Activity) error
	List(ctx context.Context, limit int) ([]*entity.Activity, error)
}

// ActivityRecorder accepts events without blocking and without reporting
// failure; the feed is best-effort by contract.
type ActivityRecorder interface {
	Record(activity *entity.Activity)
}
