package entity

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types.
const (
	ActivityLeadCreated   = "lead_created"
	ActivityStatusUpdated = "status_updated"
	ActivityLeadConverted = "lead_converted"
	ActivityLeadDeleted   = "lead_deleted"
)

// Activity is an append-only feed entry describing a change to a lead or
// client. Writes are best-effort: a failed activity insert never fails the
// operation that produced it.
type Activity struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	LeadID    string         `json:"leadId,omitempty"`
	ClientID  string         `json:"clientId,omitempty"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}

func NewActivity(activityType, message string, meta map[string]any) *Activity {
	if meta == nil {
		meta = map[string]any{}
	}
	return &Activity{
		ID:        uuid.New().String(),
		Type:      activityType,
		Message:   message,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	}
}
