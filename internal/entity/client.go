package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultClientSource = "converted"

// Client is a won customer. Immutable after creation; SourceLeadID, when
// set, is unique across all clients (at most one client per lead).
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Business     string    `json:"business"`
	Notes        string    `json:"notes"`
	Source       string    `json:"source"`
	SourceLeadID string    `json:"sourceLeadId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewClient builds a manually entered client, one with no originating lead.
func NewClient(name, email, business, notes, source string) (*Client, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" {
		return nil, ErrMissingField
	}

	if source = strings.TrimSpace(source); source == "" {
		source = DefaultClientSource
	}

	now := time.Now().UTC()
	return &Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Business:  strings.TrimSpace(business),
		Notes:     strings.TrimSpace(notes),
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewClientFromLead derives the converted client. The client is named after
// the lead's business, falling back to the personal name when no business
// was given; the lead's message becomes the client notes.
func NewClientFromLead(lead *Lead) *Client {
	name := lead.Business
	if name == "" {
		name = lead.Name
	}

	now := time.Now().UTC()
	return &Client{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        lead.Email,
		Business:     lead.Business,
		Notes:        lead.Message,
		Source:       lead.Source,
		SourceLeadID: lead.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
