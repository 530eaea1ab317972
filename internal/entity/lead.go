package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pipeline stages for a Lead.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusClosed    = "closed"
)

const DefaultLeadSource = "website"

var leadStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusClosed:    {},
}

func IsValidStatus(status string) bool {
	_, ok := leadStatuses[status]
	return ok
}

type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Business  string    `json:"business"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewLead builds a pipeline entry for an incoming prospect. Every lead
// starts at StatusNew regardless of what the caller sends.
func NewLead(name, email, business, message, source string) (*Lead, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" {
		return nil, ErrMissingField
	}

	if source = strings.TrimSpace(source); source == "" {
		source = DefaultLeadSource
	}

	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Business:  strings.TrimSpace(business),
		Message:   strings.TrimSpace(message),
		Status:    StatusNew,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeEmail applies the canonical storage form: trimmed, lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
