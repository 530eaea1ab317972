package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadline-hq/crm-api/internal/entity"
)

// LeadLifecycle drives a lead through the pipeline and into conversion. It
// holds no state of its own; every decision is read-then-write against the
// injected repositories.
type LeadLifecycle struct {
	Leads    LeadRepository
	Clients  ClientRepository
	Activity ActivityRecorder
}

func NewLeadLifecycle(leads LeadRepository, clients ClientRepository, activity ActivityRecorder) *LeadLifecycle {
	return &LeadLifecycle{
		Leads:    leads,
		Clients:  clients,
		Activity: activity,
	}
}

func (uc *LeadLifecycle) CreateLead(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	lead, err := entity.NewLead(input.Name, input.Email, input.Business, input.Message, input.Source)
	if err != nil {
		return nil, err
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, err
	}

	act := entity.NewActivity(
		entity.ActivityLeadCreated,
		fmt.Sprintf("Lead created: %s", lead.Name),
		map[string]any{"email": lead.Email, "business": lead.Business, "source": lead.Source},
	)
	act.LeadID = lead.ID
	uc.Activity.Record(act)

	return lead, nil
}

func (uc *LeadLifecycle) UpdateStatus(ctx context.Context, leadID, status string) (*entity.Lead, error) {
	if !entity.IsValidStatus(status) {
		return nil, entity.ErrInvalidStatus
	}

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	from := lead.Status
	lead.Status = status
	lead.UpdatedAt = time.Now().UTC()

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, err
	}

	// Logged even when from == to; the feed shows every touch.
	act := entity.NewActivity(
		entity.ActivityStatusUpdated,
		fmt.Sprintf("Status updated: %s (%s → %s)", lead.Name, from, lead.Status),
		map[string]any{"from": from, "to": lead.Status},
	)
	act.LeadID = lead.ID
	uc.Activity.Record(act)

	return lead, nil
}

func (uc *LeadLifecycle) DeleteLead(ctx context.Context, leadID string) error {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return err
	}

	// No cascade: a client already converted from this lead stays.
	if err := uc.Leads.Delete(ctx, lead.ID); err != nil {
		return err
	}

	act := entity.NewActivity(
		entity.ActivityLeadDeleted,
		fmt.Sprintf("Lead deleted: %s", lead.Name),
		map[string]any{"email": lead.Email},
	)
	uc.Activity.Record(act)

	return nil
}

// ConvertLead turns a lead into a client, exactly once. A repeat call (or a
// concurrent loser whose insert hits the unique index on source_lead_id)
// resolves to the existing client with AlreadyConverted set. Client creation
// and the closing status write are separate operations; a crash between them
// leaves the lead open, and the lookup below self-heals it on the next
// attempt.
func (uc *LeadLifecycle) ConvertLead(ctx context.Context, leadID string) (*ConvertLeadOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.Clients.FindBySourceLeadID(ctx, lead.ID)
	if err == nil {
		return uc.resolveConverted(ctx, lead, existing)
	}
	if !errors.Is(err, entity.ErrClientNotFound) {
		return nil, err
	}

	client := entity.NewClientFromLead(lead)
	if err := uc.Clients.Create(ctx, client); err != nil {
		if errors.Is(err, entity.ErrDuplicateConversion) {
			// Lost the race; the winner's client is canonical.
			winner, findErr := uc.Clients.FindBySourceLeadID(ctx, lead.ID)
			if findErr != nil {
				return nil, entity.ErrDuplicateConversion
			}
			return uc.resolveConverted(ctx, lead, winner)
		}
		return nil, err
	}

	if err := uc.closeLead(ctx, lead); err != nil {
		return nil, err
	}

	act := entity.NewActivity(
		entity.ActivityLeadConverted,
		fmt.Sprintf("Lead converted: %s → Client", lead.Name),
		map[string]any{"business": lead.Business, "source": lead.Source},
	)
	act.LeadID = lead.ID
	act.ClientID = client.ID
	uc.Activity.Record(act)

	return &ConvertLeadOutput{Client: client}, nil
}

// resolveConverted is the already-converted branch: make sure the lead is
// closed, then hand back the existing client.
func (uc *LeadLifecycle) resolveConverted(ctx context.Context, lead *entity.Lead, client *entity.Client) (*ConvertLeadOutput, error) {
	if lead.Status != entity.StatusClosed {
		if err := uc.closeLead(ctx, lead); err != nil {
			return nil, err
		}
	}

	act := entity.NewActivity(
		entity.ActivityLeadConverted,
		fmt.Sprintf("Lead converted: %s → Client", lead.Name),
		map[string]any{"business": lead.Business, "source": lead.Source, "alreadyConverted": true},
	)
	act.LeadID = lead.ID
	act.ClientID = client.ID
	uc.Activity.Record(act)

	return &ConvertLeadOutput{Client: client, AlreadyConverted: true}, nil
}

func (uc *LeadLifecycle) closeLead(ctx context.Context, lead *entity.Lead) error {
	lead.Status = entity.StatusClosed
	lead.UpdatedAt = time.Now().UTC()
	return uc.Leads.Update(ctx, lead)
}
