package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadline-hq/crm-api/internal/entity"
	"github.com/leadline-hq/crm-api/internal/usecase"
)

func activityOfType(activityType string) any {
	return mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == activityType
	})
}

func newLifecycle() (*usecase.LeadLifecycle, *MockLeadRepository, *MockClientRepository, *MockActivityRecorder) {
	leads := new(MockLeadRepository)
	clients := new(MockClientRepository)
	recorder := new(MockActivityRecorder)
	return usecase.NewLeadLifecycle(leads, clients, recorder), leads, clients, recorder
}

func storedLead(t *testing.T) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead("Jane Doe", "jane@x.com", "Acme Web Design", "Please call me", "website")
	require.NoError(t, err)
	return lead
}

func TestCreateLeadEmitsCreatedActivity(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()

	leads.On("Create", ctx, mock.Anything).Return(nil)
	recorder.On("Record", activityOfType(entity.ActivityLeadCreated)).Once()

	lead, err := uc.CreateLead(ctx, usecase.CreateLeadInput{Name: "Jane Doe", Email: "JANE@X.COM"})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, "jane@x.com", lead.Email)
	recorder.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "Record", 1)
}

func TestCreateLeadMissingFields(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()

	_, err := uc.CreateLead(ctx, usecase.CreateLeadInput{Name: "Jane Doe"})

	assert.ErrorIs(t, err, entity.ErrMissingField)
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	recorder.AssertNotCalled(t, "Record", mock.Anything)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()

	_, err := uc.UpdateStatus(ctx, "some-id", "archived")

	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
	leads.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	recorder.AssertNotCalled(t, "Record", mock.Anything)
}

func TestUpdateStatusNotFound(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, _ := newLifecycle()

	leads.On("FindByID", ctx, "missing").Return(nil, entity.ErrLeadNotFound)

	_, err := uc.UpdateStatus(ctx, "missing", entity.StatusContacted)

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestUpdateStatusRecordsTransition(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()
	lead := storedLead(t)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	leads.On("Update", ctx, lead).Return(nil)
	recorder.On("Record", mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == entity.ActivityStatusUpdated &&
			a.Meta["from"] == entity.StatusNew &&
			a.Meta["to"] == entity.StatusQualified
	})).Once()

	updated, err := uc.UpdateStatus(ctx, lead.ID, entity.StatusQualified)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualified, updated.Status)
	recorder.AssertExpectations(t)
}

// A no-op transition still writes a status_updated event; the feed records
// every touch, matching the deployed behavior.
func TestUpdateStatusSameValueStillLogs(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()
	lead := storedLead(t)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	leads.On("Update", ctx, lead).Return(nil)
	recorder.On("Record", mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == entity.ActivityStatusUpdated &&
			a.Meta["from"] == entity.StatusNew &&
			a.Meta["to"] == entity.StatusNew
	})).Once()

	_, err := uc.UpdateStatus(ctx, lead.ID, entity.StatusNew)

	require.NoError(t, err)
	recorder.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "Record", 1)
}

func TestDeleteLead(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()
	lead := storedLead(t)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	leads.On("Delete", ctx, lead.ID).Return(nil)
	recorder.On("Record", activityOfType(entity.ActivityLeadDeleted)).Once()

	err := uc.DeleteLead(ctx, lead.ID)

	require.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestDeleteLeadNotFound(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, recorder := newLifecycle()

	leads.On("FindByID", ctx, "missing").Return(nil, entity.ErrLeadNotFound)

	err := uc.DeleteLead(ctx, "missing")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
	recorder.AssertNotCalled(t, "Record", mock.Anything)
}

func TestConvertLeadFirstTime(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, recorder := newLifecycle()
	lead := storedLead(t)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(nil, entity.ErrClientNotFound)
	clients.On("Create", ctx, mock.Anything).Return(nil)
	leads.On("Update", ctx, lead).Return(nil)
	recorder.On("Record", activityOfType(entity.ActivityLeadConverted)).Once()

	out, err := uc.ConvertLead(ctx, lead.ID)

	require.NoError(t, err)
	assert.False(t, out.AlreadyConverted)
	assert.Equal(t, entity.StatusClosed, lead.Status)
	assert.Equal(t, "Acme Web Design", out.Client.Name)
	assert.Equal(t, "jane@x.com", out.Client.Email)
	assert.Equal(t, "Please call me", out.Client.Notes)
	assert.Equal(t, lead.ID, out.Client.SourceLeadID)
	recorder.AssertExpectations(t)
}

func TestConvertLeadTwiceReturnsSameClient(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, recorder := newLifecycle()
	lead := storedLead(t)
	lead.Status = entity.StatusClosed

	existing := entity.NewClientFromLead(lead)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(existing, nil)
	recorder.On("Record", mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == entity.ActivityLeadConverted && a.Meta["alreadyConverted"] == true
	})).Once()

	out, err := uc.ConvertLead(ctx, lead.ID)

	require.NoError(t, err)
	assert.True(t, out.AlreadyConverted)
	assert.Equal(t, existing.ID, out.Client.ID)
	clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	recorder.AssertExpectations(t)
}

// A lead left open by a crash between client creation and the closing write
// gets closed on the next convert attempt.
func TestConvertLeadSelfHealsOpenLead(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, recorder := newLifecycle()
	lead := storedLead(t)
	lead.Status = entity.StatusQualified

	existing := entity.NewClientFromLead(lead)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(existing, nil)
	leads.On("Update", ctx, lead).Return(nil)
	recorder.On("Record", activityOfType(entity.ActivityLeadConverted)).Once()

	out, err := uc.ConvertLead(ctx, lead.ID)

	require.NoError(t, err)
	assert.True(t, out.AlreadyConverted)
	assert.Equal(t, entity.StatusClosed, lead.Status)
	leads.AssertCalled(t, "Update", ctx, lead)
}

// Losing the insert race resolves to the winner's client, not an error.
func TestConvertLeadRaceFallsBackToWinner(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, recorder := newLifecycle()
	lead := storedLead(t)

	winner := entity.NewClientFromLead(lead)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(nil, entity.ErrClientNotFound).Once()
	clients.On("Create", ctx, mock.Anything).Return(entity.ErrDuplicateConversion)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(winner, nil).Once()
	leads.On("Update", ctx, lead).Return(nil)
	recorder.On("Record", activityOfType(entity.ActivityLeadConverted)).Once()

	out, err := uc.ConvertLead(ctx, lead.ID)

	require.NoError(t, err)
	assert.True(t, out.AlreadyConverted)
	assert.Equal(t, winner.ID, out.Client.ID)
	assert.Equal(t, entity.StatusClosed, lead.Status)
}

func TestConvertLeadRaceWithUnreadableWinner(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, _ := newLifecycle()
	lead := storedLead(t)

	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(nil, entity.ErrClientNotFound)
	clients.On("Create", ctx, mock.Anything).Return(entity.ErrDuplicateConversion)

	_, err := uc.ConvertLead(ctx, lead.ID)

	assert.ErrorIs(t, err, entity.ErrDuplicateConversion)
}

func TestConvertLeadNotFound(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, _ := newLifecycle()

	leads.On("FindByID", ctx, "missing").Return(nil, entity.ErrLeadNotFound)

	_, err := uc.ConvertLead(ctx, "missing")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
	clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertLeadStoreFailure(t *testing.T) {
	ctx := context.Background()
	uc, leads, clients, recorder := newLifecycle()
	lead := storedLead(t)

	boom := errors.New("connection reset")
	leads.On("FindByID", ctx, lead.ID).Return(lead, nil)
	clients.On("FindBySourceLeadID", ctx, lead.ID).Return(nil, entity.ErrClientNotFound)
	clients.On("Create", ctx, mock.Anything).Return(boom)

	_, err := uc.ConvertLead(ctx, lead.ID)

	assert.ErrorIs(t, err, boom)
	recorder.AssertNotCalled(t, "Record", mock.Anything)
}
