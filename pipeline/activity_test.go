// ABOUTME: Tests for the activity lifecycle state machine
// ABOUTME: Covers creation defaults, past-dating, completion, and follow-ups
package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pipecrm/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateActivityDefaults(t *testing.T) {
	actor := uuid.New()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewActivityManager(actor)
	m.Now = fixedClock(now)

	future := now.Add(48 * time.Hour)
	activity, err := m.Create(ActivityForm{
		Type:     models.ActivityCall,
		Subject:  "  Intro call  ",
		DateTime: future,
	})
	require.NoError(t, err)

	assert.Equal(t, "Intro call", activity.Subject)
	assert.Equal(t, models.ActivityScheduled, activity.Status)
	assert.Equal(t, models.PriorityMedium, activity.Priority)
	assert.Equal(t, future, activity.DateTime)
	assert.Equal(t, actor, activity.CreatedBy)
	assert.Equal(t, actor, activity.UpdatedBy)
	assert.Nil(t, activity.CompletedAt)

	_, err = ulid.Parse(activity.ID)
	assert.NoError(t, err)
}

func TestCreateActivityPastDateIsCompleted(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	m := NewActivityManager(uuid.New())
	m.Now = fixedClock(now)

	activity, err := m.Create(ActivityForm{
		Type:     models.ActivityMeeting,
		Subject:  "Lunch last week",
		DateTime: now.Add(-7 * 24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ActivityCompleted, activity.Status)
	require.NotNil(t, activity.CompletedAt)
	assert.Equal(t, now, *activity.CompletedAt)
}

func TestCreateActivityValidation(t *testing.T) {
	m := NewActivityManager(uuid.New())

	tests := []struct {
		name  string
		form  ActivityForm
		field string
	}{
		{"empty subject", ActivityForm{Subject: "   "}, "subject"},
		{"unknown type", ActivityForm{Subject: "x", Type: "séance"}, "type"},
		{"unknown method", ActivityForm{Subject: "x", Method: "telegraph"}, "method"},
		{"unknown status", ActivityForm{Subject: "x", Status: "pending"}, "status"},
		{"unknown priority", ActivityForm{Subject: "x", Priority: "urgent"}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Create(tt.form)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEditPreservesAuditTrail(t *testing.T) {
	creator := uuid.New()
	editor := uuid.New()
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	edited := created.Add(24 * time.Hour)

	creatorMgr := NewActivityManager(creator)
	creatorMgr.Now = fixedClock(created)
	activity, err := creatorMgr.Create(ActivityForm{
		Type:     models.ActivityEmail,
		Subject:  "Pricing question",
		DateTime: created.Add(72 * time.Hour),
	})
	require.NoError(t, err)

	editorMgr := NewActivityManager(editor)
	editorMgr.Now = fixedClock(edited)
	updated, err := editorMgr.Edit(activity, ActivityForm{
		Type:    models.ActivityEmail,
		Subject: "Pricing and terms",
	})
	require.NoError(t, err)

	assert.Equal(t, activity.ID, updated.ID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, creator, updated.CreatedBy)
	assert.Equal(t, edited, updated.UpdatedAt)
	assert.Equal(t, editor, updated.UpdatedBy)
	assert.Equal(t, activity.DateTime, updated.DateTime)
}

func TestEditRejectsTerminalTransitions(t *testing.T) {
	m := NewActivityManager(uuid.New())
	m.Now = fixedClock(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	done := models.Activity{ID: "a1", Subject: "Demo", Status: models.ActivityCompleted}
	_, err := m.Edit(done, ActivityForm{Subject: "Demo", Status: models.ActivityScheduled})
	assert.ErrorIs(t, err, ErrTerminalStatus)

	cancelled := models.Activity{ID: "a2", Subject: "Demo", Status: models.ActivityCancelled}
	_, err = m.Edit(cancelled, ActivityForm{Subject: "Demo", Status: models.ActivityCompleted})
	assert.ErrorIs(t, err, ErrTerminalStatus)

	// Editing fields without changing status is still allowed.
	updated, err := m.Edit(done, ActivityForm{Subject: "Demo recap"})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityCompleted, updated.Status)
}

func TestEditStampsCompletedAtOnTransitionOnly(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	m := NewActivityManager(uuid.New())
	m.Now = fixedClock(now)

	scheduled := models.Activity{ID: "a1", Subject: "Call", Status: models.ActivityScheduled}
	updated, err := m.Edit(scheduled, ActivityForm{Subject: "Call", Status: models.ActivityCompleted})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, now, *updated.CompletedAt)
}

func TestCompleteMergesNotes(t *testing.T) {
	now := time.Date(2024, 1, 8, 14, 0, 0, 0, time.UTC)
	m := NewActivityManager(uuid.New())
	m.Now = fixedClock(now)

	activity := models.Activity{
		ID:      "a1",
		Subject: "Kickoff call",
		Notes:   "Agenda attached",
		Status:  models.ActivityScheduled,
	}

	completed, next, err := m.Complete(activity, "Went well", nil)
	require.NoError(t, err)
	assert.Nil(t, next)

	assert.Equal(t, models.ActivityCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, now, *completed.CompletedAt)
	assert.Equal(t, "Agenda attached\n\nWent well", completed.Notes)
}

func TestCompleteRejectsTerminalStatus(t *testing.T) {
	m := NewActivityManager(uuid.New())

	for _, status := range []string{models.ActivityCompleted, models.ActivityCancelled} {
		_, _, err := m.Complete(models.Activity{ID: "a1", Status: status}, "", nil)
		assert.ErrorIs(t, err, ErrTerminalStatus)
	}
}

func TestCompleteSynthesizesFollowUp(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	actor := uuid.New()
	contacts := []uuid.UUID{uuid.New(), uuid.New()}
	assignee := uuid.New()

	m := NewActivityManager(actor)
	m.Now = fixedClock(now)

	activity := models.Activity{
		ID:         "a1",
		Type:       models.ActivityMeeting,
		Method:     models.MethodZoom,
		Subject:    "Discovery workshop",
		Status:     models.ActivityScheduled,
		ContactIDs: contacts,
		AssigneeID: assignee,
	}

	completed, next, err := m.Complete(activity, "", &FollowUp{
		Subject: "Send recap",
		Days:    7,
	})
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, models.ActivityCompleted, completed.Status)
	assert.Equal(t, models.ActivityScheduled, next.Status)
	assert.Equal(t, "Send recap", next.Subject)
	assert.Equal(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), next.DateTime)
	assert.NotEqual(t, completed.ID, next.ID)

	// Inherited from the completed activity.
	assert.Equal(t, models.ActivityMeeting, next.Type)
	assert.Equal(t, models.MethodZoom, next.Method)
	assert.Equal(t, contacts, next.ContactIDs)
	assert.Equal(t, assignee, next.AssigneeID)
}

func TestCompleteFollowUpOverrides(t *testing.T) {
	m := NewActivityManager(uuid.New())
	m.Now = fixedClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	override := []uuid.UUID{uuid.New()}
	newAssignee := uuid.New()

	activity := models.Activity{
		ID:         "a1",
		Subject:    "Call",
		Status:     models.ActivityScheduled,
		ContactIDs: []uuid.UUID{uuid.New()},
		AssigneeID: uuid.New(),
	}

	_, next, err := m.Complete(activity, "", &FollowUp{
		Subject:    "Escalate",
		Days:       3,
		ContactIDs: override,
		AssigneeID: newAssignee,
	})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, override, next.ContactIDs)
	assert.Equal(t, newAssignee, next.AssigneeID)
}

func TestCompleteFollowUpValidation(t *testing.T) {
	m := NewActivityManager(uuid.New())
	activity := models.Activity{ID: "a1", Subject: "Call", Status: models.ActivityScheduled}

	tests := []struct {
		name     string
		followUp FollowUp
	}{
		{"empty subject", FollowUp{Subject: "  ", Days: 7}},
		{"zero days", FollowUp{Subject: "Recap", Days: 0}},
		{"too many days", FollowUp{Subject: "Recap", Days: 366}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := m.Complete(activity, "", &tt.followUp)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	m := NewActivityManager(uuid.New())
	m.Now = fixedClock(now)

	cancelled, err := m.Cancel(models.Activity{ID: "a1", Status: models.ActivityScheduled})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CompletedAt)

	_, err = m.Cancel(cancelled)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestNewIDsAreMonotonicWithinManager(t *testing.T) {
	m := NewActivityManager(uuid.New())

	prev := m.newID()
	for i := 0; i < 100; i++ {
		id := m.newID()
		assert.True(t, id > prev, "expected %s > %s", id, prev)
		prev = id
	}
}
