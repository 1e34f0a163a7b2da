// ABOUTME: Activity lifecycle manager for opportunity activities
// ABOUTME: Create, edit, complete with follow-up generation, and status rules
package pipeline

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/timeutil"
)

// Follow-up scheduling bounds, in days from completion.
const (
	MinFollowUpDays = 1
	MaxFollowUpDays = 365
)

// ActivityForm carries user input for creating or editing an activity.
// DateTime accepts any representation the timestamp normalizer understands;
// nil means "now".
type ActivityForm struct {
	Type       string
	Method     string
	Subject    string
	Notes      string
	DateTime   interface{}
	Status     string
	Priority   string
	ContactIDs []uuid.UUID
	AssigneeID uuid.UUID
}

// FollowUp describes the follow-up activity to synthesize when completing an
// activity. Contacts and assignee are inherited from the completed activity
// unless overridden here.
type FollowUp struct {
	Subject    string
	Notes      string
	Days       int
	ContactIDs []uuid.UUID
	AssigneeID uuid.UUID
}

// ActivityManager owns the activity state machine:
// scheduled -> completed | cancelled, both terminal.
type ActivityManager struct {
	actor uuid.UUID

	// Now is the clock; override in tests.
	Now func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewActivityManager returns a manager acting as the given user.
func NewActivityManager(actor uuid.UUID) *ActivityManager {
	return &ActivityManager{
		actor:   actor,
		Now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// newID generates a ULID, unique within one opportunity's embedded arrays.
func (m *ActivityManager) newID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(m.Now()), m.entropy).String()
}

// Create validates the form and builds a new activity. Defaults: status
// scheduled, priority medium, date-time now. An activity created with a
// scheduled status but a date at or before now is reclassified as completed:
// an interaction dated in the past is assumed to have already happened.
func (m *ActivityManager) Create(form ActivityForm) (models.Activity, error) {
	if err := validateForm(form); err != nil {
		return models.Activity{}, err
	}

	now := m.Now().UTC()

	dateTime := now
	if form.DateTime != nil {
		dateTime = timeutil.Normalize(form.DateTime)
	}

	status := form.Status
	if status == "" {
		status = models.ActivityScheduled
	}
	priority := form.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	activity := models.Activity{
		ID:         m.newID(),
		Type:       form.Type,
		Method:     form.Method,
		Subject:    strings.TrimSpace(form.Subject),
		Notes:      form.Notes,
		DateTime:   dateTime,
		Status:     status,
		Priority:   priority,
		ContactIDs: form.ContactIDs,
		AssigneeID: form.AssigneeID,
		CreatedAt:  now,
		CreatedBy:  m.actor,
		UpdatedAt:  now,
		UpdatedBy:  m.actor,
	}

	if activity.Status == models.ActivityScheduled && !dateTime.After(now) {
		activity.Status = models.ActivityCompleted
		completedAt := now
		activity.CompletedAt = &completedAt
	} else if activity.Status == models.ActivityCompleted {
		completedAt := now
		activity.CompletedAt = &completedAt
	}

	return activity, nil
}

// Edit applies the form onto an existing activity. CreatedAt/By are
// preserved; UpdatedAt/By are stamped. CompletedAt is preserved unless the
// edit itself transitions the activity into completed, in which case it is
// stamped now. Transitions out of a terminal status are rejected.
func (m *ActivityManager) Edit(existing models.Activity, form ActivityForm) (models.Activity, error) {
	if err := validateForm(form); err != nil {
		return models.Activity{}, err
	}

	status := form.Status
	if status == "" {
		status = existing.Status
	}
	if existing.Status != models.ActivityScheduled && status != existing.Status {
		return models.Activity{}, ErrTerminalStatus
	}

	now := m.Now().UTC()

	updated := existing
	updated.Type = form.Type
	updated.Method = form.Method
	updated.Subject = strings.TrimSpace(form.Subject)
	updated.Notes = form.Notes
	if form.DateTime != nil {
		updated.DateTime = timeutil.Normalize(form.DateTime)
	}
	if form.Priority != "" {
		updated.Priority = form.Priority
	}
	if form.ContactIDs != nil {
		updated.ContactIDs = form.ContactIDs
	}
	if form.AssigneeID != uuid.Nil {
		updated.AssigneeID = form.AssigneeID
	}
	updated.Status = status
	updated.UpdatedAt = now
	updated.UpdatedBy = m.actor

	if status == models.ActivityCompleted && existing.Status != models.ActivityCompleted {
		completedAt := now
		updated.CompletedAt = &completedAt
	}
	if status != models.ActivityCompleted {
		updated.CompletedAt = nil
	}

	return updated, nil
}

// Complete transitions the activity into completed, merging notes, and
// optionally synthesizes a follow-up activity scheduled Days from now. The
// follow-up inherits the original's contacts and assignee unless the
// FollowUp overrides them. Both activities are returned so the caller can
// persist them in one whole-array replace.
func (m *ActivityManager) Complete(activity models.Activity, notes string, followUp *FollowUp) (models.Activity, *models.Activity, error) {
	if activity.Status != models.ActivityScheduled {
		return models.Activity{}, nil, ErrTerminalStatus
	}

	now := m.Now().UTC()

	completed := activity
	completed.Status = models.ActivityCompleted
	completedAt := now
	completed.CompletedAt = &completedAt
	completed.UpdatedAt = now
	completed.UpdatedBy = m.actor
	if notes != "" {
		if completed.Notes != "" {
			completed.Notes += "\n\n" + notes
		} else {
			completed.Notes = notes
		}
	}

	if followUp == nil {
		return completed, nil, nil
	}

	subject := strings.TrimSpace(followUp.Subject)
	if subject == "" {
		return models.Activity{}, nil, newValidationError("follow_up.subject", "must not be empty")
	}
	if followUp.Days < MinFollowUpDays || followUp.Days > MaxFollowUpDays {
		return models.Activity{}, nil, newValidationError("follow_up.days", "must be between 1 and 365")
	}

	contacts := activity.ContactIDs
	if followUp.ContactIDs != nil {
		contacts = followUp.ContactIDs
	}
	assignee := activity.AssigneeID
	if followUp.AssigneeID != uuid.Nil {
		assignee = followUp.AssigneeID
	}

	next := models.Activity{
		ID:         m.newID(),
		Type:       activity.Type,
		Method:     activity.Method,
		Subject:    subject,
		Notes:      followUp.Notes,
		DateTime:   now.AddDate(0, 0, followUp.Days),
		Status:     models.ActivityScheduled,
		Priority:   models.PriorityMedium,
		ContactIDs: contacts,
		AssigneeID: assignee,
		CreatedAt:  now,
		CreatedBy:  m.actor,
		UpdatedAt:  now,
		UpdatedBy:  m.actor,
	}

	return completed, &next, nil
}

// Cancel transitions a scheduled activity into cancelled.
func (m *ActivityManager) Cancel(activity models.Activity) (models.Activity, error) {
	if activity.Status != models.ActivityScheduled {
		return models.Activity{}, ErrTerminalStatus
	}

	now := m.Now().UTC()

	cancelled := activity
	cancelled.Status = models.ActivityCancelled
	cancelled.UpdatedAt = now
	cancelled.UpdatedBy = m.actor
	return cancelled, nil
}

func validateForm(form ActivityForm) error {
	if strings.TrimSpace(form.Subject) == "" {
		return newValidationError("subject", "must not be empty")
	}
	if form.Type != "" && !models.ValidActivityType(form.Type) {
		return newValidationError("type", "unknown activity type "+form.Type)
	}
	if form.Method != "" && !models.ValidActivityMethod(form.Method) {
		return newValidationError("method", "unknown activity method "+form.Method)
	}
	if form.Status != "" && !models.ValidActivityStatus(form.Status) {
		return newValidationError("status", "unknown activity status "+form.Status)
	}
	if form.Priority != "" {
		switch form.Priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			return newValidationError("priority", "unknown activity priority "+form.Priority)
		}
	}
	return nil
}
