// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Account, Contact, Opportunity, Activity, Task, and Product structs
package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Contact struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role,omitempty"`
	AccountID       *uuid.UUID `json:"account_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku,omitempty"`
	Description string    `json:"description,omitempty"`
	UnitPrice   int64     `json:"unit_price,omitempty"` // in cents
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Opportunity is the aggregate root of the pipeline. Activities, checklist
// items, and blockers are embedded and only ever persisted as whole arrays.
type Opportunity struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	Summary           string          `json:"summary,omitempty"`
	Stage             string          `json:"stage"`
	Priority          string          `json:"priority"`
	AccountID         uuid.UUID       `json:"account_id"`
	ProductID         *uuid.UUID      `json:"product_id,omitempty"`
	ContactIDs        []uuid.UUID     `json:"contact_ids,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	CommercialModel   string          `json:"commercial_model,omitempty"`
	PotentialVolume   string          `json:"potential_volume,omitempty"`
	Value             int64           `json:"value,omitempty"` // in cents
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	OwnerID           uuid.UUID       `json:"owner_id,omitempty"`
	Activities        []Activity      `json:"activities,omitempty"`
	Checklist         []ChecklistItem `json:"checklist,omitempty"`
	Blockers          []ChecklistItem `json:"blockers,omitempty"`
	LastActivityAt    *time.Time      `json:"last_activity_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Activity is an interaction embedded in an opportunity. IDs are ULIDs,
// unique within one opportunity's embedded arrays.
type Activity struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	Method         string      `json:"method,omitempty"`
	Subject        string      `json:"subject"`
	Notes          string      `json:"notes,omitempty"`
	DateTime       time.Time   `json:"date_time"`
	Status         string      `json:"status"`
	Priority       string      `json:"priority"`
	ContactIDs     []uuid.UUID `json:"contact_ids,omitempty"`
	AssigneeID     uuid.UUID   `json:"assignee_id,omitempty"`
	FollowUpNeeded bool        `json:"follow_up_needed"` // legacy, always false going forward
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	CreatedBy      uuid.UUID   `json:"created_by,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at"`
	UpdatedBy      uuid.UUID   `json:"updated_by,omitempty"`
}

// ChecklistItem is a to-do embedded in an opportunity. The same shape backs
// blockers, which track unresolved obstacles rather than to-dos.
type ChecklistItem struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Task struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	AssigneeID    uuid.UUID  `json:"assignee_id,omitempty"`
	OpportunityID *uuid.UUID `json:"opportunity_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Opportunity stages. StageLegacyDiscovery only appears in documents written
// by the old client and is migrated to StageQualified on load.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"

	StageLegacyDiscovery = "discovery"
)

// Opportunity priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Activity types.
const (
	ActivityMeeting  = "meeting"
	ActivityEmail    = "email"
	ActivityCall     = "call"
	ActivityWhatsApp = "whatsapp"
	ActivityDemo     = "demo"
	ActivityWorkshop = "workshop"
)

// Activity methods.
const (
	MethodInPerson = "in_person"
	MethodZoom     = "zoom"
	MethodPhone    = "phone"
	MethodTeams    = "teams"
	MethodEmail    = "email"
)

// Activity statuses. Transitions only flow scheduled -> completed or
// scheduled -> cancelled; both end states are terminal.
const (
	ActivityScheduled = "scheduled"
	ActivityCompleted = "completed"
	ActivityCancelled = "cancelled"
)

// Task statuses.
const (
	TaskOpen = "open"
	TaskDone = "done"
)

// Store collection names.
const (
	CollectionAccounts      = "accounts"
	CollectionContacts      = "contacts"
	CollectionOpportunities = "opportunities"
	CollectionTasks         = "tasks"
	CollectionProducts      = "products"
)

// ValidStage reports whether s is a canonical (non-legacy) stage.
func ValidStage(s string) bool {
	switch s {
	case StageLead, StageQualified, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// MigrateStage maps legacy stage values onto the canonical enumeration.
func MigrateStage(s string) string {
	if s == StageLegacyDiscovery {
		return StageQualified
	}
	return s
}

// ValidPriority reports whether p is a known opportunity priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityMeeting, ActivityEmail, ActivityCall, ActivityWhatsApp, ActivityDemo, ActivityWorkshop:
		return true
	}
	return false
}

// ValidActivityMethod reports whether m is a known activity method.
func ValidActivityMethod(m string) bool {
	switch m {
	case MethodInPerson, MethodZoom, MethodPhone, MethodTeams, MethodEmail:
		return true
	}
	return false
}

// ValidActivityStatus reports whether s is a known activity status.
func ValidActivityStatus(s string) bool {
	switch s {
	case ActivityScheduled, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// IsOverdue returns true if the task is past its due date and still open.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == TaskDone || t.DueAt == nil {
		return false
	}
	return now.After(*t.DueAt)
}
