// ABOUTME: Checklist and blocker manager for opportunity embedded lists
// ABOUTME: Add, toggle, and remove operations parameterized by target list
package pipeline

import (
	"strings"
	"time"

	"github.com/harperreed/pipecrm/models"
)

// ListKind selects which embedded list a checklist operation targets.
// Checklist items are to-dos; blockers are unresolved obstacles. The two
// lists share one item shape and one contract.
type ListKind string

const (
	KindChecklist ListKind = "checklist"
	KindBlockers  ListKind = "blockers"
)

// ChecklistManager owns add/toggle/remove on an opportunity's checklist and
// blocker lists. All operations are pure over the aggregate.
type ChecklistManager struct {
	ids interface{ newID() string }

	// Now is the clock; override in tests.
	Now func() time.Time
}

// NewChecklistManager returns a manager sharing the activity manager's ID
// generator so item IDs stay unique within one opportunity.
func NewChecklistManager(activities *ActivityManager) *ChecklistManager {
	return &ChecklistManager{
		ids: activities,
		Now: time.Now,
	}
}

// Add appends a new item. Empty or whitespace-only text is a no-op, not an
// error; the returned flag reports whether anything was added.
func (m *ChecklistManager) Add(o models.Opportunity, kind ListKind, text string) (models.Opportunity, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return o, false
	}

	item := models.ChecklistItem{
		ID:        m.ids.newID(),
		Text:      trimmed,
		Completed: false,
		CreatedAt: m.Now().UTC(),
	}

	if kind == KindBlockers {
		return o.WithBlocker(item), true
	}
	return o.WithChecklistItem(item), true
}

// Toggle flips an item's completed flag, setting or clearing CompletedAt
// atomically with it. Returns ErrItemNotFound for unknown IDs.
func (m *ChecklistManager) Toggle(o models.Opportunity, kind ListKind, id string) (models.Opportunity, error) {
	if !hasItem(itemsFor(o, kind), id) {
		return o, ErrItemNotFound
	}

	now := m.Now().UTC()
	if kind == KindBlockers {
		return o.ToggledBlocker(id, now), nil
	}
	return o.ToggledChecklistItem(id, now), nil
}

// Remove deletes an item unconditionally. Confirmation is a caller concern.
func (m *ChecklistManager) Remove(o models.Opportunity, kind ListKind, id string) (models.Opportunity, error) {
	if !hasItem(itemsFor(o, kind), id) {
		return o, ErrItemNotFound
	}

	if kind == KindBlockers {
		return o.WithoutBlocker(id), nil
	}
	return o.WithoutChecklistItem(id), nil
}

func itemsFor(o models.Opportunity, kind ListKind) []models.ChecklistItem {
	if kind == KindBlockers {
		return o.Blockers
	}
	return o.Checklist
}

func hasItem(items []models.ChecklistItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
