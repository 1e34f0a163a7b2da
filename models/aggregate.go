// ABOUTME: Pure aggregate operations on the Opportunity root
// ABOUTME: Every operation returns a new value and recomputes derived fields
package models

import (
	"time"

	"github.com/harperreed/pipecrm/timeutil"
)

// WithActivity returns a copy of the opportunity with the activity inserted
// (unseen ID) or replaced (matching ID), and LastActivityAt recomputed.
func (o Opportunity) WithActivity(a Activity) Opportunity {
	activities := make([]Activity, 0, len(o.Activities)+1)
	replaced := false
	for _, existing := range o.Activities {
		if existing.ID == a.ID {
			activities = append(activities, a)
			replaced = true
			continue
		}
		activities = append(activities, existing)
	}
	if !replaced {
		activities = append(activities, a)
	}

	o.Activities = activities
	o.LastActivityAt = lastActivityAt(activities)
	return o
}

// WithoutActivity returns a copy of the opportunity with the activity
// removed, and LastActivityAt recomputed.
func (o Opportunity) WithoutActivity(id string) Opportunity {
	activities := make([]Activity, 0, len(o.Activities))
	for _, existing := range o.Activities {
		if existing.ID != id {
			activities = append(activities, existing)
		}
	}

	o.Activities = activities
	o.LastActivityAt = lastActivityAt(activities)
	return o
}

// WithChecklistItem returns a copy with the item inserted or replaced in the
// checklist.
func (o Opportunity) WithChecklistItem(item ChecklistItem) Opportunity {
	o.Checklist = upsertItem(o.Checklist, item)
	return o
}

// WithoutChecklistItem returns a copy with the item removed from the
// checklist.
func (o Opportunity) WithoutChecklistItem(id string) Opportunity {
	o.Checklist = removeItem(o.Checklist, id)
	return o
}

// ToggledChecklistItem returns a copy with the item's completed flag flipped.
// CompletedAt is set or cleared atomically with the flag.
func (o Opportunity) ToggledChecklistItem(id string, now time.Time) Opportunity {
	o.Checklist = toggleItem(o.Checklist, id, now)
	return o
}

// WithBlocker returns a copy with the item inserted or replaced in the
// blockers list.
func (o Opportunity) WithBlocker(item ChecklistItem) Opportunity {
	o.Blockers = upsertItem(o.Blockers, item)
	return o
}

// WithoutBlocker returns a copy with the item removed from the blockers list.
func (o Opportunity) WithoutBlocker(id string) Opportunity {
	o.Blockers = removeItem(o.Blockers, id)
	return o
}

// ToggledBlocker returns a copy with the blocker's completed flag flipped.
func (o Opportunity) ToggledBlocker(id string, now time.Time) Opportunity {
	o.Blockers = toggleItem(o.Blockers, id, now)
	return o
}

// lastActivityAt is the maximum DateTime across activities, or nil when
// there are none. Comparison goes through the timestamp normalizer like
// every other date compare in the module.
func lastActivityAt(activities []Activity) *time.Time {
	if len(activities) == 0 {
		return nil
	}

	latest := activities[0].DateTime
	latestMillis := timeutil.ToEpochMillis(latest)
	for _, a := range activities[1:] {
		if millis := timeutil.ToEpochMillis(a.DateTime); millis > latestMillis {
			latest = a.DateTime
			latestMillis = millis
		}
	}
	return &latest
}

func upsertItem(items []ChecklistItem, item ChecklistItem) []ChecklistItem {
	result := make([]ChecklistItem, 0, len(items)+1)
	replaced := false
	for _, existing := range items {
		if existing.ID == item.ID {
			result = append(result, item)
			replaced = true
			continue
		}
		result = append(result, existing)
	}
	if !replaced {
		result = append(result, item)
	}
	return result
}

func removeItem(items []ChecklistItem, id string) []ChecklistItem {
	result := make([]ChecklistItem, 0, len(items))
	for _, existing := range items {
		if existing.ID != id {
			result = append(result, existing)
		}
	}
	return result
}

func toggleItem(items []ChecklistItem, id string, now time.Time) []ChecklistItem {
	result := make([]ChecklistItem, len(items))
	for i, existing := range items {
		if existing.ID == id {
			existing.Completed = !existing.Completed
			if existing.Completed {
				completedAt := now
				existing.CompletedAt = &completedAt
			} else {
				existing.CompletedAt = nil
			}
		}
		result[i] = existing
	}
	return result
}
