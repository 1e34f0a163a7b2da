// ABOUTME: Canonical activity list ordering
// ABOUTME: Status-grouped (scheduled, completed, cancelled) then newest first
package pipeline

import (
	"sort"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/timeutil"
)

// statusRank gives the fixed status precedence for display:
// scheduled < completed < cancelled.
func statusRank(status string) int {
	switch status {
	case models.ActivityScheduled:
		return 0
	case models.ActivityCompleted:
		return 1
	case models.ActivityCancelled:
		return 2
	}
	return 3
}

// ActivityLess is the single ordering policy for activity lists: primary key
// status (scheduled first, cancelled last), secondary key date-time
// descending within each status group. Every consumer rendering an activity
// list routes through this comparator.
func ActivityLess(a, b models.Activity) bool {
	ra, rb := statusRank(a.Status), statusRank(b.Status)
	if ra != rb {
		return ra < rb
	}
	return timeutil.ToEpochMillis(a.DateTime) > timeutil.ToEpochMillis(b.DateTime)
}

// SortedActivities returns a sorted copy; the input is left untouched.
func SortedActivities(activities []models.Activity) []models.Activity {
	sorted := make([]models.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ActivityLess(sorted[i], sorted[j])
	})
	return sorted
}
