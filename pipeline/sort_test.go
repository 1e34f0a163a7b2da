// ABOUTME: Tests for the canonical activity ordering
// ABOUTME: Status grouping first, then newest-first within each group
package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pipecrm/models"
)

func TestSortedActivitiesNewestFirstWithinStatus(t *testing.T) {
	t1 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

	sorted := SortedActivities([]models.Activity{
		{ID: "older", Status: models.ActivityScheduled, DateTime: t1},
		{ID: "newer", Status: models.ActivityScheduled, DateTime: t2},
	})

	require.Len(t, sorted, 2)
	assert.Equal(t, "newer", sorted[0].ID)
	assert.Equal(t, "older", sorted[1].ID)
}

func TestSortedActivitiesGroupsByStatus(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// The cancelled activity is the newest overall but still sorts last.
	sorted := SortedActivities([]models.Activity{
		{ID: "cancelled", Status: models.ActivityCancelled, DateTime: base.AddDate(0, 0, 30)},
		{ID: "completed", Status: models.ActivityCompleted, DateTime: base.AddDate(0, 0, 20)},
		{ID: "scheduled", Status: models.ActivityScheduled, DateTime: base},
	})

	require.Len(t, sorted, 3)
	assert.Equal(t, "scheduled", sorted[0].ID)
	assert.Equal(t, "completed", sorted[1].ID)
	assert.Equal(t, "cancelled", sorted[2].ID)
}

func TestSortedActivitiesLeavesInputUntouched(t *testing.T) {
	input := []models.Activity{
		{ID: "b", Status: models.ActivityCancelled},
		{ID: "a", Status: models.ActivityScheduled},
	}

	_ = SortedActivities(input)
	assert.Equal(t, "b", input[0].ID)
	assert.Equal(t, "a", input[1].ID)
}

func TestActivityLessUnknownStatusSortsLast(t *testing.T) {
	known := models.Activity{Status: models.ActivityCancelled}
	unknown := models.Activity{Status: "draft"}

	assert.True(t, ActivityLess(known, unknown))
	assert.False(t, ActivityLess(unknown, known))
}
