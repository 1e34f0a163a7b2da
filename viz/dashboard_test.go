// ABOUTME: Tests for dashboard stats aggregation
// ABOUTME: Stage rollups, activity counters, and stale detection
package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pipecrm/crm"
	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/pipeline"
	"github.com/harperreed/pipecrm/store"
)

func newTestDashboard(t *testing.T) (*Dashboard, *pipeline.Service, *crm.Accounts, *crm.Tasks) {
	t.Helper()

	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cache := store.NewListCache()
	opps := pipeline.NewService(st, cache, nil, uuid.New())
	accounts := crm.NewAccounts(st, cache)
	contacts := crm.NewContacts(st, cache)
	tasks := crm.NewTasks(st, cache)

	return NewDashboard(opps, accounts, contacts, tasks), opps, accounts, tasks
}

func TestDashboardStats(t *testing.T) {
	dash, opps, accounts, tasks := newTestDashboard(t)
	ctx := context.Background()

	account := &models.Account{Name: "Acme Corp"}
	require.NoError(t, accounts.Create(ctx, account))

	first := &models.Opportunity{
		Title:     "Acme renewal",
		Stage:     models.StageProposal,
		AccountID: account.ID,
		Value:     100_000,
	}
	require.NoError(t, opps.Create(ctx, first))

	second := &models.Opportunity{
		Title:     "Acme expansion",
		Stage:     models.StageProposal,
		AccountID: account.ID,
		Value:     50_000,
	}
	require.NoError(t, opps.Create(ctx, second))

	// One scheduled activity and one open blocker on the first deal.
	_, _, err := opps.LogActivity(ctx, first.ID, pipeline.ActivityForm{
		Type:     models.ActivityCall,
		Subject:  "Renewal call",
		DateTime: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = opps.AddItem(ctx, first.ID, pipeline.KindBlockers, "Waiting on budget")
	require.NoError(t, err)

	require.NoError(t, tasks.Create(ctx, &models.Task{Title: "Prep renewal deck"}))

	stats, err := dash.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalAccounts)
	assert.Equal(t, 2, stats.TotalOpportunities)
	assert.Equal(t, 1, stats.OpenTasks)
	assert.Equal(t, 1, stats.ScheduledActivities)
	assert.Equal(t, 1, stats.OpenBlockers)

	proposal := stats.PipelineByStage[models.StageProposal]
	assert.Equal(t, 2, proposal.Count)
	assert.Equal(t, int64(150_000), proposal.Value)

	// Fresh deals are not flagged.
	assert.Empty(t, stats.StaleOpportunities)
}

func TestDashboardRender(t *testing.T) {
	dash, _, _, _ := newTestDashboard(t)

	out := dash.Render(&DashboardStats{
		PipelineByStage: map[string]StageStats{
			models.StageLead: {Stage: models.StageLead, Count: 3, Value: 300_00},
		},
		TotalAccounts: 2,
		StaleOpportunities: []StaleOpportunity{
			{Title: "Dormant deal", Stage: models.StageLead, DaysSince: 30},
		},
	})

	assert.True(t, strings.Contains(out, "lead"))
	assert.True(t, strings.Contains(out, "3 deals"))
	assert.True(t, strings.Contains(out, "Needs attention"))
	assert.True(t, strings.Contains(out, "Dormant deal"))
	assert.True(t, strings.Contains(out, "30 days"))
}
