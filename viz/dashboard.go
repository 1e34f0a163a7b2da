// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII pipeline overview by stage plus attention lists
package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/pipecrm/crm"
	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/pipeline"
)

// Stale thresholds for the needs-attention section.
const staleAfterDays = 14

type DashboardStats struct {
	PipelineByStage map[string]StageStats

	TotalAccounts      int
	TotalContacts      int
	TotalOpportunities int
	OpenTasks          int

	ScheduledActivities int
	OpenBlockers        int

	StaleOpportunities []StaleOpportunity
}

type StageStats struct {
	Stage string
	Count int
	Value int64 // in cents
}

type StaleOpportunity struct {
	Title     string
	Stage     string
	DaysSince int
}

// Dashboard aggregates stats across the CRM collections.
type Dashboard struct {
	opportunities *pipeline.Service
	accounts      *crm.Accounts
	contacts      *crm.Contacts
	tasks         *crm.Tasks
}

func NewDashboard(opps *pipeline.Service, accounts *crm.Accounts, contacts *crm.Contacts, tasks *crm.Tasks) *Dashboard {
	return &Dashboard{
		opportunities: opps,
		accounts:      accounts,
		contacts:      contacts,
		tasks:         tasks,
	}
}

func (d *Dashboard) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		PipelineByStage: make(map[string]StageStats),
	}

	opps, err := d.opportunities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	now := time.Now().UTC()
	for _, opp := range opps {
		sstats := stats.PipelineByStage[opp.Stage]
		sstats.Stage = opp.Stage
		sstats.Count++
		sstats.Value += opp.Value
		stats.PipelineByStage[opp.Stage] = sstats

		for _, a := range opp.Activities {
			if a.Status == models.ActivityScheduled {
				stats.ScheduledActivities++
			}
		}
		for _, b := range opp.Blockers {
			if !b.Completed {
				stats.OpenBlockers++
			}
		}

		if opp.Stage != models.StageClosedWon && opp.Stage != models.StageClosedLost {
			since := opp.CreatedAt
			if opp.LastActivityAt != nil {
				since = *opp.LastActivityAt
			}
			days := int(now.Sub(since).Hours() / 24)
			if days >= staleAfterDays {
				stats.StaleOpportunities = append(stats.StaleOpportunities, StaleOpportunity{
					Title:     opp.Title,
					Stage:     opp.Stage,
					DaysSince: days,
				})
			}
		}
	}
	stats.TotalOpportunities = len(opps)

	accounts, err := d.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	stats.TotalAccounts = len(accounts)

	contacts, err := d.contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	stats.TotalContacts = len(contacts)

	open, err := d.tasks.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	stats.OpenTasks = len(open)

	return stats, nil
}

// Render formats the stats as an ASCII dashboard.
func (d *Dashboard) Render(stats *DashboardStats) string {
	var b strings.Builder

	b.WriteString("PIPELINE DASHBOARD\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("Pipeline by stage:\n")
	for _, stage := range []string{
		models.StageLead, models.StageQualified, models.StageProposal,
		models.StageNegotiation, models.StageClosedWon, models.StageClosedLost,
	} {
		sstats, ok := stats.PipelineByStage[stage]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-14s %3d deals  $%.2f\n",
			stage, sstats.Count, float64(sstats.Value)/100))
	}

	b.WriteString(fmt.Sprintf("\nAccounts: %d  Contacts: %d  Opportunities: %d  Open tasks: %d\n",
		stats.TotalAccounts, stats.TotalContacts, stats.TotalOpportunities, stats.OpenTasks))
	b.WriteString(fmt.Sprintf("Scheduled activities: %d  Open blockers: %d\n",
		stats.ScheduledActivities, stats.OpenBlockers))

	if len(stats.StaleOpportunities) > 0 {
		b.WriteString("\nNeeds attention:\n")
		for _, stale := range stats.StaleOpportunities {
			b.WriteString(fmt.Sprintf("  %s (%s) - no activity for %d days\n",
				stale.Title, stale.Stage, stale.DaysSince))
		}
	}

	return b.String()
}
