// ABOUTME: Opportunity CLI commands
// ABOUTME: Human-friendly commands for managing the pipeline
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/pipeline"
)

// AddOpportunityCommand creates a new opportunity.
func AddOpportunityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-opportunity", flag.ExitOnError)
	title := fs.String("title", "", "Opportunity title (required)")
	account := fs.String("account", "", "Account name (required)")
	stage := fs.String("stage", models.StageLead, "Stage (lead, qualified, proposal, negotiation, closed_won, closed_lost)")
	priority := fs.String("priority", models.PriorityMedium, "Priority (critical, high, medium, low)")
	value := fs.Int64("value", 0, "Estimated deal value in cents")
	summary := fs.String("summary", "", "Short summary")
	closeDate := fs.String("close-date", "", "Expected close date (RFC3339)")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if *account == "" {
		return fmt.Errorf("--account is required")
	}

	ctx := context.Background()

	// Find or create the account
	existing, err := app.Accounts.FindByName(ctx, *account)
	if err != nil {
		return fmt.Errorf("failed to lookup account: %w", err)
	}
	if existing == nil {
		existing = &models.Account{Name: *account}
		if err := app.Accounts.Create(ctx, existing); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
	}

	opp := &models.Opportunity{
		Title:     *title,
		Summary:   *summary,
		Stage:     *stage,
		Priority:  *priority,
		AccountID: existing.ID,
		Value:     *value,
	}

	if *closeDate != "" {
		parsed, err := time.Parse(time.RFC3339, *closeDate)
		if err != nil {
			return fmt.Errorf("invalid --close-date (use RFC3339): %w", err)
		}
		opp.ExpectedCloseDate = &parsed
	}

	if err := app.Opportunities.Create(ctx, opp); err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}

	fmt.Printf("Created opportunity %s (%s)\n", opp.Title, opp.ID)
	return nil
}

// ListOpportunitiesCommand lists opportunities, optionally filtered by stage.
func ListOpportunitiesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-opportunities", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage")
	_ = fs.Parse(args)

	opps, err := app.Opportunities.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list opportunities: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTAGE\tPRIORITY\tVALUE\tLAST ACTIVITY")
	for _, opp := range opps {
		if *stage != "" && opp.Stage != *stage {
			continue
		}
		lastActivity := "-"
		if opp.LastActivityAt != nil {
			lastActivity = opp.LastActivityAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.2f\t%s\n",
			opp.ID.String()[:8], opp.Title, opp.Stage, opp.Priority,
			float64(opp.Value)/100, lastActivity)
	}
	return w.Flush()
}

// ShowOpportunityCommand prints one opportunity with its timeline and lists.
func ShowOpportunityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("show-opportunity", flag.ExitOnError)
	id := fs.String("id", "", "Opportunity ID (required)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}

	opp, err := app.Opportunities.Get(context.Background(), oppID)
	if err != nil {
		return err
	}

	fmt.Printf("%s [%s/%s]\n", opp.Title, opp.Stage, opp.Priority)
	if opp.Summary != "" {
		fmt.Printf("  %s\n", opp.Summary)
	}
	fmt.Printf("  Value: $%.2f\n", float64(opp.Value)/100)
	if opp.LastActivityAt != nil {
		fmt.Printf("  Last activity: %s\n", opp.LastActivityAt.Format(time.RFC3339))
	}

	if len(opp.Activities) > 0 {
		fmt.Println("\nActivities:")
		for _, a := range pipeline.SortedActivities(opp.Activities) {
			marker := " "
			switch a.Status {
			case models.ActivityCompleted:
				marker = "x"
			case models.ActivityCancelled:
				marker = "-"
			}
			fmt.Printf("  [%s] %s  %s (%s)  %s\n",
				marker, a.DateTime.Format("2006-01-02 15:04"), a.Subject, a.Type, a.ID)
		}
	}

	printItems := func(name string, items []models.ChecklistItem) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", name)
		for _, item := range items {
			marker := " "
			if item.Completed {
				marker = "x"
			}
			fmt.Printf("  [%s] %s  %s\n", marker, item.Text, item.ID)
		}
	}
	printItems("Checklist", opp.Checklist)
	printItems("Blockers", opp.Blockers)

	return nil
}

// StageCommand moves an opportunity to a new stage.
func StageCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("stage", flag.ExitOnError)
	id := fs.String("id", "", "Opportunity ID (required)")
	stage := fs.String("to", "", "New stage (required)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}
	if !models.ValidStage(*stage) {
		return fmt.Errorf("invalid --to stage: %s", *stage)
	}

	ctx := context.Background()
	opp, err := app.Opportunities.Get(ctx, oppID)
	if err != nil {
		return err
	}

	opp.Stage = *stage
	if err := app.Opportunities.Update(ctx, opp); err != nil {
		return fmt.Errorf("failed to update opportunity: %w", err)
	}

	fmt.Printf("Moved %s to %s\n", opp.Title, opp.Stage)
	return nil
}

// DeleteOpportunityCommand removes an opportunity.
func DeleteOpportunityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-opportunity", flag.ExitOnError)
	id := fs.String("id", "", "Opportunity ID (required)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}

	if err := app.Opportunities.Delete(context.Background(), oppID); err != nil {
		return err
	}

	fmt.Printf("Deleted opportunity %s\n", oppID)
	return nil
}
