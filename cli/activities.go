// ABOUTME: Activity and checklist CLI commands
// ABOUTME: Log, complete, cancel, and delete activities; manage checklists
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/pipecrm/pipeline"
)

// LogActivityCommand records a new activity on an opportunity.
func LogActivityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	opportunity := fs.String("opportunity", "", "Opportunity ID (required)")
	subject := fs.String("subject", "", "Activity subject (required)")
	activityType := fs.String("type", "meeting", "Type (meeting, email, call, whatsapp, demo, workshop)")
	method := fs.String("method", "", "Method (in_person, zoom, phone, teams, email)")
	notes := fs.String("notes", "", "Free-form notes")
	when := fs.String("when", "", "Scheduled time (RFC3339, default now; past dates complete immediately)")
	priority := fs.String("priority", "", "Priority (high, medium, low)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*opportunity)
	if err != nil {
		return fmt.Errorf("invalid --opportunity: %w", err)
	}

	form := pipeline.ActivityForm{
		Type:     *activityType,
		Method:   *method,
		Subject:  *subject,
		Notes:    *notes,
		Priority: *priority,
	}
	if *when != "" {
		form.DateTime = *when
	}

	_, activity, err := app.Opportunities.LogActivity(context.Background(), oppID, form)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Printf("Logged %s activity %s (%s)\n", activity.Status, activity.Subject, activity.ID)
	return nil
}

// CompleteActivityCommand completes an activity, optionally scheduling a
// follow-up.
func CompleteActivityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("complete-activity", flag.ExitOnError)
	opportunity := fs.String("opportunity", "", "Opportunity ID (required)")
	activity := fs.String("activity", "", "Activity ID (required)")
	notes := fs.String("notes", "", "Completion notes")
	followUpSubject := fs.String("follow-up", "", "Subject for a follow-up activity")
	followUpDays := fs.Int("follow-up-days", 7, "Days until the follow-up (1-365)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*opportunity)
	if err != nil {
		return fmt.Errorf("invalid --opportunity: %w", err)
	}

	var followUp *pipeline.FollowUp
	if *followUpSubject != "" {
		followUp = &pipeline.FollowUp{
			Subject: *followUpSubject,
			Days:    *followUpDays,
		}
	}

	_, completed, next, err := app.Opportunities.CompleteActivity(context.Background(), oppID, *activity, *notes, followUp)
	if err != nil {
		return fmt.Errorf("failed to complete activity: %w", err)
	}

	fmt.Printf("Completed %s\n", completed.Subject)
	if next != nil {
		fmt.Printf("Follow-up %s scheduled for %s (%s)\n",
			next.Subject, next.DateTime.Format("2006-01-02"), next.ID)
	}
	return nil
}

// CancelActivityCommand cancels a scheduled activity.
func CancelActivityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("cancel-activity", flag.ExitOnError)
	opportunity := fs.String("opportunity", "", "Opportunity ID (required)")
	activity := fs.String("activity", "", "Activity ID (required)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*opportunity)
	if err != nil {
		return fmt.Errorf("invalid --opportunity: %w", err)
	}

	if _, err := app.Opportunities.CancelActivity(context.Background(), oppID, *activity); err != nil {
		return fmt.Errorf("failed to cancel activity: %w", err)
	}

	fmt.Printf("Cancelled activity %s\n", *activity)
	return nil
}

// DeleteActivityCommand removes an activity from an opportunity.
func DeleteActivityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-activity", flag.ExitOnError)
	opportunity := fs.String("opportunity", "", "Opportunity ID (required)")
	activity := fs.String("activity", "", "Activity ID (required)")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*opportunity)
	if err != nil {
		return fmt.Errorf("invalid --opportunity: %w", err)
	}

	if _, err := app.Opportunities.DeleteActivity(context.Background(), oppID, *activity); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	fmt.Printf("Deleted activity %s\n", *activity)
	return nil
}

// ChecklistCommand manages checklist and blocker items: add, toggle, remove.
func ChecklistCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("checklist", flag.ExitOnError)
	opportunity := fs.String("opportunity", "", "Opportunity ID (required)")
	add := fs.String("add", "", "Text for a new item")
	toggle := fs.String("toggle", "", "Item ID to toggle")
	remove := fs.String("remove", "", "Item ID to remove")
	blocker := fs.Bool("blocker", false, "Operate on the blockers list instead of the checklist")
	_ = fs.Parse(args)

	oppID, err := uuid.Parse(*opportunity)
	if err != nil {
		return fmt.Errorf("invalid --opportunity: %w", err)
	}

	kind := pipeline.KindChecklist
	if *blocker {
		kind = pipeline.KindBlockers
	}

	ctx := context.Background()
	switch {
	case *add != "":
		if _, err := app.Opportunities.AddItem(ctx, oppID, kind, *add); err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}
		fmt.Printf("Added %s item: %s\n", kind, *add)
	case *toggle != "":
		if _, err := app.Opportunities.ToggleItem(ctx, oppID, kind, *toggle); err != nil {
			return fmt.Errorf("failed to toggle item: %w", err)
		}
		fmt.Printf("Toggled %s item %s\n", kind, *toggle)
	case *remove != "":
		if _, err := app.Opportunities.RemoveItem(ctx, oppID, kind, *remove); err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		fmt.Printf("Removed %s item %s\n", kind, *remove)
	default:
		return fmt.Errorf("one of --add, --toggle, or --remove is required")
	}

	return nil
}
