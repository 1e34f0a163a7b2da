// ABOUTME: Task CLI commands
// ABOUTME: Human-friendly commands for standalone task management
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
)

// AddTaskCommand creates a new task.
func AddTaskCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	notes := fs.String("notes", "", "Free-form notes")
	due := fs.String("due", "", "Due date (RFC3339)")
	opportunity := fs.String("opportunity", "", "Linked opportunity ID")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	task := &models.Task{
		Title: *title,
		Notes: *notes,
	}

	if *due != "" {
		parsed, err := time.Parse(time.RFC3339, *due)
		if err != nil {
			return fmt.Errorf("invalid --due (use RFC3339): %w", err)
		}
		task.DueAt = &parsed
	}

	if *opportunity != "" {
		oppID, err := uuid.Parse(*opportunity)
		if err != nil {
			return fmt.Errorf("invalid --opportunity: %w", err)
		}
		task.OpportunityID = &oppID
	}

	if err := app.Tasks.Create(context.Background(), task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("Created task %s (%s)\n", task.Title, task.ID)
	return nil
}

// ListTasksCommand lists tasks, open-only by default.
func ListTasksCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-tasks", flag.ExitOnError)
	all := fs.Bool("all", false, "Include done tasks")
	_ = fs.Parse(args)

	ctx := context.Background()
	var tasks []*models.Task
	var err error
	if *all {
		tasks, err = app.Tasks.List(ctx)
	} else {
		tasks, err = app.Tasks.ListOpen(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	now := time.Now().UTC()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE\tOVERDUE")
	for _, task := range tasks {
		due := "-"
		if task.DueAt != nil {
			due = task.DueAt.Format("2006-01-02")
		}
		overdue := ""
		if task.IsOverdue(now) {
			overdue = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			task.ID.String()[:8], task.Title, task.Status, due, overdue)
	}
	return w.Flush()
}

// CompleteTaskCommand marks a task done.
func CompleteTaskCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("complete-task", flag.ExitOnError)
	id := fs.String("id", "", "Task ID (required)")
	_ = fs.Parse(args)

	taskID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}

	task, err := app.Tasks.Complete(context.Background(), taskID)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	fmt.Printf("Completed task %s\n", task.Title)
	return nil
}
