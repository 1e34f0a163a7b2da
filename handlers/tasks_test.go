// ABOUTME: Tests for task MCP tool handlers
// ABOUTME: Task creation, completion, and open-task listing
package handlers

import (
	"context"
	"testing"
	"time"
)

func TestCreateTask(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewTaskHandlers(env.tasks)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	_, out, err := handler.CreateTask(ctx, nil, CreateTaskInput{
		Title: "Prep renewal deck",
		DueAt: due,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if out.Status != "open" {
		t.Errorf("expected open status, got %q", out.Status)
	}
	if out.DueAt == nil {
		t.Error("due_at was not set")
	}
	if out.Overdue {
		t.Error("future task should not be overdue")
	}

	if _, _, err := handler.CreateTask(ctx, nil, CreateTaskInput{}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, _, err := handler.CreateTask(ctx, nil, CreateTaskInput{Title: "x", DueAt: "tomorrow"}); err == nil {
		t.Error("expected error for bad due_at")
	}
}

func TestCreateOverdueTask(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewTaskHandlers(env.tasks)

	past := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	_, out, err := handler.CreateTask(context.Background(), nil, CreateTaskInput{
		Title: "Missed follow-up",
		DueAt: past,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if !out.Overdue {
		t.Error("past-due open task should be overdue")
	}
}

func TestCompleteTask(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewTaskHandlers(env.tasks)
	ctx := context.Background()

	_, created, err := handler.CreateTask(ctx, nil, CreateTaskInput{Title: "Send contract"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	_, out, err := handler.CompleteTask(ctx, nil, CompleteTaskInput{TaskID: created.ID})
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if out.Status != "done" {
		t.Errorf("expected done status, got %q", out.Status)
	}
	if out.CompletedAt == nil {
		t.Error("completed_at was not set")
	}

	if _, _, err := handler.CompleteTask(ctx, nil, CompleteTaskInput{TaskID: "bad"}); err == nil {
		t.Error("expected error for invalid task_id")
	}
}

func TestListOpenTasks(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewTaskHandlers(env.tasks)
	ctx := context.Background()

	_, first, err := handler.CreateTask(ctx, nil, CreateTaskInput{Title: "First"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, _, err := handler.CreateTask(ctx, nil, CreateTaskInput{Title: "Second"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, _, err := handler.CompleteTask(ctx, nil, CompleteTaskInput{TaskID: first.ID}); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	_, out, err := handler.ListOpenTasks(ctx, nil, ListOpenTasksInput{})
	if err != nil {
		t.Fatalf("ListOpenTasks failed: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 open task, got %d", out.Count)
	}
	if out.Tasks[0].Title != "Second" {
		t.Errorf("expected 'Second', got %q", out.Tasks[0].Title)
	}
}
