// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements create_task, complete_task, and list_open_tasks
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pipecrm/crm"
	"github.com/harperreed/pipecrm/models"
)

type TaskHandlers struct {
	tasks *crm.Tasks
}

func NewTaskHandlers(tasks *crm.Tasks) *TaskHandlers {
	return &TaskHandlers{tasks: tasks}
}

type CreateTaskInput struct {
	Title         string `json:"title" jsonschema:"Task title (required)"`
	Notes         string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	DueAt         string `json:"due_at,omitempty" jsonschema:"Due date in ISO 8601 format"`
	OpportunityID string `json:"opportunity_id,omitempty" jsonschema:"Linked opportunity ID"`
}

type TaskOutput struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	DueAt       *string `json:"due_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	Overdue     bool    `json:"overdue"`
}

func (h *TaskHandlers) CreateTask(ctx context.Context, _ *mcp.CallToolRequest, input CreateTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.Title == "" {
		return nil, TaskOutput{}, fmt.Errorf("title is required")
	}

	task := &models.Task{
		Title: input.Title,
		Notes: input.Notes,
	}

	if input.DueAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.DueAt)
		if err != nil {
			return nil, TaskOutput{}, fmt.Errorf("invalid due_at format (use ISO 8601/RFC3339): %w", err)
		}
		task.DueAt = &parsed
	}

	if input.OpportunityID != "" {
		oppID, err := uuid.Parse(input.OpportunityID)
		if err != nil {
			return nil, TaskOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
		}
		task.OpportunityID = &oppID
	}

	if err := h.tasks.Create(ctx, task); err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	return nil, taskToOutput(task), nil
}

type CompleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"Task ID (required)"`
}

func (h *TaskHandlers) CompleteTask(ctx context.Context, _ *mcp.CallToolRequest, input CompleteTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	id, err := uuid.Parse(input.TaskID)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("invalid task_id: %w", err)
	}

	task, err := h.tasks.Complete(ctx, id)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to complete task: %w", err)
	}
	return nil, taskToOutput(task), nil
}

type ListOpenTasksInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum results (default 20)"`
}

type ListOpenTasksOutput struct {
	Tasks []TaskOutput `json:"tasks"`
	Count int          `json:"count"`
}

func (h *TaskHandlers) ListOpenTasks(ctx context.Context, _ *mcp.CallToolRequest, input ListOpenTasksInput) (*mcp.CallToolResult, ListOpenTasksOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	tasks, err := h.tasks.ListOpen(ctx)
	if err != nil {
		return nil, ListOpenTasksOutput{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := ListOpenTasksOutput{Tasks: make([]TaskOutput, 0, limit)}
	for _, task := range tasks {
		out.Tasks = append(out.Tasks, taskToOutput(task))
		if len(out.Tasks) >= limit {
			break
		}
	}
	out.Count = len(out.Tasks)
	return nil, out, nil
}

func taskToOutput(task *models.Task) TaskOutput {
	out := TaskOutput{
		ID:      task.ID.String(),
		Title:   task.Title,
		Status:  task.Status,
		Overdue: task.IsOverdue(time.Now().UTC()),
	}
	if task.DueAt != nil {
		s := task.DueAt.Format(time.RFC3339)
		out.DueAt = &s
	}
	if task.CompletedAt != nil {
		s := task.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &s
	}
	return out
}
