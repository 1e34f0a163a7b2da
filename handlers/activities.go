// ABOUTME: Activity and checklist MCP tool handlers
// ABOUTME: Implements log_activity, complete_activity, and checklist tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/pipeline"
)

type ActivityHandlers struct {
	opportunities *pipeline.Service
}

func NewActivityHandlers(opps *pipeline.Service) *ActivityHandlers {
	return &ActivityHandlers{opportunities: opps}
}

type LogActivityInput struct {
	OpportunityID string `json:"opportunity_id" jsonschema:"Opportunity ID (required)"`
	Type          string `json:"type,omitempty" jsonschema:"Activity type: meeting, email, call, whatsapp, demo, workshop"`
	Method        string `json:"method,omitempty" jsonschema:"Method: in_person, zoom, phone, teams, email"`
	Subject       string `json:"subject" jsonschema:"Activity subject (required)"`
	Notes         string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	DateTime      string `json:"date_time,omitempty" jsonschema:"Scheduled time in ISO 8601 format (default now; past dates complete immediately)"`
	Priority      string `json:"priority,omitempty" jsonschema:"Priority: high, medium, low (default medium)"`
}

type ActivityOutput struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Subject     string  `json:"subject"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DateTime    string  `json:"date_time"`
	Notes       string  `json:"notes,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

func (h *ActivityHandlers) LogActivity(ctx context.Context, _ *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	oppID, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}

	form := pipeline.ActivityForm{
		Type:     input.Type,
		Method:   input.Method,
		Subject:  input.Subject,
		Notes:    input.Notes,
		Priority: input.Priority,
	}
	if input.DateTime != "" {
		form.DateTime = input.DateTime
	}

	_, activity, err := h.opportunities.LogActivity(ctx, oppID, form)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, activityToOutput(activity), nil
}

type CompleteActivityInput struct {
	OpportunityID   string `json:"opportunity_id" jsonschema:"Opportunity ID (required)"`
	ActivityID      string `json:"activity_id" jsonschema:"Activity ID (required)"`
	Notes           string `json:"notes,omitempty" jsonschema:"Completion notes, merged into the activity"`
	FollowUpSubject string `json:"follow_up_subject,omitempty" jsonschema:"Subject for a follow-up activity (optional)"`
	FollowUpDays    int    `json:"follow_up_days,omitempty" jsonschema:"Days until the follow-up, 1-365 (required with follow_up_subject)"`
}

type CompleteActivityOutput struct {
	Completed ActivityOutput  `json:"completed"`
	FollowUp  *ActivityOutput `json:"follow_up,omitempty"`
}

func (h *ActivityHandlers) CompleteActivity(ctx context.Context, _ *mcp.CallToolRequest, input CompleteActivityInput) (*mcp.CallToolResult, CompleteActivityOutput, error) {
	oppID, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, CompleteActivityOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}

	var followUp *pipeline.FollowUp
	if input.FollowUpSubject != "" {
		followUp = &pipeline.FollowUp{
			Subject: input.FollowUpSubject,
			Days:    input.FollowUpDays,
		}
	}

	_, completed, next, err := h.opportunities.CompleteActivity(ctx, oppID, input.ActivityID, input.Notes, followUp)
	if err != nil {
		return nil, CompleteActivityOutput{}, fmt.Errorf("failed to complete activity: %w", err)
	}

	out := CompleteActivityOutput{Completed: activityToOutput(completed)}
	if next != nil {
		fu := activityToOutput(next)
		out.FollowUp = &fu
	}
	return nil, out, nil
}

type DeleteActivityInput struct {
	OpportunityID string `json:"opportunity_id" jsonschema:"Opportunity ID (required)"`
	ActivityID    string `json:"activity_id" jsonschema:"Activity ID (required)"`
}

type DeleteActivityOutput struct {
	Deleted bool `json:"deleted"`
}

func (h *ActivityHandlers) DeleteActivity(ctx context.Context, _ *mcp.CallToolRequest, input DeleteActivityInput) (*mcp.CallToolResult, DeleteActivityOutput, error) {
	oppID, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, DeleteActivityOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}

	if _, err := h.opportunities.DeleteActivity(ctx, oppID, input.ActivityID); err != nil {
		return nil, DeleteActivityOutput{}, fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil, DeleteActivityOutput{Deleted: true}, nil
}

type ChecklistItemInput struct {
	OpportunityID string `json:"opportunity_id" jsonschema:"Opportunity ID (required)"`
	Text          string `json:"text" jsonschema:"Item text (required for add)"`
	Blocker       bool   `json:"blocker,omitempty" jsonschema:"Target the blockers list instead of the checklist"`
}

type ChecklistOutput struct {
	Checklist []ChecklistItemOutput `json:"checklist"`
	Blockers  []ChecklistItemOutput `json:"blockers"`
}

type ChecklistItemOutput struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

func (h *ActivityHandlers) AddChecklistItem(ctx context.Context, _ *mcp.CallToolRequest, input ChecklistItemInput) (*mcp.CallToolResult, ChecklistOutput, error) {
	oppID, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, ChecklistOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}

	opp, err := h.opportunities.AddItem(ctx, oppID, kindFor(input.Blocker), input.Text)
	if err != nil {
		return nil, ChecklistOutput{}, fmt.Errorf("failed to add item: %w", err)
	}
	return nil, checklistToOutput(opp), nil
}

type ToggleChecklistItemInput struct {
	OpportunityID string `json:"opportunity_id" jsonschema:"Opportunity ID (required)"`
	ItemID        string `json:"item_id" jsonschema:"Item ID (required)"`
	Blocker       bool   `json:"blocker,omitempty" jsonschema:"Target the blockers list instead of the checklist"`
}

func (h *ActivityHandlers) ToggleChecklistItem(ctx context.Context, _ *mcp.CallToolRequest, input ToggleChecklistItemInput) (*mcp.CallToolResult, ChecklistOutput, error) {
	oppID, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, ChecklistOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}

	opp, err := h.opportunities.ToggleItem(ctx, oppID, kindFor(input.Blocker), input.ItemID)
	if err != nil {
		return nil, ChecklistOutput{}, fmt.Errorf("failed to toggle item: %w", err)
	}
	return nil, checklistToOutput(opp), nil
}

func (h *ActivityHandlers) RemoveChecklistItem(ctx context.Context, _ *mcp.CallToolRequest, input ToggleChecklistItemInput) (*mcp.CallToolResult, ChecklistOutput, error) {
	oppID, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, ChecklistOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}

	opp, err := h.opportunities.RemoveItem(ctx, oppID, kindFor(input.Blocker), input.ItemID)
	if err != nil {
		return nil, ChecklistOutput{}, fmt.Errorf("failed to remove item: %w", err)
	}
	return nil, checklistToOutput(opp), nil
}

func kindFor(blocker bool) pipeline.ListKind {
	if blocker {
		return pipeline.KindBlockers
	}
	return pipeline.KindChecklist
}

func activityToOutput(a *models.Activity) ActivityOutput {
	out := ActivityOutput{
		ID:       a.ID,
		Type:     a.Type,
		Subject:  a.Subject,
		Status:   a.Status,
		Priority: a.Priority,
		DateTime: a.DateTime.Format(time.RFC3339),
		Notes:    a.Notes,
	}
	if a.CompletedAt != nil {
		s := a.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &s
	}
	return out
}

func checklistToOutput(opp *models.Opportunity) ChecklistOutput {
	return ChecklistOutput{
		Checklist: itemsToOutput(opp.Checklist),
		Blockers:  itemsToOutput(opp.Blockers),
	}
}

func itemsToOutput(items []models.ChecklistItem) []ChecklistItemOutput {
	out := make([]ChecklistItemOutput, 0, len(items))
	for _, item := range items {
		o := ChecklistItemOutput{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		}
		if item.CompletedAt != nil {
			s := item.CompletedAt.Format(time.RFC3339)
			o.CompletedAt = &s
		}
		out = append(out, o)
	}
	return out
}
