// ABOUTME: Opportunity MCP tool handlers
// ABOUTME: Implements create_opportunity, update_opportunity_stage, and find_opportunities
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pipecrm/crm"
	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/pipeline"
)

type OpportunityHandlers struct {
	opportunities *pipeline.Service
	accounts      *crm.Accounts
}

func NewOpportunityHandlers(opps *pipeline.Service, accounts *crm.Accounts) *OpportunityHandlers {
	return &OpportunityHandlers{opportunities: opps, accounts: accounts}
}

type CreateOpportunityInput struct {
	Title             string   `json:"title" jsonschema:"Opportunity title (required)"`
	Summary           string   `json:"summary,omitempty" jsonschema:"Short summary"`
	Stage             string   `json:"stage,omitempty" jsonschema:"Stage: lead, qualified, proposal, negotiation, closed_won, closed_lost"`
	Priority          string   `json:"priority,omitempty" jsonschema:"Priority: critical, high, medium, low"`
	AccountName       string   `json:"account_name" jsonschema:"Account name (required, will be created if not found)"`
	Value             int64    `json:"value,omitempty" jsonschema:"Estimated deal value in cents"`
	ExpectedCloseDate string   `json:"expected_close_date,omitempty" jsonschema:"Expected close date in ISO 8601 format"`
	Tags              []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
}

type OpportunityOutput struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Stage             string  `json:"stage"`
	Priority          string  `json:"priority"`
	AccountID         string  `json:"account_id"`
	Value             int64   `json:"value,omitempty"`
	ExpectedCloseDate *string `json:"expected_close_date,omitempty"`
	LastActivityAt    *string `json:"last_activity_at,omitempty"`
	Activities        int     `json:"activities"`
	OpenChecklist     int     `json:"open_checklist"`
	OpenBlockers      int     `json:"open_blockers"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func (h *OpportunityHandlers) CreateOpportunity(ctx context.Context, _ *mcp.CallToolRequest, input CreateOpportunityInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	if input.Title == "" {
		return nil, OpportunityOutput{}, fmt.Errorf("title is required")
	}
	if input.AccountName == "" {
		return nil, OpportunityOutput{}, fmt.Errorf("account_name is required")
	}

	account, err := h.accounts.FindByName(ctx, input.AccountName)
	if err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to lookup account: %w", err)
	}
	if account == nil {
		account = &models.Account{Name: input.AccountName}
		if err := h.accounts.Create(ctx, account); err != nil {
			return nil, OpportunityOutput{}, fmt.Errorf("failed to create account: %w", err)
		}
	}

	opp := &models.Opportunity{
		Title:     input.Title,
		Summary:   input.Summary,
		Stage:     input.Stage,
		Priority:  input.Priority,
		AccountID: account.ID,
		Value:     input.Value,
		Tags:      input.Tags,
	}

	if input.ExpectedCloseDate != "" {
		parsed, err := time.Parse(time.RFC3339, input.ExpectedCloseDate)
		if err != nil {
			return nil, OpportunityOutput{}, fmt.Errorf("invalid expected_close_date format (use ISO 8601/RFC3339): %w", err)
		}
		opp.ExpectedCloseDate = &parsed
	}

	if err := h.opportunities.Create(ctx, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to create opportunity: %w", err)
	}

	return nil, opportunityToOutput(opp), nil
}

type UpdateOpportunityStageInput struct {
	OpportunityID string `json:"opportunity_id" jsonschema:"Opportunity ID (required)"`
	Stage         string `json:"stage" jsonschema:"New stage: lead, qualified, proposal, negotiation, closed_won, closed_lost"`
}

func (h *OpportunityHandlers) UpdateOpportunityStage(ctx context.Context, _ *mcp.CallToolRequest, input UpdateOpportunityStageInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	id, err := uuid.Parse(input.OpportunityID)
	if err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("invalid opportunity_id: %w", err)
	}
	if !models.ValidStage(input.Stage) {
		return nil, OpportunityOutput{}, fmt.Errorf("invalid stage: %s (valid: lead, qualified, proposal, negotiation, closed_won, closed_lost)", input.Stage)
	}

	opp, err := h.opportunities.Get(ctx, id)
	if err != nil {
		return nil, OpportunityOutput{}, err
	}

	opp.Stage = input.Stage
	if err := h.opportunities.Update(ctx, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to update opportunity: %w", err)
	}

	return nil, opportunityToOutput(opp), nil
}

type FindOpportunitiesInput struct {
	Stage string `json:"stage,omitempty" jsonschema:"Filter by stage (optional)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 10)"`
}

type FindOpportunitiesOutput struct {
	Opportunities []OpportunityOutput `json:"opportunities"`
	Count         int                 `json:"count"`
}

func (h *OpportunityHandlers) FindOpportunities(ctx context.Context, _ *mcp.CallToolRequest, input FindOpportunitiesInput) (*mcp.CallToolResult, FindOpportunitiesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opps, err := h.opportunities.List(ctx)
	if err != nil {
		return nil, FindOpportunitiesOutput{}, fmt.Errorf("failed to list opportunities: %w", err)
	}

	out := FindOpportunitiesOutput{Opportunities: make([]OpportunityOutput, 0, limit)}
	for _, opp := range opps {
		if input.Stage != "" && opp.Stage != input.Stage {
			continue
		}
		out.Opportunities = append(out.Opportunities, opportunityToOutput(opp))
		if len(out.Opportunities) >= limit {
			break
		}
	}
	out.Count = len(out.Opportunities)

	return nil, out, nil
}

func opportunityToOutput(opp *models.Opportunity) OpportunityOutput {
	out := OpportunityOutput{
		ID:            opp.ID.String(),
		Title:         opp.Title,
		Stage:         opp.Stage,
		Priority:      opp.Priority,
		AccountID:     opp.AccountID.String(),
		Value:         opp.Value,
		Activities:    len(opp.Activities),
		OpenChecklist: countOpenItems(opp.Checklist),
		OpenBlockers:  countOpenItems(opp.Blockers),
		CreatedAt:     opp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     opp.UpdatedAt.Format(time.RFC3339),
	}
	if opp.ExpectedCloseDate != nil {
		s := opp.ExpectedCloseDate.Format(time.RFC3339)
		out.ExpectedCloseDate = &s
	}
	if opp.LastActivityAt != nil {
		s := opp.LastActivityAt.Format(time.RFC3339)
		out.LastActivityAt = &s
	}
	return out
}

func countOpenItems(items []models.ChecklistItem) int {
	open := 0
	for _, item := range items {
		if !item.Completed {
			open++
		}
	}
	return open
}
