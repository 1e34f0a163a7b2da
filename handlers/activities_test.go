// ABOUTME: Tests for activity and checklist MCP tool handlers
// ABOUTME: Activity logging, completion with follow-ups, and checklist tools
package handlers

import (
	"context"
	"testing"
	"time"
)

func createTestOpportunity(t *testing.T, env *testEnv) string {
	t.Helper()
	handler := NewOpportunityHandlers(env.opportunities, env.accounts)
	_, out, err := handler.CreateOpportunity(context.Background(), nil, CreateOpportunityInput{
		Title:       "Test deal",
		AccountName: "Acme",
	})
	if err != nil {
		t.Fatalf("CreateOpportunity failed: %v", err)
	}
	return out.ID
}

func TestLogActivity(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	ctx := context.Background()
	oppID := createTestOpportunity(t, env)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	_, out, err := handler.LogActivity(ctx, nil, LogActivityInput{
		OpportunityID: oppID,
		Type:          "call",
		Subject:       "Intro call",
		DateTime:      future,
	})
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	if out.Subject != "Intro call" {
		t.Errorf("expected subject 'Intro call', got %q", out.Subject)
	}
	if out.Status != "scheduled" {
		t.Errorf("expected scheduled status, got %q", out.Status)
	}
	if out.ID == "" {
		t.Error("activity ID was not set")
	}
}

func TestLogActivityPastDate(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	oppID := createTestOpportunity(t, env)

	past := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	_, out, err := handler.LogActivity(context.Background(), nil, LogActivityInput{
		OpportunityID: oppID,
		Type:          "meeting",
		Subject:       "Yesterday's meeting",
		DateTime:      past,
	})
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	if out.Status != "completed" {
		t.Errorf("expected past activity to complete, got %q", out.Status)
	}
	if out.CompletedAt == nil {
		t.Error("completed_at was not set")
	}
}

func TestLogActivityInvalidInput(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	ctx := context.Background()
	oppID := createTestOpportunity(t, env)

	if _, _, err := handler.LogActivity(ctx, nil, LogActivityInput{OpportunityID: "bad", Subject: "x"}); err == nil {
		t.Error("expected error for invalid opportunity_id")
	}
	if _, _, err := handler.LogActivity(ctx, nil, LogActivityInput{OpportunityID: oppID}); err == nil {
		t.Error("expected error for missing subject")
	}
}

func TestCompleteActivityWithFollowUp(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	ctx := context.Background()
	oppID := createTestOpportunity(t, env)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	_, logged, err := handler.LogActivity(ctx, nil, LogActivityInput{
		OpportunityID: oppID,
		Type:          "demo",
		Subject:       "Product demo",
		DateTime:      future,
	})
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	_, out, err := handler.CompleteActivity(ctx, nil, CompleteActivityInput{
		OpportunityID:   oppID,
		ActivityID:      logged.ID,
		Notes:           "Demo went well",
		FollowUpSubject: "Send recap",
		FollowUpDays:    7,
	})
	if err != nil {
		t.Fatalf("CompleteActivity failed: %v", err)
	}

	if out.Completed.Status != "completed" {
		t.Errorf("expected completed status, got %q", out.Completed.Status)
	}
	if out.FollowUp == nil {
		t.Fatal("follow-up was not created")
	}
	if out.FollowUp.Subject != "Send recap" {
		t.Errorf("expected follow-up subject 'Send recap', got %q", out.FollowUp.Subject)
	}
	if out.FollowUp.Status != "scheduled" {
		t.Errorf("expected scheduled follow-up, got %q", out.FollowUp.Status)
	}

	// Completing a second time hits the terminal status.
	_, _, err = handler.CompleteActivity(ctx, nil, CompleteActivityInput{
		OpportunityID: oppID,
		ActivityID:    logged.ID,
	})
	if err == nil {
		t.Error("expected error completing an already completed activity")
	}
}

func TestDeleteActivity(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	ctx := context.Background()
	oppID := createTestOpportunity(t, env)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	_, logged, err := handler.LogActivity(ctx, nil, LogActivityInput{
		OpportunityID: oppID,
		Subject:       "To be deleted",
		DateTime:      future,
	})
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	_, out, err := handler.DeleteActivity(ctx, nil, DeleteActivityInput{
		OpportunityID: oppID,
		ActivityID:    logged.ID,
	})
	if err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	if !out.Deleted {
		t.Error("expected deleted flag")
	}

	_, _, err = handler.DeleteActivity(ctx, nil, DeleteActivityInput{
		OpportunityID: oppID,
		ActivityID:    logged.ID,
	})
	if err == nil {
		t.Error("expected error deleting a missing activity")
	}
}

func TestChecklistTools(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	ctx := context.Background()
	oppID := createTestOpportunity(t, env)

	_, out, err := handler.AddChecklistItem(ctx, nil, ChecklistItemInput{
		OpportunityID: oppID,
		Text:          "Send proposal",
	})
	if err != nil {
		t.Fatalf("AddChecklistItem failed: %v", err)
	}
	if len(out.Checklist) != 1 {
		t.Fatalf("expected 1 checklist item, got %d", len(out.Checklist))
	}
	itemID := out.Checklist[0].ID

	_, out, err = handler.ToggleChecklistItem(ctx, nil, ToggleChecklistItemInput{
		OpportunityID: oppID,
		ItemID:        itemID,
	})
	if err != nil {
		t.Fatalf("ToggleChecklistItem failed: %v", err)
	}
	if !out.Checklist[0].Completed {
		t.Error("expected item to be completed")
	}
	if out.Checklist[0].CompletedAt == nil {
		t.Error("completed_at was not set")
	}

	_, out, err = handler.RemoveChecklistItem(ctx, nil, ToggleChecklistItemInput{
		OpportunityID: oppID,
		ItemID:        itemID,
	})
	if err != nil {
		t.Fatalf("RemoveChecklistItem failed: %v", err)
	}
	if len(out.Checklist) != 0 {
		t.Errorf("expected empty checklist, got %d items", len(out.Checklist))
	}
}

func TestBlockerTools(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewActivityHandlers(env.opportunities)
	ctx := context.Background()
	oppID := createTestOpportunity(t, env)

	_, out, err := handler.AddChecklistItem(ctx, nil, ChecklistItemInput{
		OpportunityID: oppID,
		Text:          "Legal review pending",
		Blocker:       true,
	})
	if err != nil {
		t.Fatalf("AddChecklistItem failed: %v", err)
	}
	if len(out.Blockers) != 1 {
		t.Fatalf("expected 1 blocker, got %d", len(out.Blockers))
	}
	if len(out.Checklist) != 0 {
		t.Errorf("expected empty checklist, got %d items", len(out.Checklist))
	}
}
