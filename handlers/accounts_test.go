// ABOUTME: Tests for account and contact MCP tool handlers
// ABOUTME: Account creation, contact lookup, and interaction logging
package handlers

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestAddAccount(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewAccountHandlers(env.accounts, env.contacts)
	ctx := context.Background()

	_, out, err := handler.AddAccount(ctx, nil, AddAccountInput{
		Name:     "Acme Corp",
		Domain:   "acme.example",
		Industry: "manufacturing",
	})
	if err != nil {
		t.Fatalf("AddAccount failed: %v", err)
	}
	if out.Name != "Acme Corp" {
		t.Errorf("expected name 'Acme Corp', got %q", out.Name)
	}
	if out.ID == "" {
		t.Error("ID was not set")
	}

	if _, _, err := handler.AddAccount(ctx, nil, AddAccountInput{}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestAddContactCreatesAccount(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewAccountHandlers(env.accounts, env.contacts)
	ctx := context.Background()

	_, out, err := handler.AddContact(ctx, nil, AddContactInput{
		Name:        "Jordan Reyes",
		Email:       "jordan@acme.example",
		AccountName: "Acme Corp",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}
	if out.AccountID == nil {
		t.Fatal("account was not linked")
	}

	account, err := env.accounts.FindByName(ctx, "Acme Corp")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if account == nil {
		t.Fatal("account was not created")
	}
	if *out.AccountID != account.ID.String() {
		t.Errorf("expected account_id %s, got %s", account.ID, *out.AccountID)
	}
}

func TestFindContacts(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewAccountHandlers(env.accounts, env.contacts)
	ctx := context.Background()

	for _, in := range []AddContactInput{
		{Name: "Jordan Reyes", Email: "jordan@acme.example"},
		{Name: "Sam Okafor", Email: "sam@globex.example"},
	} {
		if _, _, err := handler.AddContact(ctx, nil, in); err != nil {
			t.Fatalf("AddContact failed: %v", err)
		}
	}

	_, out, err := handler.FindContacts(ctx, nil, FindContactsInput{Query: "jordan"})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 contact, got %d", out.Count)
	}
	if out.Contacts[0].Name != "Jordan Reyes" {
		t.Errorf("expected Jordan Reyes, got %q", out.Contacts[0].Name)
	}

	_, all, err := handler.FindContacts(ctx, nil, FindContactsInput{})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}
	if all.Count != 2 {
		t.Errorf("expected 2 contacts, got %d", all.Count)
	}
}

func TestLogContactInteraction(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewAccountHandlers(env.accounts, env.contacts)
	ctx := context.Background()

	_, contact, err := handler.AddContact(ctx, nil, AddContactInput{Name: "Jordan Reyes"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, out, err := handler.LogContactInteraction(ctx, nil, LogContactInteractionInput{ContactID: contact.ID})
	if err != nil {
		t.Fatalf("LogContactInteraction failed: %v", err)
	}
	if out.LastContactedAt == "" {
		t.Error("last_contacted_at was not set")
	}

	id := uuid.MustParse(contact.ID)
	loaded, err := env.contacts.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.LastContactedAt == nil {
		t.Error("last contacted timestamp was not persisted")
	}

	_, _, err = handler.LogContactInteraction(ctx, nil, LogContactInteractionInput{ContactID: "bad"})
	if err == nil {
		t.Error("expected error for invalid contact_id")
	}
}
