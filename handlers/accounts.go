// ABOUTME: Account and contact MCP tool handlers
// ABOUTME: Implements add_account, add_contact, find_contacts, and interaction logging
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

type AccountHandlers struct {
	accounts *crm.Accounts
	contacts *crm.Contacts
}

func NewAccountHandlers(accounts *crm.Accounts, contacts *crm.Contacts) *AccountHandlers {
	return &AccountHandlers{accounts: accounts, contacts: contacts}
}

type AddAccountInput struct {
	Name     string `json:"name" jsonschema:"Account name (required)"`
	Domain   string `json:"domain,omitempty" jsonschema:"Website domain"`
	Industry string `json:"industry,omitempty" jsonschema:"Industry"`
	Notes    string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type AccountOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain,omitempty"`
	Industry string `json:"industry,omitempty"`
}

func (h *AccountHandlers) AddAccount(ctx context.Context, _ *mcp.CallToolRequest, input AddAccountInput) (*mcp.CallToolResult, AccountOutput, error) {
	if input.Name == "" {
		return nil, AccountOutput{}, fmt.Errorf("name is required")
	}

	account := &models.Account{
		Name:     input.Name,
		Domain:   input.Domain,
		Industry: input.Industry,
		Notes:    input.Notes,
	}
	if err := h.accounts.Create(ctx, account); err != nil {
		return nil, AccountOutput{}, fmt.Errorf("failed to create account: %w", err)
	}

	return nil, AccountOutput{
		ID:       account.ID.String(),
		Name:     account.Name,
		Domain:   account.Domain,
		Industry: account.Industry,
	}, nil
}

type AddContactInput struct {
	Name        string `json:"name" jsonschema:"Contact name (required)"`
	Email       string `json:"email,omitempty" jsonschema:"Email address"`
	Phone       string `json:"phone,omitempty" jsonschema:"Phone number"`
	Role        string `json:"role,omitempty" jsonschema:"Role at the account"`
	AccountName string `json:"account_name,omitempty" jsonschema:"Account name (will be created if not found)"`
}

type ContactOutput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Role      string  `json:"role,omitempty"`
	AccountID *string `json:"account_id,omitempty"`
}

func (h *AccountHandlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}

	contact := &models.Contact{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Role:  input.Role,
	}

	if input.AccountName != "" {
		account, err := h.accounts.FindByName(ctx, input.AccountName)
		if err != nil {
			return nil, ContactOutput{}, fmt.Errorf("failed to lookup account: %w", err)
		}
		if account == nil {
			account = &models.Account{Name: input.AccountName}
			if err := h.accounts.Create(ctx, account); err != nil {
				return nil, ContactOutput{}, fmt.Errorf("failed to create account: %w", err)
			}
		}
		contact.AccountID = &account.ID
	}

	if err := h.contacts.Create(ctx, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Name or email substring to match"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *AccountHandlers) FindContacts(ctx context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	contacts, err := h.contacts.Find(ctx, input.Query)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	out := FindContactsOutput{Contacts: make([]ContactOutput, 0, limit)}
	for _, contact := range contacts {
		out.Contacts = append(out.Contacts, contactToOutput(contact))
		if len(out.Contacts) >= limit {
			break
		}
	}
	out.Count = len(out.Contacts)
	return nil, out, nil
}

type LogContactInteractionInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
}

type LogContactInteractionOutput struct {
	ContactID       string `json:"contact_id"`
	LastContactedAt string `json:"last_contacted_at"`
}

func (h *AccountHandlers) LogContactInteraction(ctx context.Context, _ *mcp.CallToolRequest, input LogContactInteractionInput) (*mcp.CallToolResult, LogContactInteractionOutput, error) {
	id, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, LogContactInteractionOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	now := time.Now().UTC()
	if err := h.contacts.Touch(ctx, id, now); err != nil {
		return nil, LogContactInteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	return nil, LogContactInteractionOutput{
		ContactID:       input.ContactID,
		LastContactedAt: now.Format(time.RFC3339),
	}, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	out := ContactOutput{
		ID:    contact.ID.String(),
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Role:  contact.Role,
	}
	if contact.AccountID != nil {
		s := contact.AccountID.String()
		out.AccountID = &s
	}
	return out
}
