// ABOUTME: Spreadsheet export of CRM collections
// ABOUTME: Writes opportunities, accounts, and contacts as CSV
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/pipecrm/models"
)

// WriteOpportunities writes one CSV row per opportunity, with embedded
// collections summarized as counts.
func WriteOpportunities(w io.Writer, opps []*models.Opportunity) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "title", "stage", "priority", "account_id", "value_cents",
		"expected_close_date", "tags", "activities", "open_checklist",
		"open_blockers", "last_activity_at", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, opp := range opps {
		row := []string{
			opp.ID.String(),
			opp.Title,
			opp.Stage,
			opp.Priority,
			opp.AccountID.String(),
			strconv.FormatInt(opp.Value, 10),
			formatOptional(opp.ExpectedCloseDate),
			strings.Join(opp.Tags, ";"),
			strconv.Itoa(len(opp.Activities)),
			strconv.Itoa(countOpen(opp.Checklist)),
			strconv.Itoa(countOpen(opp.Blockers)),
			formatOptional(opp.LastActivityAt),
			opp.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteAccounts writes one CSV row per account.
func WriteAccounts(w io.Writer, accounts []*models.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name", "domain", "industry", "created_at"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, account := range accounts {
		row := []string{
			account.ID.String(),
			account.Name,
			account.Domain,
			account.Industry,
			account.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteContacts writes one CSV row per contact.
func WriteContacts(w io.Writer, contacts []*models.Contact) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name", "email", "phone", "role", "account_id", "last_contacted_at"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, contact := range contacts {
		accountID := ""
		if contact.AccountID != nil {
			accountID = contact.AccountID.String()
		}
		row := []string{
			contact.ID.String(),
			contact.Name,
			contact.Email,
			contact.Phone,
			contact.Role,
			accountID,
			formatOptional(contact.LastContactedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func countOpen(items []models.ChecklistItem) int {
	open := 0
	for _, item := range items {
		if !item.Completed {
			open++
		}
	}
	return open
}
