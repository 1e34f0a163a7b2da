// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/pipecrm/models"
)

// AddContactCommand creates a new contact, linked to an account if given.
func AddContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	role := fs.String("role", "", "Role at the account")
	account := fs.String("account", "", "Account name (created if not found)")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	ctx := context.Background()
	contact := &models.Contact{
		Name:  *name,
		Email: *email,
		Phone: *phone,
		Role:  *role,
	}

	if *account != "" {
		existing, err := app.Accounts.FindByName(ctx, *account)
		if err != nil {
			return fmt.Errorf("failed to lookup account: %w", err)
		}
		if existing == nil {
			existing = &models.Account{Name: *account}
			if err := app.Accounts.Create(ctx, existing); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}
		}
		contact.AccountID = &existing.ID
	}

	if err := app.Contacts.Create(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("Created contact %s (%s)\n", contact.Name, contact.ID)
	return nil
}

// ListContactsCommand lists contacts, optionally filtered by a query.
func ListContactsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Name or email substring to match")
	_ = fs.Parse(args)

	contacts, err := app.Contacts.Find(context.Background(), *query)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tROLE")
	for _, contact := range contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			contact.ID.String()[:8], contact.Name, contact.Email, contact.Phone, contact.Role)
	}
	return w.Flush()
}
