// ABOUTME: Account CLI commands
// ABOUTME: Human-friendly commands for managing accounts
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/pipecrm/models"
)

// AddAccountCommand creates a new account.
func AddAccountCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-account", flag.ExitOnError)
	name := fs.String("name", "", "Account name (required)")
	domain := fs.String("domain", "", "Website domain")
	industry := fs.String("industry", "", "Industry")
	notes := fs.String("notes", "", "Free-form notes")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	account := &models.Account{
		Name:     *name,
		Domain:   *domain,
		Industry: *industry,
		Notes:    *notes,
	}
	if err := app.Accounts.Create(context.Background(), account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("Created account %s (%s)\n", account.Name, account.ID)
	return nil
}

// ListAccountsCommand lists all accounts.
func ListAccountsCommand(app *App, args []string) error {
	accounts, err := app.Accounts.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDOMAIN\tINDUSTRY")
	for _, account := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			account.ID.String()[:8], account.Name, account.Domain, account.Industry)
	}
	return w.Flush()
}
