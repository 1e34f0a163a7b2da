// ABOUTME: Spreadsheet export CLI command
// ABOUTME: Writes opportunities, accounts, or contacts as CSV
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/pipecrm/export"
)

// ExportCommand writes a collection as CSV to stdout or a file.
func ExportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	collection := fs.String("collection", "opportunities", "Collection to export (opportunities, accounts, contacts)")
	outPath := fs.String("out", "", "Output file (default stdout)")
	_ = fs.Parse(args)

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	ctx := context.Background()
	switch *collection {
	case "opportunities":
		opps, err := app.Opportunities.List(ctx)
		if err != nil {
			return err
		}
		return export.WriteOpportunities(w, opps)
	case "accounts":
		accounts, err := app.Accounts.List(ctx)
		if err != nil {
			return err
		}
		return export.WriteAccounts(w, accounts)
	case "contacts":
		contacts, err := app.Contacts.List(ctx)
		if err != nil {
			return err
		}
		return export.WriteContacts(w, contacts)
	}
	return fmt.Errorf("unknown collection: %s", *collection)
}
