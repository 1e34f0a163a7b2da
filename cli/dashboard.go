// ABOUTME: Dashboard and graph CLI commands
// ABOUTME: Pipeline overview stats and Graphviz pipeline graph
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/pipecrm/viz"
)

// DashboardCommand prints the ASCII pipeline dashboard.
func DashboardCommand(app *App, _ []string) error {
	dashboard := viz.NewDashboard(app.Opportunities, app.Accounts, app.Contacts, app.Tasks)

	stats, err := dashboard.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to generate dashboard: %w", err)
	}

	fmt.Print(dashboard.Render(stats))
	return nil
}

// GraphCommand renders the pipeline as a Graphviz DOT graph.
func GraphCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	outPath := fs.String("out", "", "Output file (default stdout)")
	_ = fs.Parse(args)

	generator := viz.NewGraphGenerator(app.Opportunities, app.Accounts, app.Contacts)
	dot, err := generator.GeneratePipelineGraph(context.Background())
	if err != nil {
		return fmt.Errorf("failed to generate graph: %w", err)
	}

	if *outPath == "" {
		fmt.Print(dot)
		return nil
	}
	if err := os.WriteFile(*outPath, []byte(dot), 0644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	fmt.Printf("Wrote graph to %s\n", *outPath)
	return nil
}
