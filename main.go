// ABOUTME: Entry point for pipecrm MCP server and CLI
// ABOUTME: Routes to MCP server or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/pipecrm/cli"
	"github.com/harperreed/pipecrm/config"
	"github.com/harperreed/pipecrm/logger"
	"github.com/harperreed/pipecrm/store"
	"github.com/harperreed/pipecrm/timeutil"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/pipecrm)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("pipecrm version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	zlog, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	timeutil.SetLogger(zlog)

	st, err := store.Open(cfg.StorePath())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	app := cli.NewApp(st, zlog, cfg.Owner())

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(app); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		if err := runCRMCommand(app, crmCommand, crmArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCRMCommand(app *cli.App, command string, args []string) error {
	switch command {
	// Account commands
	case "add-account":
		return cli.AddAccountCommand(app, args)
	case "list-accounts":
		return cli.ListAccountsCommand(app, args)

	// Contact commands
	case "add-contact":
		return cli.AddContactCommand(app, args)
	case "list-contacts":
		return cli.ListContactsCommand(app, args)

	// Opportunity commands
	case "add-opportunity":
		return cli.AddOpportunityCommand(app, args)
	case "list-opportunities":
		return cli.ListOpportunitiesCommand(app, args)
	case "show-opportunity":
		return cli.ShowOpportunityCommand(app, args)
	case "stage":
		return cli.StageCommand(app, args)
	case "delete-opportunity":
		return cli.DeleteOpportunityCommand(app, args)

	// Activity commands
	case "log-activity":
		return cli.LogActivityCommand(app, args)
	case "complete-activity":
		return cli.CompleteActivityCommand(app, args)
	case "cancel-activity":
		return cli.CancelActivityCommand(app, args)
	case "delete-activity":
		return cli.DeleteActivityCommand(app, args)
	case "checklist":
		return cli.ChecklistCommand(app, args)

	// Task commands
	case "add-task":
		return cli.AddTaskCommand(app, args)
	case "list-tasks":
		return cli.ListTasksCommand(app, args)
	case "complete-task":
		return cli.CompleteTaskCommand(app, args)

	// Reporting commands
	case "dashboard":
		return cli.DashboardCommand(app, args)
	case "graph":
		return cli.GraphCommand(app, args)
	case "export":
		return cli.ExportCommand(app, args)
	}
	return fmt.Errorf("unknown crm subcommand: %s", command)
}

func printUsage() {
	fmt.Println(`pipecrm - sales pipeline CRM

Usage:
  pipecrm mcp                        Start MCP server on stdio
  pipecrm crm <subcommand> [flags]   Run a CRM command

Subcommands:
  add-account, list-accounts
  add-contact, list-contacts
  add-opportunity, list-opportunities, show-opportunity, stage, delete-opportunity
  log-activity, complete-activity, cancel-activity, delete-activity, checklist
  add-task, list-tasks, complete-task
  dashboard, graph, export

Flags:
  -version     Show version and exit
  -data-dir    Data directory (default: ~/.local/share/pipecrm)`)
}
