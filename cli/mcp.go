// ABOUTME: MCP server subcommand
// ABOUTME: Exposes CRM operations as MCP tools over stdio
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pipecrm/handlers"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(app *App) error {
	log.Println("Starting pipecrm MCP server...")

	accountHandlers := handlers.NewAccountHandlers(app.Accounts, app.Contacts)
	opportunityHandlers := handlers.NewOpportunityHandlers(app.Opportunities, app.Accounts)
	activityHandlers := handlers.NewActivityHandlers(app.Opportunities)
	taskHandlers := handlers.NewTaskHandlers(app.Tasks)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pipecrm",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_account",
		Description: "Add a new account to the CRM",
	}, accountHandlers.AddAccount)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact, creating its account if needed",
	}, accountHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name or email",
	}, accountHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_contact_interaction",
		Description: "Record an interaction with a contact and bump the last contacted timestamp",
	}, accountHandlers.LogContactInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_opportunity",
		Description: "Create a new opportunity with an account, stage, and value",
	}, opportunityHandlers.CreateOpportunity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_opportunity_stage",
		Description: "Move an opportunity to a new pipeline stage",
	}, opportunityHandlers.UpdateOpportunityStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_opportunities",
		Description: "List opportunities, optionally filtered by stage",
	}, opportunityHandlers.FindOpportunities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log an activity on an opportunity; past-dated activities complete immediately",
	}, activityHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_activity",
		Description: "Complete an activity, merging notes and optionally scheduling a follow-up",
	}, activityHandlers.CompleteActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_activity",
		Description: "Remove an activity from an opportunity",
	}, activityHandlers.DeleteActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_checklist_item",
		Description: "Add a checklist or blocker item to an opportunity",
	}, activityHandlers.AddChecklistItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_checklist_item",
		Description: "Toggle a checklist or blocker item's completed state",
	}, activityHandlers.ToggleChecklistItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_checklist_item",
		Description: "Remove a checklist or blocker item",
	}, activityHandlers.RemoveChecklistItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a standalone task, optionally linked to an opportunity",
	}, taskHandlers.CreateTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as done",
	}, taskHandlers.CompleteTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_open_tasks",
		Description: "List open tasks with due dates",
	}, taskHandlers.ListOpenTasks)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}
