// ABOUTME: CLI application wiring
// ABOUTME: Bundles store, cache, and services for command handlers
package cli

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/pipecrm/crm"
	"github.com/harperreed/pipecrm/pipeline"
	"github.com/harperreed/pipecrm/store"
)

// App bundles the services the CLI commands operate on.
type App struct {
	Store store.Store
	Cache *store.ListCache
	Log   *zap.Logger

	Opportunities *pipeline.Service
	Accounts      *crm.Accounts
	Contacts      *crm.Contacts
	Tasks         *crm.Tasks
	Products      *crm.Products
}

// NewApp wires all services over one store, acting as the given user.
func NewApp(st store.Store, log *zap.Logger, actor uuid.UUID) *App {
	cache := store.NewListCache()
	return &App{
		Store:         st,
		Cache:         cache,
		Log:           log,
		Opportunities: pipeline.NewService(st, cache, log, actor),
		Accounts:      crm.NewAccounts(st, cache),
		Contacts:      crm.NewContacts(st, cache),
		Tasks:         crm.NewTasks(st, cache),
		Products:      crm.NewProducts(st, cache),
	}
}
