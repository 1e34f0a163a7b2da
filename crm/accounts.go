// ABOUTME: Account service over the document store
// ABOUTME: CRUD and name lookup for the accounts collection
package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/store"
)

var ErrEmptyName = errors.New("name must not be empty")

// Accounts manages the accounts collection.
type Accounts struct {
	store store.Store
	cache *store.ListCache
}

func NewAccounts(st store.Store, cache *store.ListCache) *Accounts {
	return &Accounts{store: st, cache: cache}
}

func (s *Accounts) Create(ctx context.Context, account *models.Account) error {
	if strings.TrimSpace(account.Name) == "" {
		return ErrEmptyName
	}

	now := time.Now().UTC()
	account.ID = uuid.New()
	account.CreatedAt = now
	account.UpdatedAt = now

	fields, err := store.EncodeFields(account)
	if err != nil {
		return err
	}
	if _, err := s.store.Create(ctx, models.CollectionAccounts, fields); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	s.cache.Invalidate(models.CollectionAccounts)
	return nil
}

func (s *Accounts) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	doc, err := s.store.Get(ctx, models.CollectionAccounts, id.String())
	if err != nil {
		return nil, err
	}

	var account models.Account
	if err := store.DecodeFields(doc, &account); err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", id, err)
	}
	return &account, nil
}

func (s *Accounts) List(ctx context.Context) ([]*models.Account, error) {
	docs, ok := s.cache.Get(models.CollectionAccounts)
	if !ok {
		var err error
		docs, err = s.store.List(ctx, models.CollectionAccounts)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		s.cache.Put(models.CollectionAccounts, docs)
	}

	accounts := make([]*models.Account, 0, len(docs))
	for _, doc := range docs {
		var account models.Account
		if err := store.DecodeFields(doc, &account); err != nil {
			return nil, fmt.Errorf("failed to decode account %s: %w", doc.ID, err)
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

// FindByName returns the first account whose name matches, case-insensitive,
// or nil when there is none.
func (s *Accounts) FindByName(ctx context.Context, name string) (*models.Account, error) {
	accounts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if strings.EqualFold(account.Name, name) {
			return account, nil
		}
	}
	return nil, nil
}

func (s *Accounts) Update(ctx context.Context, account *models.Account) error {
	if strings.TrimSpace(account.Name) == "" {
		return ErrEmptyName
	}

	account.UpdatedAt = time.Now().UTC()
	fields, err := store.EncodeFields(account)
	if err != nil {
		return err
	}
	// Updates merge; write cleared optional fields as explicit nulls.
	for _, name := range []string{"domain", "industry", "notes"} {
		if _, ok := fields[name]; !ok {
			fields[name] = nil
		}
	}
	if err := s.store.Update(ctx, models.CollectionAccounts, account.ID.String(), fields); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	s.cache.Invalidate(models.CollectionAccounts)
	return nil
}

func (s *Accounts) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, models.CollectionAccounts, id.String()); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.cache.Invalidate(models.CollectionAccounts)
	return nil
}
