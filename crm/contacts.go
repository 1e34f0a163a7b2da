// ABOUTME: Contact service over the document store
// ABOUTME: CRUD, lookup, and last-contacted tracking for contacts
package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/store"
)

// Contacts manages the contacts collection.
type Contacts struct {
	store store.Store
	cache *store.ListCache
}

func NewContacts(st store.Store, cache *store.ListCache) *Contacts {
	return &Contacts{store: st, cache: cache}
}

func (s *Contacts) Create(ctx context.Context, contact *models.Contact) error {
	if strings.TrimSpace(contact.Name) == "" {
		return ErrEmptyName
	}

	now := time.Now().UTC()
	contact.ID = uuid.New()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	fields, err := store.EncodeFields(contact)
	if err != nil {
		return err
	}
	if _, err := s.store.Create(ctx, models.CollectionContacts, fields); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	s.cache.Invalidate(models.CollectionContacts)
	return nil
}

func (s *Contacts) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	doc, err := s.store.Get(ctx, models.CollectionContacts, id.String())
	if err != nil {
		return nil, err
	}

	var contact models.Contact
	if err := store.DecodeFields(doc, &contact); err != nil {
		return nil, fmt.Errorf("failed to decode contact %s: %w", id, err)
	}
	return &contact, nil
}

func (s *Contacts) List(ctx context.Context) ([]*models.Contact, error) {
	docs, ok := s.cache.Get(models.CollectionContacts)
	if !ok {
		var err error
		docs, err = s.store.List(ctx, models.CollectionContacts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contacts: %w", err)
		}
		s.cache.Put(models.CollectionContacts, docs)
	}

	contacts := make([]*models.Contact, 0, len(docs))
	for _, doc := range docs {
		var contact models.Contact
		if err := store.DecodeFields(doc, &contact); err != nil {
			return nil, fmt.Errorf("failed to decode contact %s: %w", doc.ID, err)
		}
		contacts = append(contacts, &contact)
	}
	return contacts, nil
}

// Find returns contacts matching the query against name or email,
// case-insensitive substring match. Empty query returns everything.
func (s *Contacts) Find(ctx context.Context, query string) ([]*models.Contact, error) {
	contacts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return contacts, nil
	}

	q := strings.ToLower(query)
	matched := make([]*models.Contact, 0)
	for _, contact := range contacts {
		if strings.Contains(strings.ToLower(contact.Name), q) ||
			strings.Contains(strings.ToLower(contact.Email), q) {
			matched = append(matched, contact)
		}
	}
	return matched, nil
}

func (s *Contacts) Update(ctx context.Context, contact *models.Contact) error {
	if strings.TrimSpace(contact.Name) == "" {
		return ErrEmptyName
	}

	contact.UpdatedAt = time.Now().UTC()
	fields, err := store.EncodeFields(contact)
	if err != nil {
		return err
	}
	// Updates merge; write cleared optional fields as explicit nulls.
	for _, name := range []string{"email", "phone", "role", "account_id", "notes", "last_contacted_at"} {
		if _, ok := fields[name]; !ok {
			fields[name] = nil
		}
	}
	if err := s.store.Update(ctx, models.CollectionContacts, contact.ID.String(), fields); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	s.cache.Invalidate(models.CollectionContacts)
	return nil
}

// Touch records an interaction with the contact, bumping LastContactedAt.
func (s *Contacts) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	contact, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	touched := at.UTC()
	contact.LastContactedAt = &touched
	return s.Update(ctx, contact)
}

func (s *Contacts) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, models.CollectionContacts, id.String()); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	s.cache.Invalidate(models.CollectionContacts)
	return nil
}
