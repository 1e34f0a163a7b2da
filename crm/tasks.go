// ABOUTME: Standalone task service over the document store
// ABOUTME: Open/done lifecycle with due dates, separate from opportunity activities
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

// Tasks manages the tasks collection. Tasks are independent documents, not
// embedded in opportunities; an optional OpportunityID links them back.
type Tasks struct {
	store store.Store
	cache *store.ListCache
}

func NewTasks(st store.Store, cache *store.ListCache) *Tasks {
	return &Tasks{store: st, cache: cache}
}

func (s *Tasks) Create(ctx context.Context, task *models.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrEmptyName
	}

	now := time.Now().UTC()
	task.ID = uuid.New()
	task.Status = models.TaskOpen
	task.CompletedAt = nil
	task.CreatedAt = now
	task.UpdatedAt = now

	fields, err := store.EncodeFields(task)
	if err != nil {
		return err
	}
	if _, err := s.store.Create(ctx, models.CollectionTasks, fields); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	s.cache.Invalidate(models.CollectionTasks)
	return nil
}

func (s *Tasks) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	doc, err := s.store.Get(ctx, models.CollectionTasks, id.String())
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := store.DecodeFields(doc, &task); err != nil {
		return nil, fmt.Errorf("failed to decode task %s: %w", id, err)
	}
	return &task, nil
}

func (s *Tasks) List(ctx context.Context) ([]*models.Task, error) {
	docs, ok := s.cache.Get(models.CollectionTasks)
	if !ok {
		var err error
		docs, err = s.store.List(ctx, models.CollectionTasks)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		s.cache.Put(models.CollectionTasks, docs)
	}

	tasks := make([]*models.Task, 0, len(docs))
	for _, doc := range docs {
		var task models.Task
		if err := store.DecodeFields(doc, &task); err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", doc.ID, err)
		}
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

// ListOpen returns open tasks only.
func (s *Tasks) ListOpen(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]*models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == models.TaskOpen {
			open = append(open, task)
		}
	}
	return open, nil
}

// Complete marks a task done, stamping CompletedAt. Completing a done task
// is a no-op.
func (s *Tasks) Complete(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskDone {
		return task, nil
	}

	now := time.Now().UTC()
	task.Status = models.TaskDone
	task.CompletedAt = &now
	task.UpdatedAt = now

	if err := s.persist(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Reopen puts a done task back in the open state, clearing CompletedAt.
func (s *Tasks) Reopen(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskOpen {
		return task, nil
	}

	task.Status = models.TaskOpen
	task.CompletedAt = nil
	task.UpdatedAt = time.Now().UTC()

	if err := s.persist(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Tasks) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, models.CollectionTasks, id.String()); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.cache.Invalidate(models.CollectionTasks)
	return nil
}

func (s *Tasks) persist(ctx context.Context, task *models.Task) error {
	fields, err := store.EncodeFields(task)
	if err != nil {
		return err
	}
	// Updates merge into the stored document, so cleared optional fields must
	// be written as explicit nulls or the old values survive.
	for _, name := range []string{"notes", "due_at", "opportunity_id", "completed_at"} {
		if _, ok := fields[name]; !ok {
			fields[name] = nil
		}
	}
	if err := s.store.Update(ctx, models.CollectionTasks, task.ID.String(), fields); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	s.cache.Invalidate(models.CollectionTasks)
	return nil
}
