// ABOUTME: Opportunity service coordinating aggregate mutations with persistence
// ABOUTME: Optimistic local update, whole-array replace, cache invalidation
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/store"
)

// Service is the entry point for all opportunity mutations. Lifecycle
// operations apply the mutation to the in-memory aggregate first, then
// persist the whole embedded arrays in one field write, then invalidate the
// opportunities list cache. A failed persist surfaces as a PersistError
// carrying the already-applied aggregate; there is no automatic rollback.
type Service struct {
	store      store.Store
	cache      *store.ListCache
	log        *zap.Logger
	Activities *ActivityManager
	Checklist  *ChecklistManager

	// Now is the clock; override in tests.
	Now func() time.Time
}

// NewService wires an opportunity service acting as the given user.
func NewService(st store.Store, cache *store.ListCache, log *zap.Logger, actor uuid.UUID) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	activities := NewActivityManager(actor)
	return &Service{
		store:      st,
		cache:      cache,
		log:        log,
		Activities: activities,
		Checklist:  NewChecklistManager(activities),
		Now:        time.Now,
	}
}

// Create validates and persists a new opportunity. The referenced account
// must exist. Stage defaults to lead, priority to medium.
func (s *Service) Create(ctx context.Context, opp *models.Opportunity) error {
	if strings.TrimSpace(opp.Title) == "" {
		return newValidationError("title", "must not be empty")
	}
	if opp.Stage == "" {
		opp.Stage = models.StageLead
	}
	if !models.ValidStage(opp.Stage) {
		return newValidationError("stage", "unknown stage "+opp.Stage)
	}
	if opp.Priority == "" {
		opp.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(opp.Priority) {
		return newValidationError("priority", "unknown priority "+opp.Priority)
	}
	if opp.AccountID == uuid.Nil {
		return newValidationError("account_id", "is required")
	}

	if _, err := s.store.Get(ctx, models.CollectionAccounts, opp.AccountID.String()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("account %s: %w", opp.AccountID, store.ErrNotFound)
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	now := s.Now().UTC()
	opp.ID = uuid.New()
	opp.CreatedAt = now
	opp.UpdatedAt = now

	fields, err := encodeOpportunity(opp)
	if err != nil {
		return err
	}
	if _, err := s.store.Create(ctx, models.CollectionOpportunities, fields); err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}

	s.cache.Invalidate(models.CollectionOpportunities)
	s.log.Info("opportunity created",
		zap.String("id", opp.ID.String()),
		zap.String("stage", opp.Stage))
	return nil
}

// Get loads one opportunity.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	doc, err := s.store.Get(ctx, models.CollectionOpportunities, id.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("opportunity %s: %w", id, store.ErrNotFound)
		}
		return nil, err
	}
	return decodeOpportunity(doc)
}

// List returns every opportunity, served from the list cache when the cache
// is warm.
func (s *Service) List(ctx context.Context) ([]*models.Opportunity, error) {
	docs, ok := s.cache.Get(models.CollectionOpportunities)
	if !ok {
		var err error
		docs, err = s.store.List(ctx, models.CollectionOpportunities)
		if err != nil {
			return nil, fmt.Errorf("failed to list opportunities: %w", err)
		}
		s.cache.Put(models.CollectionOpportunities, docs)
	}

	opps := make([]*models.Opportunity, 0, len(docs))
	for _, doc := range docs {
		opp, err := decodeOpportunity(doc)
		if err != nil {
			return nil, err
		}
		opps = append(opps, opp)
	}
	return opps, nil
}

// Update replaces the opportunity's top-level fields wholesale. Embedded
// arrays are persisted as whole values along with everything else.
func (s *Service) Update(ctx context.Context, opp *models.Opportunity) error {
	if strings.TrimSpace(opp.Title) == "" {
		return newValidationError("title", "must not be empty")
	}
	if !models.ValidStage(opp.Stage) {
		return newValidationError("stage", "unknown stage "+opp.Stage)
	}

	opp.UpdatedAt = s.Now().UTC()

	fields, err := encodeOpportunity(opp)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, models.CollectionOpportunities, opp.ID.String(), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("opportunity %s: %w", opp.ID, store.ErrNotFound)
		}
		return fmt.Errorf("failed to update opportunity: %w", err)
	}

	s.cache.Invalidate(models.CollectionOpportunities)
	return nil
}

// Delete removes an opportunity and everything embedded in it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, models.CollectionOpportunities, id.String()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("opportunity %s: %w", id, store.ErrNotFound)
		}
		return fmt.Errorf("failed to delete opportunity: %w", err)
	}
	s.cache.Invalidate(models.CollectionOpportunities)
	return nil
}

// LogActivity creates a new activity on the opportunity. Returns the updated
// aggregate and the created activity.
func (s *Service) LogActivity(ctx context.Context, oppID uuid.UUID, form ActivityForm) (*models.Opportunity, *models.Activity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, nil, err
	}

	activity, err := s.Activities.Create(form)
	if err != nil {
		return nil, nil, err
	}

	updated := opp.WithActivity(activity)
	if err := s.persistEmbedded(ctx, &updated, "log activity"); err != nil {
		return &updated, &activity, err
	}

	s.log.Info("activity logged",
		zap.String("opportunity", oppID.String()),
		zap.String("activity", activity.ID),
		zap.String("status", activity.Status))
	return &updated, &activity, nil
}

// EditActivity applies the form to an existing activity.
func (s *Service) EditActivity(ctx context.Context, oppID uuid.UUID, activityID string, form ActivityForm) (*models.Opportunity, *models.Activity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, nil, err
	}

	existing, ok := findActivity(opp.Activities, activityID)
	if !ok {
		return nil, nil, fmt.Errorf("activity %s: %w", activityID, ErrActivityNotFound)
	}

	edited, err := s.Activities.Edit(existing, form)
	if err != nil {
		return nil, nil, err
	}

	updated := opp.WithActivity(edited)
	if err := s.persistEmbedded(ctx, &updated, "edit activity"); err != nil {
		return &updated, &edited, err
	}
	return &updated, &edited, nil
}

// CompleteActivity transitions an activity to completed, optionally creating
// a follow-up. Both activities land in the opportunity in one persist.
func (s *Service) CompleteActivity(ctx context.Context, oppID uuid.UUID, activityID, notes string, followUp *FollowUp) (*models.Opportunity, *models.Activity, *models.Activity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, nil, nil, err
	}

	existing, ok := findActivity(opp.Activities, activityID)
	if !ok {
		return nil, nil, nil, fmt.Errorf("activity %s: %w", activityID, ErrActivityNotFound)
	}

	completed, next, err := s.Activities.Complete(existing, notes, followUp)
	if err != nil {
		return nil, nil, nil, err
	}

	updated := opp.WithActivity(completed)
	if next != nil {
		updated = updated.WithActivity(*next)
	}
	if err := s.persistEmbedded(ctx, &updated, "complete activity"); err != nil {
		return &updated, &completed, next, err
	}

	s.log.Info("activity completed",
		zap.String("opportunity", oppID.String()),
		zap.String("activity", activityID),
		zap.Bool("follow_up", next != nil))
	return &updated, &completed, next, nil
}

// CancelActivity transitions an activity to cancelled.
func (s *Service) CancelActivity(ctx context.Context, oppID uuid.UUID, activityID string) (*models.Opportunity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, err
	}

	existing, ok := findActivity(opp.Activities, activityID)
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", activityID, ErrActivityNotFound)
	}

	cancelled, err := s.Activities.Cancel(existing)
	if err != nil {
		return nil, err
	}

	updated := opp.WithActivity(cancelled)
	if err := s.persistEmbedded(ctx, &updated, "cancel activity"); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// DeleteActivity removes an activity unconditionally. No soft delete.
func (s *Service) DeleteActivity(ctx context.Context, oppID uuid.UUID, activityID string) (*models.Opportunity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, err
	}

	if _, ok := findActivity(opp.Activities, activityID); !ok {
		return nil, fmt.Errorf("activity %s: %w", activityID, ErrActivityNotFound)
	}

	updated := opp.WithoutActivity(activityID)
	if err := s.persistEmbedded(ctx, &updated, "delete activity"); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// AddItem adds a checklist or blocker item. Whitespace-only text is a no-op.
func (s *Service) AddItem(ctx context.Context, oppID uuid.UUID, kind ListKind, text string) (*models.Opportunity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, err
	}

	updated, added := s.Checklist.Add(*opp, kind, text)
	if !added {
		return opp, nil
	}

	if err := s.persistEmbedded(ctx, &updated, "add item"); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// ToggleItem flips a checklist or blocker item's completed flag.
func (s *Service) ToggleItem(ctx context.Context, oppID uuid.UUID, kind ListKind, itemID string) (*models.Opportunity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Checklist.Toggle(*opp, kind, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.persistEmbedded(ctx, &updated, "toggle item"); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// RemoveItem deletes a checklist or blocker item unconditionally.
func (s *Service) RemoveItem(ctx context.Context, oppID uuid.UUID, kind ListKind, itemID string) (*models.Opportunity, error) {
	opp, err := s.Get(ctx, oppID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Checklist.Remove(*opp, kind, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.persistEmbedded(ctx, &updated, "remove item"); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// persistEmbedded writes the whole embedded arrays plus the derived
// last-activity timestamp in one field update, then invalidates the list
// cache. The aggregate passed in has already been mutated locally; a persist
// failure wraps it in a PersistError so the caller can reconcile.
func (s *Service) persistEmbedded(ctx context.Context, opp *models.Opportunity, op string) error {
	opp.UpdatedAt = s.Now().UTC()

	fields := map[string]interface{}{
		"activities":       encodeList(opp.Activities),
		"checklist":        encodeList(opp.Checklist),
		"blockers":         encodeList(opp.Blockers),
		"last_activity_at": encodeOptionalTime(opp.LastActivityAt),
		"updated_at":       opp.UpdatedAt.Format(time.RFC3339Nano),
	}

	if err := s.store.Update(ctx, models.CollectionOpportunities, opp.ID.String(), fields); err != nil {
		s.log.Error("persist failed after optimistic update",
			zap.String("op", op),
			zap.String("opportunity", opp.ID.String()),
			zap.Error(err))
		return &PersistError{Op: op, Applied: opp, Err: err}
	}

	s.cache.Invalidate(models.CollectionOpportunities)
	return nil
}

func findActivity(activities []models.Activity, id string) (models.Activity, bool) {
	for _, a := range activities {
		if a.ID == id {
			return a, true
		}
	}
	return models.Activity{}, false
}

func encodeList(list interface{}) interface{} {
	fields, err := store.EncodeFields(map[string]interface{}{"list": list})
	if err != nil {
		return list
	}
	return fields["list"]
}

func encodeOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
