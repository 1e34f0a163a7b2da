// ABOUTME: Opportunity document encoding and decoding
// ABOUTME: Normalizes legacy timestamp shapes and migrates legacy stage values
package pipeline

import (
	"fmt"
	"time"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/store"
	"github.com/harperreed/pipecrm/timeutil"
)

// Timestamp field names at each level of an opportunity document. Documents
// written by the legacy client carry these as {_seconds,_nanoseconds} or
// {seconds,nanoseconds} objects instead of RFC3339 strings.
var (
	opportunityTimeFields = []string{"created_at", "updated_at", "last_activity_at", "expected_close_date"}
	activityTimeFields    = []string{"date_time", "completed_at", "created_at", "updated_at"}
	itemTimeFields        = []string{"created_at", "completed_at"}
)

// decodeOpportunity turns a stored document into a model, routing every
// timestamp through the normalizer and migrating legacy stage values.
func decodeOpportunity(doc *store.Document) (*models.Opportunity, error) {
	normalizeOpportunityFields(doc.Fields)

	var opp models.Opportunity
	if err := store.DecodeFields(doc, &opp); err != nil {
		return nil, fmt.Errorf("failed to decode opportunity %s: %w", doc.ID, err)
	}

	opp.Stage = models.MigrateStage(opp.Stage)
	return &opp, nil
}

// Optional opportunity fields dropped by omitempty when empty. Updates merge
// into the stored document, so cleared fields must be written as explicit
// nulls or the old values survive.
var opportunityOptionalFields = []string{
	"summary", "product_id", "contact_ids", "tags", "commercial_model",
	"potential_volume", "value", "expected_close_date", "activities",
	"checklist", "blockers", "last_activity_at",
}

func encodeOpportunity(opp *models.Opportunity) (map[string]interface{}, error) {
	fields, err := store.EncodeFields(opp)
	if err != nil {
		return nil, err
	}
	for _, name := range opportunityOptionalFields {
		if _, ok := fields[name]; !ok {
			fields[name] = nil
		}
	}
	return fields, nil
}

func normalizeOpportunityFields(fields map[string]interface{}) {
	normalizeTimeFields(fields, opportunityTimeFields)
	normalizeEmbedded(fields, "activities", activityTimeFields)
	normalizeEmbedded(fields, "checklist", itemTimeFields)
	normalizeEmbedded(fields, "blockers", itemTimeFields)
}

func normalizeEmbedded(fields map[string]interface{}, name string, timeFields []string) {
	list, ok := fields[name].([]interface{})
	if !ok {
		return
	}
	for _, entry := range list {
		if m, ok := entry.(map[string]interface{}); ok {
			normalizeTimeFields(m, timeFields)
		}
	}
}

// normalizeTimeFields rewrites present, non-nil timestamp fields as RFC3339
// strings so JSON decoding into time.Time succeeds regardless of the wire
// shape the document was written with. Absent fields stay absent: the
// normalizer's fall-back-to-now contract must not fabricate optional
// timestamps like completed_at.
func normalizeTimeFields(m map[string]interface{}, names []string) {
	for _, name := range names {
		v, ok := m[name]
		if !ok || v == nil {
			continue
		}
		m[name] = timeutil.Normalize(v).UTC().Format(time.RFC3339Nano)
	}
}
