// Package history computes the field-level diff between a stored project
// document and an incoming partial update, and shapes the result into the
// append-only modification records kept on the document.
package history

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/reqboard/reqboard-backend/internal/projects/domain"
)

// timestampLayout matches the ISO-8601 millisecond format already present
// in stored history entries.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FieldChange records one scalar field edit.
type FieldChange struct {
	OldValue any `json:"oldValue" firestore:"oldValue"`
	NewValue any `json:"newValue" firestore:"newValue"`
}

// ItemChange records the edits to a single requirement item, keyed by the
// item's stable id. Changes maps field name to FieldChange, or holds a
// single "nuevo"/"eliminado" entry carrying the whole item.
type ItemChange struct {
	ID      any            `json:"id" firestore:"id"`
	Changes map[string]any `json:"changes" firestore:"changes"`
}

// Modification is one audit entry on a project's modificationHistory.
// Changes maps field name to either a FieldChange or, for requirement
// category fields, a []ItemChange. The firestore tags keep the stored
// field names identical to the wire names.
type Modification struct {
	Timestamp    string         `json:"timestamp" firestore:"timestamp"`
	UserID       int            `json:"userId" firestore:"userId"`
	UserName     string         `json:"userName" firestore:"userName"`
	UserLastname string         `json:"userLastname" firestore:"userLastname"`
	Changes      map[string]any `json:"changes" firestore:"changes"`
}

// NewModification builds an entry for the given actor with an empty change
// set; callers fill Changes via Diff.
func NewModification(userID int, userName, userLastname string, now time.Time) Modification {
	return Modification{
		Timestamp:    now.UTC().Format(timestampLayout),
		UserID:       userID,
		UserName:     userName,
		UserLastname: userLastname,
		Changes:      map[string]any{},
	}
}

// Diff compares an update payload against the current document fields.
// modificationHistory is never diffed. Requirement category fields holding
// arrays on both sides are diffed item by item on the stable id; every
// other field is treated as a scalar. The result is empty when nothing
// actually differs, so diffing a document against itself yields no entries.
func Diff(current, updates map[string]any) map[string]any {
	changes := map[string]any{}
	for key, newVal := range updates {
		if key == "modificationHistory" {
			continue
		}
		oldVal := current[key]
		if JSONEqual(oldVal, newVal) {
			continue
		}
		oldArr, oldIsArr := oldVal.([]any)
		newArr, newIsArr := newVal.([]any)
		if domain.IsRequirementCategory(key) && oldIsArr && newIsArr {
			if itemChanges := diffItems(oldArr, newArr); len(itemChanges) > 0 {
				changes[key] = itemChanges
			}
			continue
		}
		changes[key] = FieldChange{OldValue: oldVal, NewValue: newVal}
	}
	return changes
}

// diffItems diffs two requirement arrays keyed on each item's "id".
// Edits and insertions come out in new-array order, deletions after them
// in old-array order.
func diffItems(oldArr, newArr []any) []ItemChange {
	out := []ItemChange{}
	for _, n := range newArr {
		newItem, _ := n.(map[string]any)
		id := itemID(n)
		old, found := findByID(oldArr, id)
		if !found {
			out = append(out, ItemChange{ID: id, Changes: map[string]any{"nuevo": n}})
			continue
		}
		oldItem, _ := old.(map[string]any)
		fieldChanges := map[string]any{}
		for field, newField := range newItem {
			if !JSONEqual(oldItem[field], newField) {
				fieldChanges[field] = FieldChange{OldValue: oldItem[field], NewValue: newField}
			}
		}
		if len(fieldChanges) > 0 {
			out = append(out, ItemChange{ID: id, Changes: fieldChanges})
		}
	}
	for _, o := range oldArr {
		id := itemID(o)
		if _, found := findByID(newArr, id); !found {
			out = append(out, ItemChange{ID: id, Changes: map[string]any{"eliminado": o}})
		}
	}
	return out
}

func itemID(item any) any {
	if m, ok := item.(map[string]any); ok {
		return m["id"]
	}
	return nil
}

func findByID(arr []any, id any) (any, bool) {
	for _, item := range arr {
		if JSONEqual(itemID(item), id) {
			return item, true
		}
	}
	return nil, false
}

// JSONEqual reports deep value equality via serialization. Map keys
// marshal in sorted order, so structurally equal values always compare
// equal regardless of source. Numeric identity follows the serialized
// form, which lets Firestore int64s match JSON float64s of equal value.
func JSONEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
