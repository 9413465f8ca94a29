// Package store persists the result of a generate run as one record per
// identifier, so later lookups do not need to fetch and rebuild.
//
// Two backends are provided:
//   - file: a JSON snapshot in a local directory (CLI default)
//   - mongo: one MongoDB document per identifier, for shared deployments
//
// Saving replaces the previous run completely.
package store

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned when an identifier has no record.
var ErrNotFound = errors.New("not found")

// Record describes one identifier of a run.
type Record struct {
	UTI         string    `json:"uti" bson:"_id"`
	Ancestors   []string  `json:"ancestors" bson:"ancestors"`
	Descendants []string  `json:"descendants" bson:"descendants"`
	Root        bool      `json:"root" bson:"root"`
	RunID       string    `json:"run_id" bson:"run_id"`
	SavedAt     time.Time `json:"saved_at" bson:"saved_at"`
}

// Store saves and looks up records.
type Store interface {
	// Save replaces all stored records with records.
	Save(ctx context.Context, records []Record) error
	// Get returns the record for uti, or ErrNotFound.
	Get(ctx context.Context, uti string) (*Record, error)
	// Close releases the backend.
	Close() error
}

// Records builds one record per key of children, sorted by identifier.
// ancestors supplies each identifier's top-level ancestors and roots marks
// the top-level identifiers.
func Records(runID string, children, ancestors map[string][]string, roots []string) []Record {
	isRoot := make(map[string]bool, len(roots))
	for _, r := range roots {
		isRoot[r] = true
	}
	now := time.Now().UTC()
	out := make([]Record, 0, len(children))
	for uti, desc := range children {
		anc := ancestors[uti]
		if anc == nil {
			anc = []string{}
		}
		out = append(out, Record{
			UTI:         uti,
			Ancestors:   anc,
			Descendants: desc,
			Root:        isRoot[uti],
			RunID:       runID,
			SavedAt:     now,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UTI < out[j].UTI })
	return out
}
