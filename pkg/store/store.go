// Package store keeps a history of rendered diagrams.
//
// The render service records every successful render so clients can list
// and fetch earlier results by ID. [MemoryStore] serves single-process use
// and tests; [MongoStore] persists records in a MongoDB collection.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pinout/pkg/errors"
)

// Record is one stored render.
type Record struct {
	ID              string            `json:"id" bson:"_id"`
	Name            string            `json:"name" bson:"name"`
	DescriptionHash string            `json:"description_hash" bson:"description_hash"`
	Page            string            `json:"page,omitempty" bson:"page,omitempty"`
	DPI             int               `json:"dpi,omitempty" bson:"dpi,omitempty"`
	Elements        int               `json:"elements" bson:"elements"`
	Artifacts       map[string][]byte `json:"-" bson:"artifacts"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
}

// Formats returns the sorted artifact formats held by the record.
func (r *Record) Formats() []string {
	out := make([]string, 0, len(r.Artifacts))
	for f := range r.Artifacts {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Store persists render records.
type Store interface {
	// Put saves rec, assigning an ID and timestamp when missing, and returns
	// the stored ID.
	Put(ctx context.Context, rec *Record) (string, error)
	// Get returns the record with id or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns up to limit records, newest first. A limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Record, error)
	Close(ctx context.Context) error
}

// prepare fills generated fields before a record is saved.
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "render %q not found", id)
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Put(_ context.Context, rec *Record) (string, error) {
	if rec == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "nil record")
	}
	prepare(rec)
	cp := *rec
	s.mu.Lock()
	s.records[cp.ID] = &cp
	s.mu.Unlock()
	return cp.ID, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
