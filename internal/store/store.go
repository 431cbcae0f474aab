// Package store owns the prompt record and collection sequences and every
// mutation on them. Persistence is an injected side effect: after each
// successful mutation the full sequence is handed to the Persister, so the
// durable copy is always a whole-sequence snapshot and never a torn state.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptnest/promptnest/internal/models"
	"github.com/promptnest/promptnest/internal/storage"
	"github.com/promptnest/promptnest/internal/template"
	"github.com/promptnest/promptnest/internal/view"
)

// maxHistory bounds the embedded version history per record; oldest entries
// are discarded first.
const maxHistory = 50

var (
	ErrRecordNotFound     = errors.New("store: record not found")
	ErrCollectionNotFound = errors.New("store: collection not found")
)

// Store is safe for concurrent use by HTTP handlers.
type Store struct {
	mu          sync.Mutex
	records     []models.PromptRecord
	collections []models.Collection
	filter      models.FilterConfig
	sortOpt     models.SortOption
	selection   map[string]struct{}
	persister   *storage.Persister
	now         func() int64
}

func New(p *storage.Persister) *Store {
	return &Store{
		filter:    models.DefaultFilter(),
		sortOpt:   models.SortNewest,
		selection: make(map[string]struct{}),
		persister: p,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Load pulls the persisted sequences into memory. On first run (nothing
// stored) the seed data is installed and written back. A parse error on
// either key abandons that key's load and falls back to seed data; the
// corrupt value is left untouched for inspection.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var parseErr error

	records, err := s.persister.LoadRecords(ctx)
	var pe *storage.ParseError
	if errors.As(err, &pe) {
		parseErr = err
		records = nil
	} else if err != nil {
		return err
	}
	if records == nil {
		records = SeedRecords(s.now())
		if err := s.persister.SaveRecords(ctx, records); err != nil {
			return err
		}
	}
	s.records = records

	collections, err := s.persister.LoadCollections(ctx)
	if errors.As(err, &pe) {
		parseErr = err
		collections = nil
	} else if err != nil {
		return err
	}
	if collections == nil {
		collections = SeedCollections(s.now())
		if err := s.persister.SaveCollections(ctx, collections); err != nil {
			return err
		}
	}
	s.collections = collections

	return parseErr
}

// Records returns a snapshot of the full record sequence in storage order
// (most recently created first, prior to any explicit sort).
func (s *Store) Records() []models.PromptRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PromptRecord(nil), s.records...)
}

func (s *Store) Collections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Collection(nil), s.collections...)
}

func (s *Store) Get(id string) (models.PromptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.records {
		if p.ID == id {
			return p, nil
		}
	}
	return models.PromptRecord{}, ErrRecordNotFound
}

// Create inserts the record at the front of the sequence. A missing ID is
// assigned, timestamps are set, and variables are derived from the primary
// text regardless of what the caller supplied.
func (s *Store) Create(ctx context.Context, rec models.PromptRecord) (models.PromptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Variables = template.Derive(rec.Variables, rec.PromptPrimary)
	rec.History = nil

	s.records = append([]models.PromptRecord{rec}, s.records...)
	return rec, s.persister.SaveRecords(ctx, s.records)
}

// Update replaces the record with the same ID. A history entry holding the
// pre-edit snapshot is pushed (newest first) iff the title, primary or
// secondary text changed; the history is capped at maxHistory entries.
func (s *Store) Update(ctx context.Context, id string, rec models.PromptRecord) (models.PromptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.records {
		if s.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.PromptRecord{}, ErrRecordNotFound
	}

	prev := s.records[idx]
	rec.ID = prev.ID
	rec.CreatedAt = prev.CreatedAt
	rec.UpdatedAt = s.now()
	rec.Variables = template.Derive(rec.Variables, rec.PromptPrimary)

	rec.History = prev.History
	if textChanged(&prev, &rec) {
		entry := models.PromptVersion{
			ID:              uuid.NewString(),
			Timestamp:       prev.UpdatedAt,
			Title:           prev.Title,
			PromptPrimary:   prev.PromptPrimary,
			PromptSecondary: prev.PromptSecondary,
		}
		rec.History = append([]models.PromptVersion{entry}, prev.History...)
		if len(rec.History) > maxHistory {
			rec.History = rec.History[:maxHistory]
		}
	}

	s.records[idx] = rec
	return rec, s.persister.SaveRecords(ctx, s.records)
}

func textChanged(prev, next *models.PromptRecord) bool {
	return prev.Title != next.Title ||
		prev.PromptPrimary != next.PromptPrimary ||
		prev.PromptSecondary != next.PromptSecondary
}

// Delete removes one record and drops it from the selection set.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.BatchDelete(ctx, []string{id})
}

// BatchDelete removes every record whose ID is listed. Unknown IDs are
// ignored; the call fails only when persistence fails.
func (s *Store) BatchDelete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(s.selection, id)
	}

	kept := s.records[:0:0]
	for _, p := range s.records {
		if _, gone := drop[p.ID]; !gone {
			kept = append(kept, p)
		}
	}
	s.records = kept

	// Deleting the last record of the filtered collection leaves an empty
	// view; the collection filter resets to "all".
	if c := s.filter.CollectionID; c != "" && c != models.FilterAll {
		remaining := false
		for i := range s.records {
			if s.records[i].CollectionID == c {
				remaining = true
				break
			}
		}
		if !remaining {
			s.filter.CollectionID = models.FilterAll
		}
	}
	return s.persister.SaveRecords(ctx, s.records)
}

// MoveToCollection sets collectionID on every listed record; an empty
// collectionID clears the reference (uncategorized).
func (s *Store) MoveToCollection(ctx context.Context, ids []string, collectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	move := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		move[id] = struct{}{}
	}
	for i := range s.records {
		if _, ok := move[s.records[i].ID]; ok {
			s.records[i].CollectionID = collectionID
		}
	}
	return s.persister.SaveRecords(ctx, s.records)
}

// MarkCopied bumps the usage counter recorded when the compiled prompt is
// copied out.
func (s *Store) MarkCopied(ctx context.Context, id string) error {
	return s.bump(ctx, id, func(p *models.PromptRecord) { p.CopyCount++ })
}

func (s *Store) MarkViewed(ctx context.Context, id string) error {
	return s.bump(ctx, id, func(p *models.PromptRecord) { p.ViewCount++ })
}

func (s *Store) bump(ctx context.Context, id string, fn func(*models.PromptRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			fn(&s.records[i])
			return s.persister.SaveRecords(ctx, s.records)
		}
	}
	return ErrRecordNotFound
}

// AddCollection creates a collection with a fresh ID.
func (s *Store) AddCollection(ctx context.Context, name string) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := models.Collection{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now(),
	}
	s.collections = append(s.collections, col)
	return col, s.persister.SaveCollections(ctx, s.collections)
}

// RenameCollection is a no-op when the trimmed name is empty.
func (s *Store) RenameCollection(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collections {
		if s.collections[i].ID == id {
			s.collections[i].Name = name
			return s.persister.SaveCollections(ctx, s.collections)
		}
	}
	return ErrCollectionNotFound
}

// DeleteCollection removes the collection and clears collectionId on every
// record that referenced it; records themselves are never cascade-deleted.
// When the active filter pointed at the deleted collection it resets to "all".
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.collections {
		if s.collections[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCollectionNotFound
	}

	s.collections = append(s.collections[:idx], s.collections[idx+1:]...)
	if err := s.persister.SaveCollections(ctx, s.collections); err != nil {
		return err
	}

	for i := range s.records {
		if s.records[i].CollectionID == id {
			s.records[i].CollectionID = ""
		}
	}
	if s.filter.CollectionID == id {
		s.filter.CollectionID = models.FilterAll
	}
	return s.persister.SaveRecords(ctx, s.records)
}

// ReplaceAll swaps in an imported data set. Collections are replaced only
// when the import carried them. The selection is cleared, and a filter that
// referenced a collection absent from the new set resets to "all".
func (s *Store) ReplaceAll(ctx context.Context, records []models.PromptRecord, collections []models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.selection = make(map[string]struct{})
	if err := s.persister.SaveRecords(ctx, s.records); err != nil {
		return err
	}

	if collections != nil {
		s.collections = collections
		if err := s.persister.SaveCollections(ctx, s.collections); err != nil {
			return err
		}
	}

	if s.filter.CollectionID != models.FilterAll && !s.hasCollection(s.filter.CollectionID) {
		s.filter.CollectionID = models.FilterAll
	}
	return nil
}

func (s *Store) hasCollection(id string) bool {
	for _, c := range s.collections {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Filter returns the active filter config.
func (s *Store) Filter() models.FilterConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Store) SetFilter(f models.FilterConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.OutputKind == "" {
		f.OutputKind = models.FilterAll
	}
	if f.CollectionID == "" {
		f.CollectionID = models.FilterAll
	}
	if f.Model == "" {
		f.Model = models.FilterAll
	}
	s.filter = f
}

func (s *Store) Sort() models.SortOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortOpt
}

func (s *Store) SetSort(opt models.SortOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opt.Valid() {
		s.sortOpt = opt
	}
}

// Select adds a record to the batch-selection set; unknown IDs are ignored
// at delete time, so no existence check is made here.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection[id] = struct{}{}
}

func (s *Store) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selection, id)
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]struct{})
}

// Selected returns the selected IDs in record-sequence order.
func (s *Store) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, p := range s.records {
		if _, ok := s.selection[p.ID]; ok {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// View computes the derived record list for the active filter and sort.
func (s *Store) View() []models.PromptRecord {
	s.mu.Lock()
	records := append([]models.PromptRecord(nil), s.records...)
	filter := s.filter
	sortOpt := s.sortOpt
	s.mu.Unlock()
	return view.Apply(records, filter, sortOpt)
}
