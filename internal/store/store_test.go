package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptnest/promptnest/internal/models"
	"github.com/promptnest/promptnest/internal/storage"
)

func newTestStore(t *testing.T) (*Store, storage.KV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s := New(storage.NewPersister(kv))
	var tick int64
	s.now = func() int64 { tick++; return tick }
	require.NoError(t, s.Load(context.Background()))
	return s, kv
}

func TestLoad_SeedsOnFirstRun(t *testing.T) {
	s, _ := newTestStore(t)

	assert.NotEmpty(t, s.Records())
	assert.NotEmpty(t, s.Collections())
}

func TestLoad_ParseErrorFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, storage.KeyRecords, []byte("{not json")))

	s := New(storage.NewPersister(kv))
	err := s.Load(ctx)

	var perr *storage.ParseError
	require.ErrorAs(t, err, &perr)
	assert.NotEmpty(t, s.Records(), "seed data installed despite the corrupt value")
}

func TestLoad_ExistingData(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	p := storage.NewPersister(kv)
	require.NoError(t, p.SaveRecords(ctx, []models.PromptRecord{{ID: "mine", Title: "Mine"}}))

	s := New(p)
	require.NoError(t, s.Load(ctx))

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "mine", records[0].ID)
}

func TestCreate_FrontInsert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.PromptRecord{Title: "First"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	second, err := s.Create(ctx, models.PromptRecord{Title: "Second"})
	require.NoError(t, err)

	records := s.Records()
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, created.ID, records[1].ID)
}

func TestCreate_DerivesVariables(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.Create(context.Background(), models.PromptRecord{
		Title:         "Templated",
		PromptPrimary: "a {{subject}} in {{setting}}",
	})
	require.NoError(t, err)

	require.Len(t, created.Variables, 2)
	assert.Equal(t, "subject", created.Variables[0].Key)
	assert.Equal(t, "Subject", created.Variables[0].Label)
	assert.Equal(t, "setting", created.Variables[1].Key)
}

func TestUpdate_HistoryOnTextChange(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.PromptRecord{Title: "v1", PromptPrimary: "one"})
	require.NoError(t, err)

	// Non-text edit: no history entry.
	created.Model = "Midjourney"
	updated, err := s.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Empty(t, updated.History)

	// Text edit: the pre-edit snapshot is pushed, newest first.
	updated.PromptPrimary = "two"
	updated, err = s.Update(ctx, created.ID, updated)
	require.NoError(t, err)
	require.Len(t, updated.History, 1)
	assert.Equal(t, "one", updated.History[0].PromptPrimary)
	assert.Equal(t, "v1", updated.History[0].Title)

	updated.Title = "v2"
	updated, err = s.Update(ctx, created.ID, updated)
	require.NoError(t, err)
	require.Len(t, updated.History, 2)
	assert.Equal(t, "two", updated.History[0].PromptPrimary)
}

func TestUpdate_HistoryCapped(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, models.PromptRecord{Title: "t", PromptPrimary: "v0"})
	require.NoError(t, err)

	for i := 1; i <= maxHistory+10; i++ {
		rec.PromptPrimary = fmt.Sprintf("v%d", i)
		rec, err = s.Update(ctx, rec.ID, rec)
		require.NoError(t, err)
	}

	assert.Len(t, rec.History, maxHistory)
	// Newest snapshot first, oldest discarded.
	assert.Equal(t, fmt.Sprintf("v%d", maxHistory+9), rec.History[0].PromptPrimary)
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.PromptRecord{Title: "keep"})
	require.NoError(t, err)

	imposter := created
	imposter.ID = "spoofed"
	imposter.CreatedAt = 99999
	imposter.Title = "changed"

	updated, err := s.Update(ctx, created.ID, imposter)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update(context.Background(), "missing", models.PromptRecord{Title: "x"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDelete_ClearsSelection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, models.PromptRecord{Title: "doomed"})
	require.NoError(t, err)
	s.Select(rec.ID)
	require.Contains(t, s.Selected(), rec.ID)

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(rec.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NotContains(t, s.Selected(), rec.ID)
}

func TestBatchDelete_IgnoresUnknownIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, models.PromptRecord{Title: "a"})
	b, _ := s.Create(ctx, models.PromptRecord{Title: "b"})
	before := len(s.Records())

	require.NoError(t, s.BatchDelete(ctx, []string{a.ID, b.ID, "no-such-id"}))
	assert.Len(t, s.Records(), before-2)
}

func TestMoveToCollection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, models.PromptRecord{Title: "a"})
	b, _ := s.Create(ctx, models.PromptRecord{Title: "b"})

	require.NoError(t, s.MoveToCollection(ctx, []string{a.ID, b.ID}, "col-1"))
	got, _ := s.Get(a.ID)
	assert.Equal(t, "col-1", got.CollectionID)

	// Empty target clears the reference.
	require.NoError(t, s.MoveToCollection(ctx, []string{a.ID}, ""))
	got, _ = s.Get(a.ID)
	assert.Empty(t, got.CollectionID)
}

func TestMarkCopiedAndViewed(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, _ := s.Create(ctx, models.PromptRecord{Title: "counted"})
	require.NoError(t, s.MarkCopied(ctx, rec.ID))
	require.NoError(t, s.MarkCopied(ctx, rec.ID))
	require.NoError(t, s.MarkViewed(ctx, rec.ID))

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CopyCount)
	assert.Equal(t, 1, got.ViewCount)

	assert.ErrorIs(t, s.MarkCopied(ctx, "missing"), ErrRecordNotFound)
}

func TestRenameCollection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	col, err := s.AddCollection(ctx, "Drafts")
	require.NoError(t, err)

	require.NoError(t, s.RenameCollection(ctx, col.ID, "  Finals  "))
	for _, c := range s.Collections() {
		if c.ID == col.ID {
			assert.Equal(t, "Finals", c.Name)
		}
	}

	// Blank name is a silent no-op, even for unknown IDs.
	require.NoError(t, s.RenameCollection(ctx, "missing", "   "))
	assert.ErrorIs(t, s.RenameCollection(ctx, "missing", "real"), ErrCollectionNotFound)
}

func TestDelete_LastRecordOfFilteredCollectionResetsFilter(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	col, err := s.AddCollection(ctx, "Shrinking")
	require.NoError(t, err)
	a, _ := s.Create(ctx, models.PromptRecord{Title: "a", CollectionID: col.ID})
	b, _ := s.Create(ctx, models.PromptRecord{Title: "b", CollectionID: col.ID})

	f := models.DefaultFilter()
	f.CollectionID = col.ID
	s.SetFilter(f)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.Equal(t, col.ID, s.Filter().CollectionID, "one record still references the collection")

	require.NoError(t, s.Delete(ctx, b.ID))
	assert.Equal(t, models.FilterAll, s.Filter().CollectionID)
}

func TestDeleteCollection_CascadeAndFilterReset(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	col, err := s.AddCollection(ctx, "Doomed")
	require.NoError(t, err)
	rec, err := s.Create(ctx, models.PromptRecord{Title: "member", CollectionID: col.ID})
	require.NoError(t, err)

	f := models.DefaultFilter()
	f.CollectionID = col.ID
	s.SetFilter(f)

	require.NoError(t, s.DeleteCollection(ctx, col.ID))

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CollectionID, "record survives but is uncategorized")
	assert.Equal(t, models.FilterAll, s.Filter().CollectionID)

	assert.ErrorIs(t, s.DeleteCollection(ctx, col.ID), ErrCollectionNotFound)
}

func TestReplaceAll(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	old, _ := s.Create(ctx, models.PromptRecord{Title: "old"})
	s.Select(old.ID)

	f := models.DefaultFilter()
	f.CollectionID = "gone-after-import"
	s.SetFilter(f)

	imported := []models.PromptRecord{{ID: "imp-1", Title: "Imported"}}
	require.NoError(t, s.ReplaceAll(ctx, imported, []models.Collection{{ID: "c1", Name: "C"}}))

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "imp-1", records[0].ID)
	assert.Empty(t, s.Selected())
	assert.Equal(t, models.FilterAll, s.Filter().CollectionID)
}

func TestReplaceAll_LegacyKeepsCollections(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Collections()

	require.NoError(t, s.ReplaceAll(context.Background(), []models.PromptRecord{{ID: "r"}}, nil))
	assert.Equal(t, before, s.Collections())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	s := New(storage.NewPersister(kv))
	require.NoError(t, s.Load(ctx))
	created, err := s.Create(ctx, models.PromptRecord{Title: "durable"})
	require.NoError(t, err)

	// A second store over the same backend sees the write.
	s2 := New(storage.NewPersister(kv))
	require.NoError(t, s2.Load(ctx))
	got, err := s2.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Title)
}

func TestView_UsesStoredFilterAndSort(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, nil, nil))
	a, _ := s.Create(ctx, models.PromptRecord{Title: "alpha", OutputKind: models.OutputImage})
	_, err := s.Create(ctx, models.PromptRecord{Title: "beta", OutputKind: models.OutputVideo})
	require.NoError(t, err)

	f := models.DefaultFilter()
	f.OutputKind = string(models.OutputImage)
	s.SetFilter(f)

	got := s.View()
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestSetSort_RejectsInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSort(models.SortRating)
	s.SetSort(models.SortOption("bogus"))
	assert.Equal(t, models.SortRating, s.Sort())
}
