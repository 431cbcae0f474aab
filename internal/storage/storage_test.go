package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptnest/promptnest/internal/models"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	// Stored values are isolated from later mutation of the returned slice.
	got[0] = 'X'
	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), again)

	assert.NoError(t, kv.Ping(ctx))
	assert.NoError(t, kv.Close())
}

func TestPersister_RecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(NewMemoryKV())

	records := []models.PromptRecord{{
		ID:         "r1",
		Title:      "Saved",
		OutputKind: models.OutputImage,
		Variables:  []models.PromptVariable{{Key: "k", Label: "K"}},
		Rating:     &models.PromptRating{Stability: 7, Creativity: 9},
		CreatedAt:  100,
		UpdatedAt:  200,
	}}

	require.NoError(t, p.SaveRecords(ctx, records))
	got, err := p.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestPersister_EmptyBackendLoadsNil(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(NewMemoryKV())

	records, err := p.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Nil(t, records)

	collections, err := p.LoadCollections(ctx)
	require.NoError(t, err)
	assert.Nil(t, collections)
}

func TestPersister_CorruptValueIsParseError(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyRecords, []byte("][ garbage")))

	p := NewPersister(kv)
	_, err := p.LoadRecords(ctx)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KeyRecords, perr.Key)

	// The corrupt value is left in place for inspection.
	raw, gerr := kv.Get(ctx, KeyRecords)
	require.NoError(t, gerr)
	assert.Equal(t, []byte("][ garbage"), raw)
}

func TestPersister_Theme(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(NewMemoryKV())

	theme, err := p.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", theme, "unset theme defaults to light")

	require.NoError(t, p.SaveTheme(ctx, "dark"))
	theme, err = p.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}
