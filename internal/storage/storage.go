// Package storage persists the record and collection sequences to a durable
// key-value backend. Every write is a full-value replace of one key; there is
// no partial update and no transactionality beyond last-write-wins.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/promptnest/promptnest/internal/models"
)

// Storage keys. These match the legacy browser-storage names so a Redis dump
// seeded from an exported browser profile loads unchanged.
const (
	KeyRecords     = "promptnest_data"
	KeyCollections = "promptnest_collections"
	KeyTheme       = "promptnest_theme"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a durable key-value store with whole-value semantics.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// ParseError wraps a JSON decode failure on load. Callers abandon the load
// and fall back to seed data instead of partially applying corrupt state.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse stored %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Persister marshals the application state onto a KV backend. It is the
// store's injected save hook: the store calls back after each successful
// mutation with the full sequence to write.
type Persister struct {
	kv KV
}

func NewPersister(kv KV) *Persister {
	return &Persister{kv: kv}
}

func (p *Persister) SaveRecords(ctx context.Context, records []models.PromptRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return p.kv.Set(ctx, KeyRecords, data)
}

func (p *Persister) SaveCollections(ctx context.Context, collections []models.Collection) error {
	data, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("marshal collections: %w", err)
	}
	return p.kv.Set(ctx, KeyCollections, data)
}

// LoadRecords returns (nil, nil) when nothing has been stored yet.
func (p *Persister) LoadRecords(ctx context.Context) ([]models.PromptRecord, error) {
	data, err := p.kv.Get(ctx, KeyRecords)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []models.PromptRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ParseError{Key: KeyRecords, Err: err}
	}
	return records, nil
}

func (p *Persister) LoadCollections(ctx context.Context) ([]models.Collection, error) {
	data, err := p.kv.Get(ctx, KeyCollections)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var collections []models.Collection
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, &ParseError{Key: KeyCollections, Err: err}
	}
	return collections, nil
}

// Theme is stored as a plain string, "light" or "dark".
func (p *Persister) SaveTheme(ctx context.Context, theme string) error {
	return p.kv.Set(ctx, KeyTheme, []byte(theme))
}

func (p *Persister) LoadTheme(ctx context.Context) (string, error) {
	data, err := p.kv.Get(ctx, KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return "light", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
