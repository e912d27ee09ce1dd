// Package storage persists fetched API responses as snapshots.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johan/hyblock-capital-sdk/internal/config"
)

// Snapshot is one API response captured by a survey.
type Snapshot struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"` // endpoint name, e.g. liquidationLevels
	Coin      string          `json:"coin,omitempty"`
	Exchange  string          `json:"exchange,omitempty"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Records   int             `json:"records"`
	Data      json.RawMessage `json:"data"`
}

// NewSnapshot encodes data into a snapshot stamped with a fresh ID.
func NewSnapshot(kind, coin, exchange string, records int, data interface{}) (*Snapshot, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s snapshot: %w", kind, err)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Kind:      kind,
		Coin:      coin,
		Exchange:  exchange,
		FetchedAt: time.Now().UTC(),
		Records:   records,
		Data:      raw,
	}, nil
}

// Decode unmarshals the snapshot payload into out.
func (s *Snapshot) Decode(out interface{}) error {
	if err := json.Unmarshal(s.Data, out); err != nil {
		return fmt.Errorf("decoding %s snapshot: %w", s.Kind, err)
	}
	return nil
}

// Storage defines the interface for storing snapshots.
type Storage interface {
	// Write stores one snapshot.
	Write(s *Snapshot) error

	// Close closes the storage backend.
	Close() error
}

// NullStorage is a no-op storage that discards all data.
type NullStorage struct{}

// NewNullStorage creates a new null storage.
func NewNullStorage() *NullStorage {
	return &NullStorage{}
}

// Write does nothing.
func (s *NullStorage) Write(*Snapshot) error {
	return nil
}

// Close does nothing.
func (s *NullStorage) Close() error {
	return nil
}

// New creates the backend selected by cfg.Type.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "none":
		return NewNullStorage(), nil
	case "file":
		return NewFileStorage(cfg.OutputDir, cfg.RotationInterval)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
