package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot is the durable representation of the whole roster. Every mutation
// re-serializes this structure in full; there is no incremental log.
type Snapshot struct {
	Participants map[int64]SnapshotParticipant `json:"participants"`
	ExternalIDs  map[string]int64              `json:"external_ids"`
	NextID       int64                         `json:"next_id"`
}

// SnapshotParticipant is one persisted participant record.
type SnapshotParticipant struct {
	Name      string   `json:"display_name"`
	Score     int      `json:"score"`
	Track     string   `json:"track"`
	QuizFlags []string `json:"quiz_flags,omitempty"`
}

// Gateway loads and saves roster snapshots.
type Gateway interface {
	// Load reads the last saved snapshot. Returns os.ErrNotExist wrapped in
	// ErrSnapshot when no snapshot has ever been written.
	Load(ctx context.Context) (Snapshot, error)

	// Save overwrites the durable snapshot.
	Save(ctx context.Context, snap Snapshot) error
}

// FileGateway persists snapshots as a single JSON file with atomic replace.
type FileGateway struct {
	path string
}

// NewFileGateway creates a gateway writing to path.
func NewFileGateway(path string) *FileGateway {
	return &FileGateway{path: path}
}

// Load reads and decodes the snapshot file.
func (g *FileGateway) Load(_ context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: read %s: %w", ErrSnapshot, g.path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode %s: %w", ErrSnapshot, g.path, err)
	}
	if snap.NextID < 1 {
		snap.NextID = 1
	}
	return snap, nil
}

// Save writes the snapshot to a temp file and renames it into place, so a
// crash mid-write never leaves a truncated snapshot behind.
func (g *FileGateway) Save(_ context.Context, snap Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrSnapshot, err)
	}
	dir := filepath.Dir(g.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(g.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temp file: %w", ErrSnapshot, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("%w: write: %w", ErrSnapshot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: close: %w", ErrSnapshot, err)
	}
	if err := os.Rename(name, g.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: rename: %w", ErrSnapshot, err)
	}
	return nil
}

// IsMissing reports whether err means no snapshot exists yet, as opposed to
// a corrupt or unreadable one.
func IsMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
