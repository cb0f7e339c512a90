package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brainbolt/backend/internal/models"
)

var ErrVersionConflict = errors.New("version conflict")

// ConflictError carries the version the store holds at the time of the
// failed swap. It matches ErrVersionConflict under errors.Is.
type ConflictError struct {
	Current int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict: current version is %d", e.Current)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// Store holds one AdaptiveState per identity. Version 0 means the
// identity has never been written; Load then returns default state.
type Store interface {
	Load(ctx context.Context, identity string) (models.AdaptiveState, int64, error)
	// CompareAndSwap writes next only if the stored version equals
	// expected, and returns the new version (expected+1).
	CompareAndSwap(ctx context.Context, identity string, expected int64, next models.AdaptiveState) (int64, error)
}

func encode(s models.AdaptiveState) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (models.AdaptiveState, error) {
	var s models.AdaptiveState
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.AdaptiveState{}, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}
