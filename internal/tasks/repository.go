package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tasklist/internal/storage"
)

// Repository reads and writes the whole task list as one JSON array stored
// under a single key.
type Repository struct {
	backend storage.Backend
	key     string
}

func NewRepository(backend storage.Backend, key string) *Repository {
	return &Repository{backend: backend, key: key}
}

// Load returns the persisted tasks. found is false when nothing was ever saved.
func (r *Repository) Load(ctx context.Context) (tasks []Task, found bool, err error) {
	data, err := r.backend.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", r.key, err)
	}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return tasks, true, nil
}

// Save replaces the persisted list with tasks.
func (r *Repository) Save(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := r.backend.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}
