package items

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]entities.Item
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]entities.Item),
	}
}

// Get retrieves an item by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errItemIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.store[input.ID]
	if !ok {
		return nil, errors.NotFoundf("item %s not found", input.ID)
	}
	return &GetOutput{Item: &item}, nil
}

// GetMany retrieves several items
func (r *InMemoryRepository) GetMany(_ context.Context, input GetManyInput) (*GetManyOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := &GetManyOutput{Items: make(map[string]*entities.Item, len(input.IDs))}
	for _, id := range input.IDs {
		if id == "" {
			return nil, errors.InvalidArgument(errItemIDEmpty)
		}
		item, ok := r.store[id]
		if !ok {
			output.Missing = append(output.Missing, id)
			continue
		}
		output.Items[id] = &item
	}
	return output, nil
}

// Put stores items, replacing existing ones
func (r *InMemoryRepository) Put(_ context.Context, input PutInput) (*PutOutput, error) {
	for _, item := range input.Items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range input.Items {
		r.store[item.ID] = *item
	}
	return &PutOutput{Count: len(input.Items)}, nil
}

// Delete removes an item
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errItemIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[input.ID]; !ok {
		return nil, errors.NotFoundf("item %s not found", input.ID)
	}
	delete(r.store, input.ID)
	return &DeleteOutput{}, nil
}
