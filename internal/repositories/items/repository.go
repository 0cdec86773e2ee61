// Package items provides persistence for the equippable item catalog
package items

//go:generate mockgen -destination=mock/mock_repository.go -package=itemsmock github.com/KirkDiggler/rpg-progression/internal/repositories/items Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Repository defines the interface for item catalog persistence
type Repository interface {
	// Get retrieves a single item
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the item doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetMany retrieves several items at once. Unknown IDs are reported in Missing, not as errors.
	GetMany(ctx context.Context, input GetManyInput) (*GetManyOutput, error)

	// Put creates or replaces items
	// Returns errors.InvalidArgument for validation failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete removes an item
	// Returns errors.NotFound if the item doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting an item
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an item
type GetOutput struct {
	Item *entities.Item
}

// GetManyInput defines the input for getting several items
type GetManyInput struct {
	IDs []string
}

// GetManyOutput defines the output for getting several items
type GetManyOutput struct {
	Items   map[string]*entities.Item
	Missing []string
}

// PutInput defines the input for storing items
type PutInput struct {
	Items []*entities.Item
}

// PutOutput defines the output for storing items
type PutOutput struct {
	Count int
}

// DeleteInput defines the input for deleting an item
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting an item
type DeleteOutput struct{}

func validateItem(item *entities.Item) error {
	vb := errors.NewValidationBuilder()
	if item == nil {
		return vb.RequiredField("item").Build()
	}
	if item.ID == "" {
		vb.RequiredField("id")
	}
	if !item.Slot.IsValid() {
		vb.Fieldf("slot", "unknown slot %q", item.Slot)
	}
	return vb.Build()
}
