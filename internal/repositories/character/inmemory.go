package character

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage.
// Characters are held encoded so callers never share maps or slices with the store.
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository. A nil clock uses system time.
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		store: make(map[string][]byte),
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}
	char := input.Character

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[char.ID]; exists {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", char.ID)
	}

	now := r.clock.Now().Unix()
	if char.CreatedAt == 0 {
		char.CreatedAt = now
	}
	char.UpdatedAt = now

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}
	r.store[char.ID] = data

	return &CreateOutput{Character: char}, nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	char, err := decodeCharacter(string(data))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: char}, nil
}

// Update replaces a stored character when the incoming version is newer
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}
	char := input.Character

	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.store[char.ID]
	if !exists {
		return nil, errors.NotFoundf("character with ID %s not found", char.ID)
	}
	existing, err := decodeCharacter(string(data))
	if err != nil {
		return nil, err
	}
	if existing.Version >= char.Version {
		return nil, versionConflict(char.ID, existing.Version, char.Version)
	}

	char.CreatedAt = existing.CreatedAt
	char.UpdatedAt = r.clock.Now().Unix()
	updated, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}
	r.store[char.ID] = updated

	return &UpdateOutput{Character: char}, nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}
	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}

// ListByPlayerID returns every character owned by a player
func (r *InMemoryRepository) ListByPlayerID(
	_ context.Context,
	input ListByPlayerIDInput,
) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	characters := make([]*entities.Character, 0)
	for _, data := range r.store {
		char, err := decodeCharacter(string(data))
		if err != nil {
			return nil, err
		}
		if char.PlayerID == input.PlayerID {
			characters = append(characters, char)
		}
	}
	sortCharacters(characters)

	return &ListByPlayerIDOutput{Characters: characters}, nil
}
