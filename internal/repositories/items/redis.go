package items

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-progression/internal/entities"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-progression/internal/redis"
)

const (
	itemKeyPrefix = "item:"

	errItemIDEmpty = "item ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis item repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed item repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errItemIDEmpty)
	}

	result, err := r.client.Get(ctx, GetKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("item %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get item %s", input.ID)
	}

	var item entities.Item
	if err := json.Unmarshal([]byte(result), &item); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal item %s", input.ID)
	}

	return &GetOutput{Item: &item}, nil
}

func (r *redisRepository) GetMany(ctx context.Context, input GetManyInput) (*GetManyOutput, error) {
	output := &GetManyOutput{Items: make(map[string]*entities.Item, len(input.IDs))}
	if len(input.IDs) == 0 {
		return output, nil
	}

	keys := make([]string, len(input.IDs))
	for i, id := range input.IDs {
		if id == "" {
			return nil, errors.InvalidArgument(errItemIDEmpty)
		}
		keys[i] = GetKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %d items", len(keys))
	}

	for i, v := range values {
		id := input.IDs[i]
		raw, ok := v.(string)
		if !ok {
			output.Missing = append(output.Missing, id)
			continue
		}
		var item entities.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal item %s", id)
		}
		output.Items[id] = &item
	}

	return output, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if len(input.Items) == 0 {
		return &PutOutput{}, nil
	}

	pipe := r.client.TxPipeline()
	for _, item := range input.Items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
		data, err := json.Marshal(item)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal item %s", item.ID)
		}
		pipe.Set(ctx, GetKey(item.ID), data, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to store items")
	}

	return &PutOutput{Count: len(input.Items)}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errItemIDEmpty)
	}

	deleted, err := r.client.Del(ctx, GetKey(input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete item %s", input.ID)
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("item %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

// GetKey returns the Redis key for an item
// Exposed for testing purposes
func GetKey(itemID string) string {
	return fmt.Sprintf("%s%s", itemKeyPrefix, itemID)
}
