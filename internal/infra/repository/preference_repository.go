package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

const preferenceKeyPrefix = "preferences:"

type preferenceRepository struct {
	client redis.UniversalClient
}

// NewPreferenceRepository stores each user's preferences in the hash preferences:<user>.
func NewPreferenceRepository(client redis.UniversalClient) domain.PreferenceRepository {
	return &preferenceRepository{
		client: client,
	}
}

func (r *preferenceRepository) GetBool(ctx context.Context, userID, key string) (bool, bool, error) {
	val, err := r.client.HGet(ctx, preferenceKeyPrefix+userID, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, mapRedisError(err)
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false, nil
	}

	return b, true, nil
}

func (r *preferenceRepository) SetBool(ctx context.Context, userID, key string, value bool) error {
	return mapRedisError(r.client.HSet(ctx, preferenceKeyPrefix+userID, key, strconv.FormatBool(value)).Err())
}
