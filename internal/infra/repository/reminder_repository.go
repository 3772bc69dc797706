package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/observability/tracing"
)

const (
	reminderKeyPrefix   = "reminders:"
	reminderOrderSuffix = ":order"

	redisSystem = "redis"

	maxUpdateRetries = 3
)

type reminderRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ReminderTime time.Time `json:"reminder_time"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       string    `json:"user_id"`
}

func recordFromReminder(r domain.Reminder) reminderRecord {
	return reminderRecord{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		ReminderTime: r.ReminderTime.UTC(),
		IsCompleted:  r.IsCompleted,
		CreatedAt:    r.CreatedAt.UTC(),
		UserID:       r.UserID,
	}
}

func (rec reminderRecord) toDomain() domain.Reminder {
	return domain.Reminder{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		ReminderTime: rec.ReminderTime,
		IsCompleted:  rec.IsCompleted,
		CreatedAt:    rec.CreatedAt,
		UserID:       rec.UserID,
	}
}

// reminderRepository keeps each user's reminders in a hash of JSON records
// (reminders:<user>) plus a sorted set of ids scored by creation time
// (reminders:<user>:order).
type reminderRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewReminderRepository(client redis.UniversalClient) domain.ReminderRepository {
	return &reminderRepository{
		client: client,
		now:    time.Now,
	}
}

func reminderKey(userID string) string {
	return reminderKeyPrefix + userID
}

func reminderOrderKey(userID string) string {
	return reminderKeyPrefix + userID + reminderOrderSuffix
}

func (r *reminderRepository) List(ctx context.Context, userID string) ([]domain.Reminder, error) {
	ctx, span := tracing.StartRepositorySpan(ctx, redisSystem, "list")
	defer span.End()

	ids, err := r.client.ZRevRange(ctx, reminderOrderKey(userID), 0, -1).Result()
	if err != nil {
		tracing.RecordError(span, err)
		return nil, mapRedisError(err)
	}
	if len(ids) == 0 {
		return []domain.Reminder{}, nil
	}

	values, err := r.client.HMGet(ctx, reminderKey(userID), ids...).Result()
	if err != nil {
		tracing.RecordError(span, err)
		return nil, mapRedisError(err)
	}

	reminders := make([]domain.Reminder, 0, len(values))
	for _, v := range values {
		// nil when a delete lands between ZRevRange and HMGet
		data, ok := v.(string)
		if !ok {
			continue
		}
		var rec reminderRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			tracing.RecordError(span, err)
			return nil, ErrInvalidReminderData
		}
		reminders = append(reminders, rec.toDomain())
	}

	return reminders, nil
}

func (r *reminderRepository) Insert(ctx context.Context, in domain.NewReminder) (*domain.Reminder, error) {
	ctx, span := tracing.StartRepositorySpan(ctx, redisSystem, "insert")
	defer span.End()

	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidReminderData
	}

	created := domain.Reminder{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		ReminderTime: in.ReminderTime.UTC(),
		IsCompleted:  false,
		CreatedAt:    r.now().UTC(),
		UserID:       in.UserID,
	}

	data, err := json.Marshal(recordFromReminder(created))
	if err != nil {
		return nil, ErrInvalidReminderData
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, reminderKey(in.UserID), created.ID, data)
	pipe.ZAdd(ctx, reminderOrderKey(in.UserID), redis.Z{
		Score:  float64(created.CreatedAt.UnixNano()),
		Member: created.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		tracing.RecordError(span, err)
		return nil, mapRedisError(err)
	}

	return &created, nil
}

// Update applies patch under WATCH so a concurrent write to the same user's
// hash is retried instead of lost.
func (r *reminderRepository) Update(ctx context.Context, userID, id string, patch domain.ReminderPatch) error {
	ctx, span := tracing.StartRepositorySpan(ctx, redisSystem, "update")
	defer span.End()

	key := reminderKey(userID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, key, id).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrReminderNotFound
			}
			return err
		}

		var rec reminderRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return ErrInvalidReminderData
		}
		if patch.IsCompleted != nil {
			rec.IsCompleted = *patch.IsCompleted
		}

		updated, err := json.Marshal(rec)
		if err != nil {
			return ErrInvalidReminderData
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, updated)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxUpdateRetries; i++ {
		err = r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		tracing.RecordError(span, err)
		return mapRedisError(err)
	}

	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, span := tracing.StartRepositorySpan(ctx, redisSystem, "delete")
	defer span.End()

	pipe := r.client.TxPipeline()
	removed := pipe.HDel(ctx, reminderKey(userID), id)
	pipe.ZRem(ctx, reminderOrderKey(userID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		tracing.RecordError(span, err)
		return mapRedisError(err)
	}

	if removed.Val() == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}
