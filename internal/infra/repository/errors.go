package repository

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidReminderData = errors.New("invalid reminder data")
)

// mapRedisError turns redis ACL failures into the domain authorization errors
// and transport failures into ErrRedisConnection.
func mapRedisError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case strings.HasPrefix(msg, "NOPERM"):
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, msg)
	default:
		return err
	}
}
