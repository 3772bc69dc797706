package repository

import (
	"errors"
	"net"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

func TestMapRedisError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "noauth", err: errors.New("NOAUTH Authentication required."), target: domain.ErrUnauthorized},
		{name: "wrongpass", err: errors.New("WRONGPASS invalid username-password pair"), target: domain.ErrUnauthorized},
		{name: "noperm", err: errors.New("NOPERM User default has no permissions to run the 'hset' command"), target: domain.ErrPermissionDenied},
		{name: "dial failure", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, target: ErrRedisConnection},
		{name: "closed client", err: redis.ErrClosed, target: ErrRedisConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRedisError(tt.err)
			if !errors.Is(got, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, got)
			}
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		err := errors.New("ERR unknown command 'hsetx'")
		if got := mapRedisError(err); got != err {
			t.Errorf("expected error to pass through, got %v", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if got := mapRedisError(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
