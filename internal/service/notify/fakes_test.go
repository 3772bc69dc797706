package notify

import (
	"context"
	"sync"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

type fakePlatform struct {
	mu         sync.Mutex
	permission domain.Permission
	supported  bool
	shown      []domain.NativeNotification
}

func newFakePlatform(p domain.Permission) *fakePlatform {
	return &fakePlatform{permission: p, supported: true}
}

func (f *fakePlatform) Permission() domain.Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permission
}

func (f *fakePlatform) Supported() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.supported
}

func (f *fakePlatform) RequestPermission(context.Context) (domain.Permission, error) {
	return f.Permission(), nil
}

func (f *fakePlatform) Show(_ context.Context, n domain.NativeNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, n)
}

func (f *fakePlatform) shownCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shown)
}

type fakeToaster struct {
	mu     sync.Mutex
	toasts []domain.ToastNotification
}

func (f *fakeToaster) Toast(_ context.Context, t domain.ToastNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, t)
}

func (f *fakeToaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.toasts)
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []domain.FiredNotification
	err     error
}

func (f *fakeRecorder) RecordFired(_ context.Context, r domain.FiredNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
	return f.err
}

func (f *fakeRecorder) Close() error {
	return nil
}

// blockingRecorder holds every RecordFired call until release is closed.
type blockingRecorder struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingRecorder() *blockingRecorder {
	return &blockingRecorder{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingRecorder) RecordFired(ctx context.Context, _ domain.FiredNotification) error {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return nil
}

func (b *blockingRecorder) Close() error {
	return nil
}
