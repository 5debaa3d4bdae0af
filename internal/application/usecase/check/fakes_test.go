package check

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// Monday 2025-03-10 14:30 UTC.
var testNow = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

var errStore = errors.New("store unavailable")

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeRepository struct {
	mu          sync.Mutex
	nextID      int
	checks      map[string]*entity.Check
	removed     map[string]*entity.RemovedCheck
	createErr   error
	softDelErr  error
	subscribers map[int]adapter.SnapshotHandler
	nextSub     int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		checks:      make(map[string]*entity.Check),
		removed:     make(map[string]*entity.RemovedCheck),
		subscribers: make(map[int]adapter.SnapshotHandler),
	}
}

func (r *fakeRepository) seed(check *entity.Check) *entity.Check {
	r.mu.Lock()
	defer r.mu.Unlock()
	if check.ID == "" {
		r.nextID++
		check.ID = fmt.Sprintf("chk%d", r.nextID)
	}
	c := *check
	r.checks[c.ID] = &c
	return check
}

func (r *fakeRepository) active() []*entity.Check {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Check, 0, len(r.checks))
	for _, c := range r.checks {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

func (r *fakeRepository) emit() {
	snapshot := r.active()
	r.mu.Lock()
	handlers := make([]adapter.SnapshotHandler, 0, len(r.subscribers))
	for _, h := range r.subscribers {
		handlers = append(handlers, h)
	}
	r.mu.Unlock()
	for _, h := range handlers {
		h(snapshot)
	}
}

func (r *fakeRepository) Subscribe(_ context.Context, _ uuid.UUID, onSnapshot adapter.SnapshotHandler, _ adapter.ErrorHandler) adapter.Unsubscribe {
	r.mu.Lock()
	r.nextSub++
	id := r.nextSub
	r.subscribers[id] = onSnapshot
	r.mu.Unlock()

	onSnapshot(r.active())

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			r.mu.Unlock()
		})
	}
}

func (r *fakeRepository) Create(_ context.Context, check *entity.Check) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.mu.Lock()
	r.nextID++
	id := fmt.Sprintf("chk%d", r.nextID)
	r.mu.Unlock()

	check.ID = id
	r.seed(check)
	return id, nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*entity.Check, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[id]
	if !ok {
		return nil, domainerror.ErrCheckNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Check, error) {
	out := make([]*entity.Check, 0)
	for _, c := range r.active() {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepository) Update(_ context.Context, id string, update entity.CheckUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[id]
	if !ok {
		return domainerror.ErrCheckNotFound
	}
	c.Apply(update)
	return nil
}

func (r *fakeRepository) SoftDelete(_ context.Context, id string, removedAt time.Time) error {
	if r.softDelErr != nil {
		return r.softDelErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[id]
	if !ok {
		return domainerror.ErrCheckNotFound
	}
	removed := entity.ToRemovedCheck(c, removedAt)
	removed.ID = "rm-" + id
	r.removed[removed.ID] = removed
	delete(r.checks, id)
	return nil
}

func (r *fakeRepository) FindRemovedByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.RemovedCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.RemovedCheck, 0)
	for _, rc := range r.removed {
		if rc.Check.OwnerID == ownerID {
			copied := *rc
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRepository) FindRemovedByID(_ context.Context, id string) (*entity.RemovedCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rc, ok := r.removed[id]
	if !ok {
		return nil, domainerror.ErrRemovedCheckNotFound
	}
	copied := *rc
	return &copied, nil
}

func (r *fakeRepository) Restore(_ context.Context, removed *entity.RemovedCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.checks[removed.OriginalID]; exists {
		return domainerror.ErrCheckAlreadyExists
	}
	r.checks[removed.OriginalID] = removed.Restore()
	delete(r.removed, removed.ID)
	return nil
}

type fakeSink struct {
	mu          sync.Mutex
	scheduled   map[string]*entity.Reminder
	cancelled   []string
	scheduleErr error
	cancelErr   error
}

func newFakeSink() *fakeSink {
	return &fakeSink{scheduled: make(map[string]*entity.Reminder)}
}

func (s *fakeSink) Schedule(_ context.Context, reminders []*entity.Reminder) error {
	if s.scheduleErr != nil {
		return s.scheduleErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range reminders {
		s.scheduled[r.ID] = r
	}
	return nil
}

func (s *fakeSink) Cancel(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, ids...)
	if s.cancelErr != nil {
		return s.cancelErr
	}
	for _, id := range ids {
		delete(s.scheduled, id)
	}
	return nil
}

func (s *fakeSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.scheduled))
	for id := range s.scheduled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
