// Package users is the session-wide user cache shared by every view.
package users

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/idilsaglam/userboard/internal/model"
)

// ErrNotFound is returned when updating a user the cache does not hold.
var ErrNotFound = errors.New("user not found")

// Fetcher loads the full user collection.
type Fetcher interface {
	FetchUsers(ctx context.Context) ([]model.User, error)
}

// Store holds the users fetched for this session. It is safe for concurrent
// use: loads run inside tea.Cmd goroutines while views read on the event loop.
type Store struct {
	fetch Fetcher
	log   logrus.FieldLogger
	group singleflight.Group

	mu      sync.RWMutex
	list    []model.User
	byID    map[int]int // id -> index in list
	loading bool
	err     error
	version uint64
	subs    map[int]func()
	nextSub int
}

func NewStore(f Fetcher, log logrus.FieldLogger) *Store {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Store{
		fetch: f,
		log:   log.WithField("component", "users"),
		byID:  map[int]int{},
		subs:  map[int]func(){},
	}
}

// Load fetches the user list and replaces the cache. Concurrent calls share
// one in-flight request. On failure the previous list is kept.
func (s *Store) Load(ctx context.Context) error {
	_, err, shared := s.group.Do("users", func() (any, error) {
		s.mu.Lock()
		s.loading = true
		s.err = nil
		s.mu.Unlock()

		list, err := s.fetch.FetchUsers(ctx)

		s.mu.Lock()
		s.loading = false
		if err != nil {
			s.err = err
			s.mu.Unlock()
			s.log.WithError(err).Warn("fetch users failed")
			return nil, err
		}
		s.replaceLocked(list)
		s.mu.Unlock()
		s.log.WithField("count", len(list)).Debug("users loaded")
		s.notify()
		return nil, nil
	})
	if shared {
		s.log.Debug("joined in-flight users fetch")
	}
	return err
}

// EnsureLoaded fetches only when the cache is empty.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.Len() > 0 {
		return nil
	}
	return s.Load(ctx)
}

func (s *Store) replaceLocked(list []model.User) {
	s.list = append([]model.User(nil), list...)
	s.byID = make(map[int]int, len(list))
	for i, u := range s.list {
		s.byID[u.ID] = i
	}
	s.version++
}

// Update commits an edited user into the cache. It is a local-only write.
func (s *Store) Update(u model.User) error {
	s.mu.Lock()
	i, ok := s.byID[u.ID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.list[i] = u
	s.version++
	s.mu.Unlock()
	s.log.WithField("user_id", u.ID).Debug("user updated")
	s.notify()
	return nil
}

// List returns a copy of the cached users in arrival order.
func (s *Store) List() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.User(nil), s.list...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

func (s *Store) Get(id int) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.User{}, false
	}
	return s.list[i], true
}

// Name returns the user's name, or model.UnknownUser when absent.
func (s *Store) Name(id int) string {
	if u, ok := s.Get(id); ok {
		return u.Name
	}
	return model.UnknownUser
}

// Annotate projects todos into TodoViews carrying their owner's name.
func (s *Store) Annotate(todos []model.Todo) []model.TodoView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TodoView, len(todos))
	for i, t := range todos {
		name := model.UnknownUser
		if j, ok := s.byID[t.UserID]; ok {
			name = s.list[j].Name
		}
		out[i] = model.TodoView{Todo: t, OwnerName: name}
	}
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err is the error of the most recent failed fetch, nil after a success.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Version changes every time the cached list changes.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to run after every change. The returned func
// unsubscribes. fn runs on the goroutine that made the change.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
