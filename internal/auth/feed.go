package auth

import (
	"context"
	"sync"

	"github.com/mhalloran/golfsync/internal/model"
)

// Feed delivers auth-state changes: the signed-in user, or nil on sign
// out. The current state is delivered first, asynchronously via the
// channel buffer.
type Feed struct {
	ch     chan *model.User
	cancel func()
	once   sync.Once
}

// Updates returns the delivery channel.
func (f *Feed) Updates() <-chan *model.User {
	return f.ch
}

// Cancel detaches the feed.
func (f *Feed) Cancel() {
	f.once.Do(f.cancel)
}

func (f *Feed) push(user *model.User) {
	select {
	case f.ch <- user:
	default:
	}
}

// OnAuthStateChanged subscribes to auth-state transitions, starting with
// the current user (or nil).
func (s *Service) OnAuthStateChanged(ctx context.Context) *Feed {
	current := s.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	f := &Feed{ch: make(chan *model.User, 4)}
	f.cancel = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		close(f.ch)
	}
	s.subs[id] = f
	f.push(current)
	return f
}

// notify pushes under the registration lock, so a cancelled feed can
// never be pushed after its channel closes.
func (s *Service) notify(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.subs {
		f.push(user)
	}
}
