package viewstate

import (
	"errors"
	"sync"
)

// ErrUnsupported is returned when the platform cannot change fullscreen.
var ErrUnsupported = errors.New("fullscreen is not supported")

// Subscription is a standing change subscription.
type Subscription interface {
	Unsubscribe()
}

// Fullscreen is the platform's fullscreen capability. Change callbacks
// fire for every status change, requested or not (an escape gesture, for
// example).
type Fullscreen interface {
	IsActive() bool
	Enter() error
	Exit() error
	OnChange(fn func()) Subscription
}

// listeners is a small callback registry shared by Fullscreen implementations.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

type subscription struct {
	once sync.Once
	stop func()
}

func (s *subscription) Unsubscribe() { s.once.Do(s.stop) }

func (l *listeners) add(fn func()) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return &subscription{stop: func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}}
}

func (l *listeners) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Requester asks the client to enter (true) or leave (false) fullscreen.
// It returns false when no client is connected to ask.
type Requester func(enter bool) bool

// RemoteFullscreen is a Fullscreen whose real state lives in a browser.
// Enter and Exit forward a request to the client; the client answers by
// calling Report with its actual status.
type RemoteFullscreen struct {
	mu        sync.Mutex
	active    bool
	requester Requester
	listeners listeners
}

// NewRemoteFullscreen returns a RemoteFullscreen that sends requests
// through requester.
func NewRemoteFullscreen(requester Requester) *RemoteFullscreen {
	return &RemoteFullscreen{requester: requester}
}

// IsActive returns the last status the client reported.
func (f *RemoteFullscreen) IsActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Enter asks the client to go fullscreen.
func (f *RemoteFullscreen) Enter() error { return f.request(true) }

// Exit asks the client to leave fullscreen.
func (f *RemoteFullscreen) Exit() error { return f.request(false) }

func (f *RemoteFullscreen) request(enter bool) error {
	if f.requester == nil || !f.requester(enter) {
		return ErrUnsupported
	}
	return nil
}

// OnChange registers fn for status changes.
func (f *RemoteFullscreen) OnChange(fn func()) Subscription {
	return f.listeners.add(fn)
}

// Report records the client's real status and notifies listeners when it
// changed.
func (f *RemoteFullscreen) Report(active bool) {
	f.mu.Lock()
	changed := f.active != active
	f.active = active
	f.mu.Unlock()
	if changed {
		f.listeners.notify()
	}
}

// Subscribers returns the number of live subscriptions.
func (f *RemoteFullscreen) Subscribers() int {
	return f.listeners.len()
}
