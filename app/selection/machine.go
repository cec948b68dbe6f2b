// Package selection keeps the console's active client and active feed
// consistent with navigation and user gestures. Every navigation fetch is
// tagged with a generation counter; a completion whose tag no longer matches
// the current generation is discarded, so a slow stale fetch can never
// overwrite a newer selection.
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/feedframe/feedframe/app/database"
)

type State int

const (
	StateNoClient State = iota
	StateClientSelected
	StateFeedSelected
)

func (s State) String() string {
	switch s {
	case StateClientSelected:
		return "client_selected"
	case StateFeedSelected:
		return "feed_selected"
	default:
		return "no_client"
	}
}

// Snapshot is a consistent copy of the machine's state for rendering.
type Snapshot struct {
	State  State
	Client *database.Client
	Feed   *database.Feed
}

type Machine struct {
	clients database.ClientRepository

	mu       sync.Mutex
	gen      uint64
	client   *database.Client
	feed     *database.Feed
	onChange func(Snapshot)
}

func NewMachine(clients database.ClientRepository) *Machine {
	return &Machine{clients: clients}
}

// SetOnChange registers a callback invoked after every state change, outside
// the machine's lock. The callback must not mutate the machine synchronously.
func (m *Machine) SetOnChange(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Navigate resolves a client id from the navigation path. The fetch runs on
// the calling goroutine; if a newer selection was made while it was in
// flight, the result is dropped. A failed fetch that is still current clears
// the selection and surfaces the error; there is no retry.
func (m *Machine) Navigate(ctx context.Context, clientID int) error {
	m.mu.Lock()
	m.gen++
	tag := m.gen
	m.mu.Unlock()

	client, err := m.clients.Get(ctx, clientID)

	m.mu.Lock()
	if tag != m.gen {
		m.mu.Unlock()
		slog.Debug("Discarding stale navigation result", "client_id", clientID)
		return nil
	}

	if err != nil {
		m.client = nil
		m.feed = nil
		snapshot := m.snapshotLocked()
		m.mu.Unlock()
		m.notify(snapshot)
		return fmt.Errorf("failed to load client %d: %w", clientID, err)
	}

	m.client = client
	m.feed = nil
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)

	return nil
}

// NavigateRoot returns to the root view with nothing selected.
func (m *Machine) NavigateRoot() {
	m.mu.Lock()
	m.gen++
	m.client = nil
	m.feed = nil
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)
}

// SelectClient applies an explicit sidebar pick. It invalidates any in-flight
// navigation (last write wins) and clears the active feed.
func (m *Machine) SelectClient(client *database.Client) {
	m.mu.Lock()
	m.gen++
	m.client = client
	m.feed = nil
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)
}

// SelectFeed makes a feed of the active client the active feed.
func (m *Machine) SelectFeed(feed *database.Feed) error {
	m.mu.Lock()
	if m.client == nil {
		m.mu.Unlock()
		return fmt.Errorf("no client selected")
	}
	if feed.ClientID != m.client.ID {
		m.mu.Unlock()
		return fmt.Errorf("feed %d belongs to client %d, not %d", feed.ID, feed.ClientID, m.client.ID)
	}

	m.feed = feed
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)

	return nil
}

// NewFeed clears the feed selection while keeping the client, so the
// configuration form resets to defaults.
func (m *Machine) NewFeed() {
	m.mu.Lock()
	if m.client == nil || m.feed == nil {
		m.mu.Unlock()
		return
	}
	m.feed = nil
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)
}

// AdoptSaved makes a just-saved feed the active feed, so the form and
// preview reflect server-confirmed state rather than local edits.
func (m *Machine) AdoptSaved(feed *database.Feed) {
	m.mu.Lock()
	m.feed = feed
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)
}

// FeedDeleted clears the feed selection if the deleted feed was active.
// Deleting any other feed leaves the selection untouched.
func (m *Machine) FeedDeleted(feedID int) {
	m.mu.Lock()
	if m.feed == nil || m.feed.ID != feedID {
		m.mu.Unlock()
		return
	}
	m.feed = nil
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snapshot)
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	snapshot := Snapshot{State: StateNoClient}
	if m.client != nil {
		client := *m.client
		snapshot.Client = &client
		snapshot.State = StateClientSelected
	}
	if m.feed != nil {
		feed := *m.feed
		snapshot.Feed = &feed
		snapshot.State = StateFeedSelected
	}
	return snapshot
}

func (m *Machine) notify(snapshot Snapshot) {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
