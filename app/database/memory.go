package database

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryClientRepository is an in-memory ClientRepository. It is safe for
// concurrent use; identifiers follow the same max+1 rule as the SQL backend,
// so deleting the highest id and creating again re-issues that id.
type MemoryClientRepository struct {
	mu      sync.Mutex
	clients map[int]Client
}

func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{clients: make(map[int]Client)}
}

func (r *MemoryClientRepository) List(ctx context.Context) ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients := make([]Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })

	return clients, nil
}

func (r *MemoryClientRepository) Get(ctx context.Context, id int) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &client, nil
}

func (r *MemoryClientRepository) Create(ctx context.Context, name string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client := Client{
		ID:        nextID(r.clients),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	r.clients[client.ID] = client

	return &client, nil
}

func (r *MemoryClientRepository) Update(ctx context.Context, id int, name string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	client.Name = name
	r.clients[id] = client

	return &client, nil
}

func (r *MemoryClientRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return ErrNotFound
	}
	delete(r.clients, id)

	return nil
}

// MemoryFeedRepository is the in-memory FeedRepository counterpart.
type MemoryFeedRepository struct {
	mu    sync.Mutex
	feeds map[int]Feed
}

func NewMemoryFeedRepository() *MemoryFeedRepository {
	return &MemoryFeedRepository{feeds: make(map[int]Feed)}
}

func (r *MemoryFeedRepository) List(ctx context.Context) ([]Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(Feed) bool { return true }), nil
}

func (r *MemoryFeedRepository) ListByClient(ctx context.Context, clientID int) ([]Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(f Feed) bool { return f.ClientID == clientID }), nil
}

func (r *MemoryFeedRepository) collect(keep func(Feed) bool) []Feed {
	feeds := make([]Feed, 0, len(r.feeds))
	for _, feed := range r.feeds {
		if keep(feed) {
			feeds = append(feeds, feed)
		}
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].ID < feeds[j].ID })
	return feeds
}

func (r *MemoryFeedRepository) Get(ctx context.Context, id int) (*Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed, ok := r.feeds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &feed, nil
}

func (r *MemoryFeedRepository) Create(ctx context.Context, feed Feed) (*Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	feed.ID = nextID(r.feeds)
	feed.CreatedAt = now
	feed.UpdatedAt = now
	r.feeds[feed.ID] = feed

	return &feed, nil
}

func (r *MemoryFeedRepository) Update(ctx context.Context, id int, feed Feed) (*Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.feeds[id]
	if !ok {
		return nil, ErrNotFound
	}

	feed.ID = id
	feed.CreatedAt = existing.CreatedAt
	feed.UpdatedAt = time.Now().UTC()
	r.feeds[id] = feed

	return &feed, nil
}

func (r *MemoryFeedRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.feeds[id]; !ok {
		return ErrNotFound
	}
	delete(r.feeds, id)

	return nil
}

func nextID[T any](records map[int]T) int {
	max := 0
	for id := range records {
		if id > max {
			max = id
		}
	}
	return max + 1
}
