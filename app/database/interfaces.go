package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")

type ClientRepository interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id int) (*Client, error)
	Create(ctx context.Context, name string) (*Client, error)
	Update(ctx context.Context, id int, name string) (*Client, error)
	Delete(ctx context.Context, id int) error
}

type FeedRepository interface {
	List(ctx context.Context) ([]Feed, error)
	ListByClient(ctx context.Context, clientID int) ([]Feed, error)
	Get(ctx context.Context, id int) (*Feed, error)
	Create(ctx context.Context, feed Feed) (*Feed, error)
	Update(ctx context.Context, id int, feed Feed) (*Feed, error)
	Delete(ctx context.Context, id int) error
}
