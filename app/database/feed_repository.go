package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type feedRepository struct {
	db *DB
}

// NewFeedRepository creates a SQLite-backed feed repository
func NewFeedRepository(db *DB) FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `id, client_id, username, layout, posts_count, columns, spacing,
	border_radius, show_captions, access_token, app_id, app_secret, use_real_api,
	embed_code, created_at, updated_at`

func scanFeed(row interface{ Scan(...any) error }) (*Feed, error) {
	var feed Feed
	err := row.Scan(
		&feed.ID, &feed.ClientID, &feed.Username,
		&feed.Settings.Layout, &feed.Settings.PostsCount, &feed.Settings.Columns,
		&feed.Settings.Spacing, &feed.Settings.BorderRadius, &feed.Settings.ShowCaptions,
		&feed.APISettings.AccessToken, &feed.APISettings.AppID,
		&feed.APISettings.AppSecret, &feed.APISettings.UseRealAPI,
		&feed.EmbedCode, &feed.CreatedAt, &feed.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (r *feedRepository) List(ctx context.Context) ([]Feed, error) {
	return r.queryFeeds(ctx, `SELECT `+feedColumns+` FROM feeds ORDER BY id`)
}

func (r *feedRepository) ListByClient(ctx context.Context, clientID int) ([]Feed, error) {
	return r.queryFeeds(ctx, `SELECT `+feedColumns+` FROM feeds WHERE client_id = ? ORDER BY id`, clientID)
}

func (r *feedRepository) queryFeeds(ctx context.Context, query string, args ...any) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

func (r *feedRepository) Get(ctx context.Context, id int) (*Feed, error) {
	feed, err := scanFeed(r.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM feeds WHERE id = ?`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

func (r *feedRepository) Create(ctx context.Context, feed Feed) (*Feed, error) {
	now := time.Now().UTC()

	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO feeds (id, client_id, username, layout, posts_count, columns, spacing,
			border_radius, show_captions, access_token, app_id, app_secret, use_real_api,
			embed_code, created_at, updated_at)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM feeds),
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, feed.ClientID, feed.Username,
		feed.Settings.Layout, feed.Settings.PostsCount, feed.Settings.Columns,
		feed.Settings.Spacing, feed.Settings.BorderRadius, feed.Settings.ShowCaptions,
		feed.APISettings.AccessToken, feed.APISettings.AppID,
		feed.APISettings.AppSecret, feed.APISettings.UseRealAPI,
		feed.EmbedCode, now, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed: %w", err)
	}

	feed.ID = id
	feed.CreatedAt = now
	feed.UpdatedAt = now
	return &feed, nil
}

func (r *feedRepository) Update(ctx context.Context, id int, feed Feed) (*Feed, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE feeds
		SET client_id = ?, username = ?, layout = ?, posts_count = ?, columns = ?,
			spacing = ?, border_radius = ?, show_captions = ?, access_token = ?,
			app_id = ?, app_secret = ?, use_real_api = ?, embed_code = ?, updated_at = ?
		WHERE id = ?
	`, feed.ClientID, feed.Username,
		feed.Settings.Layout, feed.Settings.PostsCount, feed.Settings.Columns,
		feed.Settings.Spacing, feed.Settings.BorderRadius, feed.Settings.ShowCaptions,
		feed.APISettings.AccessToken, feed.APISettings.AppID,
		feed.APISettings.AppSecret, feed.APISettings.UseRealAPI,
		feed.EmbedCode, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update feed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, id)
}

func (r *feedRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
