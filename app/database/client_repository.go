package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type clientRepository struct {
	db *DB
}

// NewClientRepository creates a SQLite-backed client repository
func NewClientRepository(db *DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) List(ctx context.Context) ([]Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM clients
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Name, &client.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}

	return clients, nil
}

func (r *clientRepository) Get(ctx context.Context, id int) (*Client, error) {
	var client Client
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM clients
		WHERE id = ?
	`, id).Scan(&client.ID, &client.Name, &client.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, name string) (*Client, error) {
	now := time.Now().UTC()

	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clients (id, name, created_at)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM clients), ?, ?)
		RETURNING id
	`, name, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{ID: id, Name: name, CreatedAt: now}, nil
}

func (r *clientRepository) Update(ctx context.Context, id int, name string) (*Client, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET name = ?
		WHERE id = ?
	`, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
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

func (r *clientRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
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
