package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ItemRepository implements the item repository interface over Postgres.
type ItemRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(database *db.Database, logger *logrus.Logger) ports.ItemRepository {
	return &ItemRepository{db: database, logger: logger}
}

// Create inserts a new item
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.DB.ExecContext(ctx, query, it.ID, it.Name, it.Description, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	var it item.Item
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM items
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &it, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item with ID %s: %w", id, item.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	return &it, nil
}

// Update updates an existing item
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, it.ID, it.Name, it.Description, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item with ID %s: %w", it.ID, item.ErrNotFound)
	}
	return nil
}

// Delete deletes an item by ID
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item with ID %s: %w", id, item.ErrNotFound)
	}
	if r.logger != nil {
		r.logger.WithField("id", id).Debug("item row deleted")
	}
	return nil
}

// List retrieves items with pagination, newest first
func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]*item.Item, error) {
	items := []*item.Item{}
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM items
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	if err := r.db.DB.SelectContext(ctx, &items, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Count returns the total number of items
func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM items`); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
