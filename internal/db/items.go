package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/jackc/pgx/v5"
)

// ItemFilter narrows ListItems results. Zero values mean "no filter".
type ItemFilter struct {
	CategoryID int
	Status     string
	Page       int
	Limit      int
}

// CreateItem inserts a new item owned by ownerID
func (db *DB) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	created := &models.Item{}
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO items (title, description, category_id, images, status, owner_id) "+
			"VALUES ($1, $2, $3, $4, $5, $6) "+
			"RETURNING id, title, description, category_id, images, status, owner_id, created_at, updated_at",
		item.Title, item.Description, item.CategoryID, item.Images, item.Status, item.OwnerID).Scan(
		&created.ID, &created.Title, &created.Description, &created.CategoryID, &created.Images,
		&created.Status, &created.OwnerID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return created, nil
}

// GetItem retrieves an item with its owner's name joined in. Returns nil
// without error if absent.
func (db *DB) GetItem(ctx context.Context, id int) (*models.Item, error) {
	item := &models.Item{}
	err := db.Pool.QueryRow(ctx,
		"SELECT i.id, i.title, i.description, i.category_id, i.images, i.status, i.owner_id, u.name, i.created_at, i.updated_at "+
			"FROM items i JOIN users u ON i.owner_id = u.id WHERE i.id = $1",
		id).Scan(&item.ID, &item.Title, &item.Description, &item.CategoryID, &item.Images,
		&item.Status, &item.OwnerID, &item.OwnerName, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems retrieves a page of items plus the total count matching the filter
func (db *DB) ListItems(ctx context.Context, filter ItemFilter) ([]models.Item, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	where := "WHERE ($1 = 0 OR i.category_id = $1) AND ($2 = '' OR i.status = $2)"

	var total int
	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM items i "+where,
		filter.CategoryID, filter.Status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		"SELECT i.id, i.title, i.description, i.category_id, i.images, i.status, i.owner_id, u.name, i.created_at, i.updated_at "+
			"FROM items i JOIN users u ON i.owner_id = u.id "+where+
			" ORDER BY i.created_at DESC LIMIT $3 OFFSET $4",
		filter.CategoryID, filter.Status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.CategoryID, &item.Images,
			&item.Status, &item.OwnerID, &item.OwnerName, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// ListUserItems retrieves all items owned by a user, most recent first
func (db *DB) ListUserItems(ctx context.Context, ownerID int) ([]models.Item, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT id, title, description, category_id, images, status, owner_id, created_at, updated_at "+
			"FROM items WHERE owner_id = $1 ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.CategoryID, &item.Images,
			&item.Status, &item.OwnerID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListAvailableItems retrieves the most recently listed available items,
// capped at limit. Used by the live marketplace feed.
func (db *DB) ListAvailableItems(ctx context.Context, limit int) ([]models.Item, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT i.id, i.title, i.description, i.category_id, i.images, i.status, i.owner_id, u.name, i.created_at, i.updated_at "+
			"FROM items i JOIN users u ON i.owner_id = u.id "+
			"WHERE i.status = 'available' ORDER BY i.created_at DESC LIMIT $1",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list available items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.CategoryID, &item.Images,
			&item.Status, &item.OwnerID, &item.OwnerName, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem persists title, description, category, images and status changes
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE items SET title = $1, description = $2, category_id = $3, images = $4, status = $5, updated_at = NOW() WHERE id = $6",
		item.Title, item.Description, item.CategoryID, item.Images, item.Status, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// DeleteItem removes an item; its proposals (and their ratings) cascade via
// foreign keys
func (db *DB) DeleteItem(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
