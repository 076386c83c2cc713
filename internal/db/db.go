package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB initializes a new database connection pool
func NewDB(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close(ctx context.Context) error {
	db.Pool.Close()
	return nil
}

// CreateUser inserts a new user
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash, role string) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) "+
			"RETURNING id, name, email, password_hash, role, created_at, updated_at",
		name, email, passwordHash, role).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email. Returns nil without error if no
// user has that email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx,
		"SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID. Returns nil without error if absent.
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx,
		"SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE id = $1",
		id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users, most recent first
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT id, name, email, password_hash, role, created_at, updated_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser persists name, email, role and password hash changes
func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE users SET name = $1, email = $2, role = $3, password_hash = $4, updated_at = NOW() WHERE id = $5",
		user.Name, user.Email, user.Role, user.PasswordHash, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user; items and proposals cascade via foreign keys
func (db *DB) DeleteUser(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListCategories retrieves all categories
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.Pool.Query(ctx, "SELECT id, name, slug FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a new category
func (db *DB) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	category := &models.Category{}
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		name, slug).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
