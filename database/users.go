package database

import (
	"context"
	"database/sql"
	"everywrite/models"
	"fmt"
)

// ==================== USER OPERATIONS ====================

// InsertUser stores a new user. An existing email yields ErrDuplicateUser.
func (r *Repository) InsertUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, username, password, created_at)
		VALUES (?, ?, ?, ?)
	`, user.Email, user.Username, user.Password, user.CreatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, user.Email)
	}
	if err != nil {
		return err
	}

	r.db.broker.Publish(TableUsers)
	return nil
}

// Login returns the user with email when password matches, or nil.
func (r *Repository) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}

	if !PasswordMatches(user.Password, password) {
		return nil, nil
	}
	return user, nil
}

// GetUserByEmail retrieves a user by primary key
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `SELECT email, username, password, created_at FROM users WHERE email = ?`, email)
}

// GetUserByUsername retrieves the first user registered under username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `
		SELECT email, username, password, created_at
		FROM users
		WHERE username = ?
		ORDER BY created_at ASC
		LIMIT 1
	`, username)
}

func (r *Repository) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.Email, &user.Username, &user.Password, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
