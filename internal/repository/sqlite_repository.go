package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studio/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateContact(ctx context.Context, c *model.Contact) error {
	query := "INSERT INTO contacts (id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Message, c.CreatedAt); err != nil {
		return fmt.Errorf("could not insert contact: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	query := "SELECT id, name, email, message, created_at FROM contacts WHERE id = ?"
	var c model.Contact
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListContacts returns the newest submissions first. A non-positive limit
// returns all of them.
func (r *sqliteRepository) ListContacts(ctx context.Context, limit int) ([]*model.Contact, error) {
	query := "SELECT id, name, email, message, created_at FROM contacts ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

func (r *sqliteRepository) DeleteContact(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
