package repository

import (
	"context"
	"database/sql"

	"socialnet/internal/model"
)

// PostRepo provides CRUD operations for posts.
type PostRepo struct{ db *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{db: db} }

const postColumns = "id,user_id,description,image,created_at,updated_at"

// Create inserts a post and returns its ID.
func (r *PostRepo) Create(ctx context.Context, userID uint64, description, image string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO posts (user_id, description, image) VALUES (?,?,?)",
		userID, description, image)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single post.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.UserID, &p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListByUser returns a user's posts, newest first.
func (r *PostRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update overwrites the description of a post owned by userID.
// ErrForbidden is returned when the post belongs to someone else.
func (r *PostRepo) Update(ctx context.Context, id, userID uint64, description string) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE posts SET description=? WHERE id=?", description, id)
	return err
}

// Delete removes a post owned by userID. Admins pass admin=true to
// bypass the ownership check.
func (r *PostRepo) Delete(ctx context.Context, id, userID uint64, admin bool) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if !admin && owner != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	return err
}

func (r *PostRepo) ownerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM posts WHERE id=? LIMIT 1", id).Scan(&owner)
	return owner, err
}
