package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
)

const blogColumns = `id, title, author, url, likes, owner_id, created_at, updated_at`

// BlogRepo implements repository.BlogRepository using PostgreSQL.
type BlogRepo struct{ db *DB }

// NewBlogRepo constructs a blog repository.
func NewBlogRepo(db *DB) *BlogRepo { return &BlogRepo{db: db} }

// List returns every post in creation order.
func (r *BlogRepo) List(ctx context.Context) ([]model.Blog, error) {
	const q = `SELECT ` + blogColumns + ` FROM blogs ORDER BY id`
	return r.query(ctx, q)
}

// ListByOwners returns the posts owned by any of ownerIDs.
func (r *BlogRepo) ListByOwners(ctx context.Context, ownerIDs []string) ([]model.Blog, error) {
	if len(ownerIDs) == 0 {
		return []model.Blog{}, nil
	}
	const q = `SELECT ` + blogColumns + ` FROM blogs WHERE owner_id = ANY($1) ORDER BY id`
	return r.query(ctx, q, ownerIDs)
}

func (r *BlogRepo) query(ctx context.Context, q string, args ...any) ([]model.Blog, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blogs: %w", err)
	}
	return blogs, nil
}

// Get retrieves a post by id.
func (r *BlogRepo) Get(ctx context.Context, id string) (*model.Blog, error) {
	if err := repository.CheckID(id); err != nil {
		return nil, err
	}

	const q = `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`
	blog, err := scanBlog(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return blog, nil
}

// Create inserts a new post.
func (r *BlogRepo) Create(ctx context.Context, b *model.Blog) error {
	const q = `
INSERT INTO blogs (id, title, author, url, likes, owner_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Pool.Exec(ctx, q, b.ID, b.Title, b.Author, b.URL, b.Likes, nullable(b.OwnerID), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// Update replaces the mutable fields and reloads b from the stored row.
func (r *BlogRepo) Update(ctx context.Context, b *model.Blog) error {
	if err := repository.CheckID(b.ID); err != nil {
		return err
	}

	const q = `
UPDATE blogs
SET title = $2, author = $3, url = $4, likes = $5, updated_at = $6
WHERE id = $1
RETURNING ` + blogColumns
	updated, err := scanBlog(r.db.Pool.QueryRow(ctx, q, b.ID, b.Title, b.Author, b.URL, b.Likes, b.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrBlogNotFound
		}
		return fmt.Errorf("failed to update blog: %w", err)
	}

	*b = *updated
	return nil
}

// Delete removes a post.
func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	if err := repository.CheckID(id); err != nil {
		return err
	}

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrBlogNotFound
	}
	return nil
}

// DeleteByOwner removes every post owned by ownerID.
func (r *BlogRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM blogs WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete blogs by owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBlog(row pgx.Row) (*model.Blog, error) {
	var b model.Blog
	var owner *string
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &owner, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.OwnerID = deref(owner)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}
