package repositories

import (
	"context"
	"errors"
	"fmt"

	"blogapi/app/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPostRepository implements PostRepository using PostgreSQL
type PostgresPostRepository struct {
	db *DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// Create inserts a new post. The store assigns id and created_at.
func (r *PostgresPostRepository) Create(ctx context.Context, title, content string) (*models.Post, error) {
	post := &models.Post{Comments: []*models.Comment{}}
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			`INSERT INTO posts (title, content) VALUES ($1, $2)
			 RETURNING id, title, content, created_at`,
			title, content,
		).Scan(&post.ID, &post.Title, &post.Content, &post.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetByID retrieves a post by ID without its comments
func (r *PostgresPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT id, title, content, created_at FROM posts WHERE id = $1`, id,
		).Scan(&post.ID, &post.Title, &post.Content, &post.CreatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// Exists reports whether a post with the given ID exists
func (r *PostgresPostRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id,
		).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check post %d: %w", id, err)
	}
	return exists, nil
}

// ListSummaries returns every post, newest first, with its comment count in a
// single round trip.
func (r *PostgresPostRepository) ListSummaries(ctx context.Context) ([]*models.PostSummary, error) {
	posts := []*models.PostSummary{}
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT p.id, p.title, p.created_at, COUNT(c.id) AS comment_count
			FROM posts p
			LEFT JOIN comments c ON p.id = c.post_id
			GROUP BY p.id, p.title, p.created_at
			ORDER BY p.created_at DESC, p.id DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var s models.PostSummary
			if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.CommentCount); err != nil {
				return err
			}
			posts = append(posts, &s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Delete deletes a post by ID. Its comments go with it through the cascade.
func (r *PostgresPostRepository) Delete(ctx context.Context, id int) error {
	var affected int64
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
