package repositories

import (
	"context"
	"fmt"

	"blogapi/app/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentRepository implements CommentRepository using PostgreSQL
type PostgresCommentRepository struct {
	db *DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// Create inserts a comment for postID. A missing post yields ErrNotFound.
func (r *PostgresCommentRepository) Create(ctx context.Context, postID int, content string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			`INSERT INTO comments (content, post_id) VALUES ($1, $2)
			 RETURNING id, content, created_at, post_id`,
			content, postID,
		).Scan(&comment.ID, &comment.Content, &comment.CreatedAt, &comment.PostID)
	})
	if isForeignKeyViolation(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT id, content, created_at, post_id
			 FROM comments WHERE post_id = $1
			 ORDER BY created_at ASC, id ASC`, postID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c models.Comment
			if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.PostID); err != nil {
				return err
			}
			comments = append(comments, &c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	return comments, nil
}
