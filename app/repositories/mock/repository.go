package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// store is the in-memory state shared by the mock repositories so that the
// foreign key and cascade rules hold across them.
type store struct {
	mutex         sync.RWMutex
	posts         map[int]*models.Post
	comments      map[int]*models.Comment
	nextPostID    int
	nextCommentID int
	clock         time.Time
	err           error
}

// now returns a strictly increasing timestamp so ordering is deterministic.
func (s *store) now() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

// PostRepository is an in-memory repositories.PostRepository.
type PostRepository struct {
	s *store
}

// CommentRepository is an in-memory repositories.CommentRepository.
type CommentRepository struct {
	s *store
}

// NewRepositories returns post and comment repositories backed by one shared
// in-memory store.
func NewRepositories() (*PostRepository, *CommentRepository) {
	s := &store{
		posts:         make(map[int]*models.Post),
		comments:      make(map[int]*models.Comment),
		nextPostID:    1,
		nextCommentID: 1,
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return &PostRepository{s: s}, &CommentRepository{s: s}
}

// SetError makes every subsequent call fail with err. Pass nil to recover.
func (m *PostRepository) SetError(err error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	m.s.err = err
}

// CommentRows returns the number of stored comments.
func (m *CommentRepository) CommentRows() int {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	return len(m.s.comments)
}

// Create stores a new post with the next id.
func (m *PostRepository) Create(ctx context.Context, title, content string) (*models.Post, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}

	post := &models.Post{
		ID:        m.s.nextPostID,
		Title:     title,
		Content:   content,
		CreatedAt: m.s.now(),
	}
	m.s.nextPostID++
	m.s.posts[post.ID] = post

	out := *post
	out.Comments = []*models.Comment{}
	return &out, nil
}

// GetByID returns a copy of the post without comments.
func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.err != nil {
		return nil, m.s.err
	}

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *post
	return &out, nil
}

// Exists reports whether the post is stored.
func (m *PostRepository) Exists(ctx context.Context, id int) (bool, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.err != nil {
		return false, m.s.err
	}

	_, exists := m.s.posts[id]
	return exists, nil
}

// ListSummaries returns posts newest first with their comment counts.
func (m *PostRepository) ListSummaries(ctx context.Context) ([]*models.PostSummary, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.err != nil {
		return nil, m.s.err
	}

	counts := make(map[int]int)
	for _, c := range m.s.comments {
		counts[c.PostID]++
	}

	summaries := []*models.PostSummary{}
	for _, p := range m.s.posts {
		summaries = append(summaries, &models.PostSummary{
			ID:           p.ID,
			Title:        p.Title,
			CreatedAt:    p.CreatedAt,
			CommentCount: counts[p.ID],
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Delete removes the post and its comments.
func (m *PostRepository) Delete(ctx context.Context, id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.err != nil {
		return m.s.err
	}

	if _, exists := m.s.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.posts, id)
	for cid, c := range m.s.comments {
		if c.PostID == id {
			delete(m.s.comments, cid)
		}
	}
	return nil
}

// Create stores a comment, failing with ErrNotFound when the post is absent.
func (m *CommentRepository) Create(ctx context.Context, postID int, content string) (*models.Comment, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.err != nil {
		return nil, m.s.err
	}

	if _, exists := m.s.posts[postID]; !exists {
		return nil, repositories.ErrNotFound
	}
	comment := &models.Comment{
		ID:        m.s.nextCommentID,
		Content:   content,
		CreatedAt: m.s.now(),
		PostID:    postID,
	}
	m.s.nextCommentID++
	m.s.comments[comment.ID] = comment

	out := *comment
	return &out, nil
}

// ListByPost returns the post's comments oldest first.
func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.err != nil {
		return nil, m.s.err
	}

	comments := []*models.Comment{}
	for _, c := range m.s.comments {
		if c.PostID == postID {
			out := *c
			comments = append(comments, &out)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
