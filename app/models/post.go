package models

import "errors"

// AddComment appends a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}
	if comment.PostID != p.ID {
		return errors.New("comment belongs to a different post")
	}

	p.Comments = append(p.Comments, comment)
	return nil
}

// Normalize replaces a nil comment list with an empty one so the post always
// encodes "comments" as an array.
func (p *Post) Normalize() {
	if p.Comments == nil {
		p.Comments = []*Comment{}
	}
}
