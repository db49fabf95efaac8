package model

import "time"

// Moderation statuses shared by posts and comments.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusFlagged  = "flagged"
)

const unknownAuthor = "Unknown"

// Post is a community post awaiting or past moderation.
type Post struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	AuthorID      Ref       `json:"authorId"`
	AuthorName    string    `json:"authorName,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	Views         int       `json:"views"`
	Likes         int       `json:"likes"`
	CommentsCount int       `json:"commentsCount"`
}

func (p Post) GetID() string { return p.ID }

// Author falls back from the denormalized name to the populated author.
func (p Post) Author() string {
	if p.AuthorName != "" {
		return p.AuthorName
	}
	return p.AuthorID.NameOr(unknownAuthor)
}

// Comment is a reply on a post.
type Comment struct {
	ID         string    `json:"_id"`
	Content    string    `json:"content"`
	AuthorID   Ref       `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	PostID     Ref       `json:"postId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c Comment) GetID() string { return c.ID }

func (c Comment) Author() string {
	if c.AuthorName != "" {
		return c.AuthorName
	}
	return c.AuthorID.NameOr(unknownAuthor)
}

// PostFilter holds the posts page filters.
type PostFilter struct {
	Status string `json:"status" form:"status" binding:"omitempty,oneof=pending approved rejected flagged"`
	Search string `json:"search" form:"search"`
}

// CommentFilter holds the comments page filters.
type CommentFilter struct {
	Status string `json:"status" form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// ModerationRequest carries the optional notes or reason of a moderation action.
type ModerationRequest struct {
	Notes  string `json:"notes,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// BulkPostsRequest is the body of the bulk post moderation endpoints.
type BulkPostsRequest struct {
	PostIDs []string `json:"postIds"`
	Notes   string   `json:"notes,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// BulkCommentsRequest is the body of the bulk comment moderation endpoints.
type BulkCommentsRequest struct {
	CommentIDs []string `json:"commentIds"`
}
