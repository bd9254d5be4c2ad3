// Package model defines domain entities for the application.
package model

import "time"

// Blog is a blog-post record.
// OwnerID is the only link between a post and its creator; the list of posts
// belonging to a user is always derived by querying on it.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	OwnerID   string    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasOwner reports whether the post is associated with a user.
func (b *Blog) HasOwner() bool {
	return b.OwnerID != ""
}

// OwnedBy reports whether userID owns the post.
func (b *Blog) OwnedBy(userID string) bool {
	return b.HasOwner() && b.OwnerID == userID
}

// Summary returns the short form of the post embedded in user listings.
func (b *Blog) Summary() BlogSummary {
	return BlogSummary{
		ID:     b.ID,
		URL:    b.URL,
		Title:  b.Title,
		Author: b.Author,
	}
}

// BlogSummary is the subset of a post shown inside a user record.
type BlogSummary struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Author string `json:"author"`
}
