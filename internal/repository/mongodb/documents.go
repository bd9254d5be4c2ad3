package mongodb

import (
	"time"

	"github.com/bloglist/bloglist/internal/model"
)

type blogDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Author    string    `bson:"author"`
	URL       string    `bson:"url"`
	Likes     int       `bson:"likes"`
	OwnerID   string    `bson:"owner_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newBlogDocument(b *model.Blog) blogDocument {
	return blogDocument{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		URL:       b.URL,
		Likes:     b.Likes,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (d *blogDocument) toModel() model.Blog {
	return model.Blog{
		ID:        d.ID,
		Title:     d.Title,
		Author:    d.Author,
		URL:       d.URL,
		Likes:     d.Likes,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Name         string    `bson:"name,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func newUserDocument(u *model.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (d *userDocument) toModel() model.User {
	return model.User{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
