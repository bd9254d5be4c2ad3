// Package seed loads a demo account and the sample reading list.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
	"github.com/bloglist/bloglist/internal/service"
)

// Blogs is the sample reading list. Likes total 36; the favorite has 12.
var Blogs = []model.Blog{
	{Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: 7},
	{Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: 5},
	{Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", URL: "http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html", Likes: 12},
	{Title: "First class tests", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/05/05/TestDefinitions.htmll", Likes: 10},
	{Title: "TDD harms architecture", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/03/03/TDD-Harms-Architecture.html", Likes: 0},
	{Title: "Type wars", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2016/05/01/TypeWars.html", Likes: 2},
}

// Options selects the account that owns the seeded posts.
type Options struct {
	Username string
	Name     string
	Password string
}

// Result describes what Run stored.
type Result struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	UserCreated bool     `json:"user_created"`
	BlogIDs     []string `json:"blog_ids"`
}

// Run creates the account unless it already exists and adds the sample
// posts owned by it.
func Run(ctx context.Context, store repository.Store, users *service.UserService, blogs *service.BlogService, opts Options) (*Result, error) {
	res := &Result{Username: opts.Username}

	created, err := users.Create(ctx, service.CreateUserInput{
		Username: opts.Username,
		Name:     opts.Name,
		Password: opts.Password,
	})
	switch {
	case err == nil:
		res.UserID = created.ID
		res.UserCreated = true
	case errors.Is(err, service.ErrUsernameTaken):
		existing, err := store.Users().GetByUsername(ctx, opts.Username)
		if err != nil {
			return nil, fmt.Errorf("look up existing user: %w", err)
		}
		res.UserID = existing.ID
	default:
		return nil, fmt.Errorf("create user: %w", err)
	}

	for _, b := range Blogs {
		likes := b.Likes
		post, err := blogs.Create(ctx, service.BlogInput{
			Title:  b.Title,
			Author: b.Author,
			URL:    b.URL,
			Likes:  &likes,
		}, res.UserID)
		if err != nil {
			return nil, fmt.Errorf("create blog %q: %w", b.Title, err)
		}
		res.BlogIDs = append(res.BlogIDs, post.ID)
	}

	return res, nil
}
