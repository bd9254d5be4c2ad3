// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/service"
	"github.com/bloglist/bloglist/internal/stats"
)

// BlogRequest is the body of POST /api/blogs and PUT /api/blogs/{id}.
type BlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// ToInput converts the request into service input.
func (r BlogRequest) ToInput() service.BlogInput {
	return service.BlogInput{
		Title:  r.Title,
		Author: r.Author,
		URL:    r.URL,
		Likes:  r.Likes,
	}
}

// BlogResponse represents a post in API responses.
type BlogResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Author    string         `json:"author"`
	URL       string         `json:"url"`
	Likes     int            `json:"likes"`
	User      *model.UserRef `json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToBlogResponse converts service output to a BlogResponse.
func ToBlogResponse(b *service.BlogDetails) *BlogResponse {
	return &BlogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		URL:       b.URL,
		Likes:     b.Likes,
		User:      b.Owner,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBlogListResponse converts a slice of posts. Never returns nil.
func ToBlogListResponse(blogs []service.BlogDetails) []BlogResponse {
	out := make([]BlogResponse, len(blogs))
	for i := range blogs {
		out[i] = *ToBlogResponse(&blogs[i])
	}
	return out
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string              `json:"id"`
	Username  string              `json:"username"`
	Name      string              `json:"name"`
	Blogs     []model.BlogSummary `json:"blogs"`
	CreatedAt time.Time           `json:"created_at"`
}

// ToUserResponse converts service output to a UserResponse.
func ToUserResponse(u *service.UserDetails) *UserResponse {
	blogs := u.Blogs
	if blogs == nil {
		blogs = []model.BlogSummary{}
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Blogs:     blogs,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserListResponse converts a slice of users. Never returns nil.
func ToUserListResponse(users []service.UserDetails) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *ToUserResponse(&users[i])
	}
	return out
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// StatsResponse is the body of GET /api/stats. The favorite post uses the
// same view as /api/blogs.
type StatsResponse struct {
	TotalBlogs   int                `json:"totalBlogs"`
	TotalLikes   int                `json:"totalLikes"`
	FavoriteBlog *BlogResponse      `json:"favoriteBlog"`
	MostBlogs    *stats.AuthorBlogs `json:"mostBlogs"`
	MostLikes    *stats.AuthorLikes `json:"mostLikes"`
}

// ToStatsResponse summarizes blogs and renders the favorite with its owner.
func ToStatsResponse(blogs []service.BlogDetails) *StatsResponse {
	posts := make([]model.Blog, len(blogs))
	for i := range blogs {
		posts[i] = blogs[i].Blog
	}
	sum := stats.Summarize(posts)

	resp := &StatsResponse{
		TotalBlogs: sum.TotalBlogs,
		TotalLikes: sum.TotalLikes,
		MostBlogs:  sum.MostBlogs,
		MostLikes:  sum.MostLikes,
	}
	if sum.FavoriteBlog != nil {
		for i := range blogs {
			if blogs[i].ID == sum.FavoriteBlog.ID {
				resp.FavoriteBlog = ToBlogResponse(&blogs[i])
				break
			}
		}
	}
	return resp
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
