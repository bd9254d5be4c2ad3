// Package stats computes aggregate figures over a list of blog posts.
//
// All functions are pure: the input slice is never reordered or modified.
// Ties are broken by input order: the first post or author whose running
// total reaches the maximum wins, even if another author appeared earlier.
package stats

import "github.com/bloglist/bloglist/internal/model"

// AuthorBlogs is the number of posts written by one author.
type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

// AuthorLikes is the sum of likes over one author's posts.
type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Summary bundles every statistic for reporting.
type Summary struct {
	TotalBlogs   int          `json:"totalBlogs"`
	TotalLikes   int          `json:"totalLikes"`
	FavoriteBlog *model.Blog  `json:"favoriteBlog"`
	MostBlogs    *AuthorBlogs `json:"mostBlogs"`
	MostLikes    *AuthorLikes `json:"mostLikes"`
}

// TotalLikes returns the sum of likes across posts. Zero for an empty list.
func TotalLikes(posts []model.Blog) int {
	total := 0
	for i := range posts {
		total += posts[i].Likes
	}
	return total
}

// FavoriteBlog returns the post with the most likes.
func FavoriteBlog(posts []model.Blog) (model.Blog, bool) {
	if len(posts) == 0 {
		return model.Blog{}, false
	}
	best := 0
	for i := 1; i < len(posts); i++ {
		if posts[i].Likes > posts[best].Likes {
			best = i
		}
	}
	return posts[best], true
}

// MostBlogs returns the author with the largest number of posts.
func MostBlogs(posts []model.Blog) (AuthorBlogs, bool) {
	author, n, ok := leadingAuthor(posts, func(model.Blog) int { return 1 })
	return AuthorBlogs{Author: author, Blogs: n}, ok
}

// MostLikes returns the author whose posts have the largest sum of likes.
func MostLikes(posts []model.Blog) (AuthorLikes, bool) {
	author, n, ok := leadingAuthor(posts, func(b model.Blog) int { return b.Likes })
	return AuthorLikes{Author: author, Likes: n}, ok
}

// Summarize computes every statistic in one call.
func Summarize(posts []model.Blog) Summary {
	s := Summary{
		TotalBlogs: len(posts),
		TotalLikes: TotalLikes(posts),
	}
	if fav, ok := FavoriteBlog(posts); ok {
		s.FavoriteBlog = &fav
	}
	if mb, ok := MostBlogs(posts); ok {
		s.MostBlogs = &mb
	}
	if ml, ok := MostLikes(posts); ok {
		s.MostLikes = &ml
	}
	return s
}

// leadingAuthor accumulates weight per author in input order. The leader
// changes only when a running total strictly exceeds the current best, so
// on a tie the author who reached the final maximum first is kept.
func leadingAuthor(posts []model.Blog, weight func(model.Blog) int) (string, int, bool) {
	if len(posts) == 0 {
		return "", 0, false
	}
	totals := make(map[string]int)
	best, bestTotal := "", -1
	for i := range posts {
		author := posts[i].Author
		totals[author] += weight(posts[i])
		if totals[author] > bestTotal {
			best, bestTotal = author, totals[author]
		}
	}
	return best, bestTotal, true
}
