package stats

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloglist/bloglist/internal/model"
)

// seedBlogs mirrors the fixture list used throughout the API tests.
func seedBlogs() []model.Blog {
	return []model.Blog{
		{ID: "1", Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: 7},
		{ID: "2", Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: 5},
		{ID: "3", Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", URL: "http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html", Likes: 12},
		{ID: "4", Title: "First class tests", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/05/05/TestDefinitions.htmll", Likes: 10},
		{ID: "5", Title: "TDD harms architecture", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/03/03/TDD-Harms-Architecture.html", Likes: 0},
		{ID: "6", Title: "Type wars", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2016/05/01/TypeWars.html", Likes: 2},
	}
}

func TestTotalLikes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		posts []model.Blog
		want  int
	}{
		{"empty list", nil, 0},
		{"single post", []model.Blog{{Likes: 5}}, 5},
		{"two posts", []model.Blog{{Likes: 7}, {Likes: 5}}, 12},
		{"seed list", seedBlogs(), 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TotalLikes(tt.posts))
		})
	}
}

func TestFavoriteBlog(t *testing.T) {
	t.Parallel()

	_, ok := FavoriteBlog(nil)
	assert.False(t, ok)

	fav, ok := FavoriteBlog(seedBlogs())
	require.True(t, ok)
	assert.Equal(t, "Canonical string reduction", fav.Title)
	assert.Equal(t, 12, fav.Likes)

	tied := []model.Blog{{ID: "a", Likes: 3}, {ID: "b", Likes: 9}, {ID: "c", Likes: 9}}
	fav, _ = FavoriteBlog(tied)
	assert.Equal(t, "b", fav.ID, "first post reaching the maximum wins")
}

func TestMostBlogs(t *testing.T) {
	t.Parallel()

	_, ok := MostBlogs(nil)
	assert.False(t, ok)

	got, ok := MostBlogs(seedBlogs())
	require.True(t, ok)
	assert.Equal(t, AuthorBlogs{Author: "Robert C. Martin", Blogs: 3}, got)

	tied := []model.Blog{{Author: "B"}, {Author: "A"}, {Author: "A"}, {Author: "B"}}
	got, _ = MostBlogs(tied)
	assert.Equal(t, AuthorBlogs{Author: "A", Blogs: 2}, got, "first author to reach the maximum wins a tie")
}

func TestTieGoesToFirstToReachMaximum(t *testing.T) {
	t.Parallel()

	// A appears first, but B reaches both final maxima earlier.
	posts := []model.Blog{
		{Author: "A", Likes: 1},
		{Author: "B", Likes: 5},
		{Author: "B", Likes: 0},
		{Author: "A", Likes: 4},
	}

	blogs, ok := MostBlogs(posts)
	require.True(t, ok)
	assert.Equal(t, AuthorBlogs{Author: "B", Blogs: 2}, blogs)

	likes, ok := MostLikes(posts)
	require.True(t, ok)
	assert.Equal(t, AuthorLikes{Author: "B", Likes: 5}, likes)
}

func TestMostLikes(t *testing.T) {
	t.Parallel()

	got, ok := MostLikes([]model.Blog{
		{Author: "A", Likes: 10},
		{Author: "B", Likes: 5},
		{Author: "A", Likes: 7},
	})
	require.True(t, ok)
	assert.Equal(t, AuthorLikes{Author: "A", Likes: 17}, got)

	got, _ = MostLikes(seedBlogs())
	assert.Equal(t, AuthorLikes{Author: "Edsger W. Dijkstra", Likes: 17}, got)

	_, ok = MostLikes([]model.Blog{})
	assert.False(t, ok)
}

func TestFunctionsDoNotMutateInput(t *testing.T) {
	t.Parallel()

	posts := seedBlogs()
	before := slices.Clone(posts)

	TotalLikes(posts)
	FavoriteBlog(posts)
	MostBlogs(posts)
	MostLikes(posts)
	Summarize(posts)

	assert.Equal(t, before, posts)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(seedBlogs())
	assert.Equal(t, 6, s.TotalBlogs)
	assert.Equal(t, 36, s.TotalLikes)
	require.NotNil(t, s.FavoriteBlog)
	assert.Equal(t, 12, s.FavoriteBlog.Likes)
	require.NotNil(t, s.MostBlogs)
	assert.Equal(t, 3, s.MostBlogs.Blogs)

	empty := Summarize(nil)
	assert.Zero(t, empty.TotalLikes)
	assert.Nil(t, empty.FavoriteBlog)
	assert.Nil(t, empty.MostBlogs)
	assert.Nil(t, empty.MostLikes)
}
