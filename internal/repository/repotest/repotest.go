// Package repotest holds behaviour tests shared by every repository.Store
// implementation.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/repository"
	"github.com/bloglist/bloglist/internal/testutil"
)

// Run exercises a Store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Helper()

	t.Run("BlogLifecycle", func(t *testing.T) { testBlogLifecycle(t, newStore(t)) })
	t.Run("BlogListOrderAndOwners", func(t *testing.T) { testBlogListOrderAndOwners(t, newStore(t)) })
	t.Run("BlogDeleteByOwner", func(t *testing.T) { testBlogDeleteByOwner(t, newStore(t)) })
	t.Run("BlogInvalidID", func(t *testing.T) { testBlogInvalidID(t, newStore(t)) })
	t.Run("UserLifecycle", func(t *testing.T) { testUserLifecycle(t, newStore(t)) })
	t.Run("UserUniqueUsername", func(t *testing.T) { testUserUniqueUsername(t, newStore(t)) })
	t.Run("UserGetMany", func(t *testing.T) { testUserGetMany(t, newStore(t)) })
}

func testBlogLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()
	blogs := store.Blogs()

	blog := testutil.NewTestBlog(t, "lifecycle", 0, "")
	require.NoError(t, blogs.Create(ctx, blog))

	got, err := blogs.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, blog.Title, got.Title)
	assert.Equal(t, 0, got.Likes)
	assert.False(t, got.HasOwner())

	update := *blog
	update.Title = "lifecycle v2"
	update.Likes = 4
	update.OwnerID = model.NewID()
	update.UpdatedAt = blog.UpdatedAt.Add(time.Second)
	require.NoError(t, blogs.Update(ctx, &update))
	assert.Equal(t, "lifecycle v2", update.Title)
	assert.Empty(t, update.OwnerID, "update must not change the owner")

	got, err = blogs.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "lifecycle v2", got.Title)
	assert.Equal(t, 4, got.Likes)
	assert.Empty(t, got.OwnerID)

	require.NoError(t, blogs.Delete(ctx, blog.ID))

	_, err = blogs.Get(ctx, blog.ID)
	require.ErrorIs(t, err, repository.ErrBlogNotFound)
	require.ErrorIs(t, blogs.Delete(ctx, blog.ID), repository.ErrBlogNotFound)

	missing := testutil.NewTestBlog(t, "missing", 1, "")
	require.ErrorIs(t, blogs.Update(ctx, missing), repository.ErrBlogNotFound)
}

func testBlogListOrderAndOwners(t *testing.T, store repository.Store) {
	ctx := context.Background()
	blogs := store.Blogs()

	ownerA, ownerB := model.NewID(), model.NewID()
	created := []*model.Blog{
		testutil.NewTestBlog(t, "first", 7, ownerA),
		testutil.NewTestBlog(t, "second", 5, ownerB),
		testutil.NewTestBlog(t, "third", 12, ownerA),
		testutil.NewTestBlog(t, "fourth", 1, ""),
	}
	for _, b := range created {
		require.NoError(t, blogs.Create(ctx, b))
	}

	all, err := blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(created))
	for i := range created {
		assert.Equal(t, created[i].ID, all[i].ID)
	}

	owned, err := blogs.ListByOwners(ctx, []string{ownerA})
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "first", owned[0].Title)
	assert.Equal(t, "third", owned[1].Title)

	owned, err = blogs.ListByOwners(ctx, []string{ownerA, ownerB})
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	owned, err = blogs.ListByOwners(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func testBlogDeleteByOwner(t *testing.T, store repository.Store) {
	ctx := context.Background()
	blogs := store.Blogs()

	owner := model.NewID()
	require.NoError(t, blogs.Create(ctx, testutil.NewTestBlog(t, "mine-1", 1, owner)))
	require.NoError(t, blogs.Create(ctx, testutil.NewTestBlog(t, "mine-2", 2, owner)))
	require.NoError(t, blogs.Create(ctx, testutil.NewTestBlog(t, "theirs", 3, model.NewID())))

	n, err := blogs.DeleteByOwner(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err := blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "theirs", all[0].Title)
}

func testBlogInvalidID(t *testing.T, store repository.Store) {
	ctx := context.Background()
	blogs := store.Blogs()

	_, err := blogs.Get(ctx, "5a3d5da59070081a82a3445")
	require.ErrorIs(t, err, repository.ErrInvalidID)
	require.ErrorIs(t, blogs.Delete(ctx, "not-an-id"), repository.ErrInvalidID)
}

func testUserLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()
	users := store.Users()

	user := testutil.NewTestUser(t, "root")
	require.NoError(t, users.Create(ctx, user))

	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", got.Username)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)

	got, err = users.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = users.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err = users.Get(ctx, user.ID)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
	require.ErrorIs(t, users.Delete(ctx, user.ID), repository.ErrUserNotFound)

	_, err = users.Get(ctx, "bogus")
	require.ErrorIs(t, err, repository.ErrInvalidID)
}

func testUserUniqueUsername(t *testing.T, store repository.Store) {
	ctx := context.Background()
	users := store.Users()

	require.NoError(t, users.Create(ctx, testutil.NewTestUser(t, "mluukkai")))
	err := users.Create(ctx, testutil.NewTestUser(t, "mluukkai"))
	require.ErrorIs(t, err, repository.ErrUsernameTaken)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testUserGetMany(t *testing.T, store repository.Store) {
	ctx := context.Background()
	users := store.Users()

	a, b, c := testutil.NewTestUser(t, "alice"), testutil.NewTestUser(t, "bob"), testutil.NewTestUser(t, "carol")
	for _, u := range []*model.User{a, b, c} {
		require.NoError(t, users.Create(ctx, u))
	}

	got, err := users.GetMany(ctx, []string{c.ID, a.ID, model.NewID()})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, c.ID, got[1].ID)

	got, err = users.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
