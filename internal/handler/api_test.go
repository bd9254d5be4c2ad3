package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloglist/bloglist/internal/auth"
	"github.com/bloglist/bloglist/internal/handler/dto"
	"github.com/bloglist/bloglist/internal/metrics"
	"github.com/bloglist/bloglist/internal/middleware"
	"github.com/bloglist/bloglist/internal/model"
	"github.com/bloglist/bloglist/internal/ratelimit"
	"github.com/bloglist/bloglist/internal/repository/memory"
	"github.com/bloglist/bloglist/internal/service"
	"github.com/bloglist/bloglist/internal/stats"
	"github.com/bloglist/bloglist/internal/testutil"
)

type testAPI struct {
	store   *memory.Store
	server  *httptest.Server
	metrics *metrics.InMemoryRecorder
}

type apiOption func(*RouterConfig)

func withLoginLimiter(l ratelimit.Limiter, burst int) apiOption {
	return func(c *RouterConfig) {
		c.LoginLimiter = l
		c.LoginRateBurst = burst
	}
}

func withBodyLimit(n int64) apiOption {
	return func(c *RouterConfig) { c.Security.MaxRequestBodySize = n }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	rec := metrics.NewInMemory()

	tokens, err := auth.NewTokenService("api-test-secret", time.Hour)
	require.NoError(t, err)

	blogSvc := service.NewBlogService(store, nil, rec)
	cfg := RouterConfig{
		Logger:   logger,
		Blogs:    NewBlogHandler(blogSvc, logger),
		Users:    NewUserHandler(service.NewUserService(store, rec, logger), logger),
		Login:    NewLoginHandler(service.NewAuthService(store, tokens, rec), logger),
		Stats:    NewStatsHandler(blogSvc, logger),
		Health:   NewHealthHandler(store, nil),
		Metrics:  NewMetricsHandler(rec),
		Tokens:   tokens,
		Recorder: rec,
		Security: middleware.SecurityConfig{
			IsDevelopment:      true,
			MaxRequestBodySize: 1 << 20,
		},
		RequestTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(srv.Close)

	return &testAPI{store: store, server: srv, metrics: rec}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// seedInitialBlogs stores the fixture posts, optionally owned by ownerID.
func (a *testAPI) seedInitialBlogs(t *testing.T, ownerID string) {
	t.Helper()
	now := time.Now().UTC()
	for _, b := range testutil.InitialBlogs {
		b.ID = model.NewID()
		b.OwnerID = ownerID
		b.CreatedAt = now
		b.UpdatedAt = now
		require.NoError(t, a.store.Blogs().Create(context.Background(), &b))
	}
}

// registerAndLogin creates a user through the API and returns its id and token.
func (a *testAPI) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()

	resp := a.do(t, http.MethodPost, "/api/users", "", dto.CreateUserRequest{
		Username: username,
		Name:     "Name of " + username,
		Password: "sekret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)

	resp = a.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: username, Password: "sekret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	return user.ID, login.Token
}

func (a *testAPI) listBlogs(t *testing.T) []dto.BlogResponse {
	t.Helper()
	resp := a.do(t, http.MethodGet, "/api/blogs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[[]dto.BlogResponse](t, resp)
}

func TestAPI_SeededListAndStatistics(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	owner := testutil.NewTestUser(t, "root")
	require.NoError(t, api.store.Users().Create(context.Background(), owner))
	api.seedInitialBlogs(t, owner.ID)

	resp := api.do(t, http.MethodGet, "/api/blogs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	blogs := decode[[]dto.BlogResponse](t, resp)
	require.Len(t, blogs, len(testutil.InitialBlogs))

	posts := make([]model.Blog, len(blogs))
	for i, b := range blogs {
		posts[i] = model.Blog{ID: b.ID, Title: b.Title, Author: b.Author, URL: b.URL, Likes: b.Likes}
	}
	assert.Equal(t, 36, stats.TotalLikes(posts))
	fav, ok := stats.FavoriteBlog(posts)
	require.True(t, ok)
	assert.Equal(t, 12, fav.Likes)

	resp = api.do(t, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "owner_id")

	var summary dto.StatsResponse
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, 6, summary.TotalBlogs)
	assert.Equal(t, 36, summary.TotalLikes)
	require.NotNil(t, summary.FavoriteBlog)
	assert.Equal(t, "Canonical string reduction", summary.FavoriteBlog.Title)
	require.NotNil(t, summary.FavoriteBlog.User, "favorite uses the /api/blogs view")
	assert.Equal(t, "root", summary.FavoriteBlog.User.Username)
	for _, b := range blogs {
		if b.ID == summary.FavoriteBlog.ID {
			assert.Equal(t, b, *summary.FavoriteBlog)
		}
	}
	require.NotNil(t, summary.MostBlogs)
	assert.Equal(t, stats.AuthorBlogs{Author: "Robert C. Martin", Blogs: 3}, *summary.MostBlogs)
	require.NotNil(t, summary.MostLikes)
	assert.Equal(t, stats.AuthorLikes{Author: "Edsger W. Dijkstra", Likes: 17}, *summary.MostLikes)
}

func TestAPI_ResponsesExposeIDOnly(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	_, token := api.registerAndLogin(t, "root")

	resp := api.do(t, http.MethodPost, "/api/blogs", token, dto.BlogRequest{
		Title: "Exposure", Author: "Tester", URL: "https://example.com/e",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, path := range []string{"/api/blogs", "/api/users"} {
		resp := api.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var items []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.NotEmpty(t, items)
		for _, item := range items {
			assert.NotEmpty(t, item["id"], path)
			assert.NotContains(t, item, "_id", path)
			assert.NotContains(t, item, "passwordHash", path)
			assert.NotContains(t, item, "password_hash", path)
			assert.NotContains(t, item, "PasswordHash", path)
		}
	}
}

func TestAPI_CreateBlog(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.seedInitialBlogs(t, "")
	userID, token := api.registerAndLogin(t, "root")

	t.Run("authenticated create adds the post", func(t *testing.T) {
		resp := api.do(t, http.MethodPost, "/api/blogs", token, dto.BlogRequest{
			Title: "async/await simplifies making async calls", Author: "Tester", URL: "https://example.com/async",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decode[dto.BlogResponse](t, resp)
		assert.Equal(t, 0, created.Likes, "omitted likes default to zero")
		require.NotNil(t, created.User)
		assert.Equal(t, userID, created.User.ID)
		assert.Equal(t, "root", created.User.Username)

		blogs := api.listBlogs(t)
		assert.Len(t, blogs, len(testutil.InitialBlogs)+1)
		titles := make([]string, len(blogs))
		for i, b := range blogs {
			titles[i] = b.Title
		}
		assert.Contains(t, titles, "async/await simplifies making async calls")

		resp = api.do(t, http.MethodGet, "/api/users/"+userID, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		user := decode[dto.UserResponse](t, resp)
		require.Len(t, user.Blogs, 1)
		assert.Equal(t, created.ID, user.Blogs[0].ID)
	})

	t.Run("unauthenticated create is rejected", func(t *testing.T) {
		before := len(api.listBlogs(t))

		resp := api.do(t, http.MethodPost, "/api/blogs", "", dto.BlogRequest{
			Title: "no token", Author: "Tester", URL: "https://example.com/x",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "token missing", body.Error)

		resp = api.do(t, http.MethodPost, "/api/blogs", "not.a.token", dto.BlogRequest{
			Title: "bad token", Author: "Tester", URL: "https://example.com/x",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body = decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "token invalid or expired", body.Error)

		assert.Len(t, api.listBlogs(t), before)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		before := len(api.listBlogs(t))

		bodies := []any{
			dto.BlogRequest{Author: "Tester", URL: "https://example.com/x"},
			dto.BlogRequest{Title: "t", URL: "https://example.com/x"},
			dto.BlogRequest{Title: "t", Author: "Tester"},
			dto.BlogRequest{Title: "   ", Author: "Tester", URL: "https://example.com/x"},
			`{"title": "t", "author": "a", "url": "u", "likes": -1}`,
			`{not json`,
		}
		for _, b := range bodies {
			resp := api.do(t, http.MethodPost, "/api/blogs", token, b)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%v", b)
		}

		assert.Len(t, api.listBlogs(t), before)
	})
}

func TestAPI_UpdateBlog(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.seedInitialBlogs(t, "")
	target := api.listBlogs(t)[0]

	resp := api.do(t, http.MethodPut, "/api/blogs/"+target.ID, "", `{"title":"Updated","author":"A","url":"https://example.com/u","likes":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.BlogResponse](t, resp)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, 0, updated.Likes)

	resp = api.do(t, http.MethodPut, "/api/blogs/"+target.ID, "", `{"title":"No likes","author":"A","url":"https://example.com/u"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodPut, "/api/blogs/"+target.ID, "", `{"title":"","author":"A","url":"https://example.com/u","likes":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/blogs/"+target.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Updated", decode[dto.BlogResponse](t, resp).Title)

	resp = api.do(t, http.MethodPut, "/api/blogs/"+model.NewID(), "", `{"title":"x","author":"A","url":"u","likes":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_DeleteBlog(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	_, ownerToken := api.registerAndLogin(t, "owner")
	_, otherToken := api.registerAndLogin(t, "intruder")

	resp := api.do(t, http.MethodPost, "/api/blogs", ownerToken, dto.BlogRequest{
		Title: "Mine", Author: "Owner", URL: "https://example.com/mine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decode[dto.BlogResponse](t, resp)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		resp := api.do(t, http.MethodDelete, "/api/blogs/"+post.ID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = api.do(t, http.MethodGet, "/api/blogs/"+post.ID, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		resp := api.do(t, http.MethodDelete, "/api/blogs/"+post.ID, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		resp := api.do(t, http.MethodDelete, "/api/blogs/"+model.NewID(), ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("owner deletes", func(t *testing.T) {
		resp := api.do(t, http.MethodDelete, "/api/blogs/"+post.ID, ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = api.do(t, http.MethodGet, "/api/blogs/"+post.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPI_MalformattedID(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	for _, path := range []string{"/api/blogs/not-an-id", "/api/users/12345"} {
		resp := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "malformatted id", decode[dto.ErrorResponse](t, resp).Error, path)
	}
}

func TestAPI_Users(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.registerAndLogin(t, "root")

	listUsers := func() []dto.UserResponse {
		resp := api.do(t, http.MethodGet, "/api/users", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[[]dto.UserResponse](t, resp)
	}

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		before := len(listUsers())

		resp := api.do(t, http.MethodPost, "/api/users", "", dto.CreateUserRequest{Username: "root", Password: "another"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "username must be unique", decode[dto.ErrorResponse](t, resp).Error)

		assert.Len(t, listUsers(), before)
	})

	t.Run("invalid registrations", func(t *testing.T) {
		tests := []struct {
			req     dto.CreateUserRequest
			wantMsg string
		}{
			{dto.CreateUserRequest{Username: "newbie"}, "Username or Password missing"},
			{dto.CreateUserRequest{Password: "sekret"}, "Username or Password missing"},
			{dto.CreateUserRequest{Username: "newbie", Password: "pw"}, "Password too short. min length is 3"},
			{dto.CreateUserRequest{Username: "nb", Password: "sekret"}, "Username too short. min length is 3"},
		}
		for _, tt := range tests {
			resp := api.do(t, http.MethodPost, "/api/users", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, decode[dto.ErrorResponse](t, resp).Error)
		}
	})

	t.Run("delete cascades to posts", func(t *testing.T) {
		userID, token := api.registerAndLogin(t, "leaving")
		resp := api.do(t, http.MethodPost, "/api/blogs", token, dto.BlogRequest{
			Title: "Farewell", Author: "Leaver", URL: "https://example.com/bye",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = api.do(t, http.MethodDelete, "/api/users/"+userID, "", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = api.do(t, http.MethodGet, "/api/users/"+userID, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		for _, b := range api.listBlogs(t) {
			assert.NotEqual(t, "Farewell", b.Title)
		}

		resp = api.do(t, http.MethodDelete, "/api/users/"+userID, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPI_Login(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.registerAndLogin(t, "root")

	resp := api.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "root", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid username or password", decode[dto.ErrorResponse](t, resp).Error)

	resp = api.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "nobody", Password: "sekret"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "root"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	snap := api.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.LoginsSucceeded)
	assert.Equal(t, uint64(2), snap.LoginsFailed)
}

func TestAPI_LoginRateLimited(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New(60, 2, 0)
	api := newTestAPI(t, withLoginLimiter(limiter, 2))

	var codes []int
	for range 3 {
		resp := api.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "ghost", Password: "sekret"})
		codes = append(codes, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			assert.NotEmpty(t, resp.Header.Get("Retry-After"))
			assert.Equal(t, "too many login attempts", decode[dto.ErrorResponse](t, resp).Error)
		}
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
	assert.Equal(t, uint64(1), api.metrics.Snapshot().LoginsRateLimited)
}

func TestAPI_StreamedBodyOverLimit(t *testing.T) {
	api := newTestAPI(t, withBodyLimit(64))

	body := `{"username":"` + strings.Repeat("a", 256) + `","password":"salainen"}`
	// MultiReader hides the length, so the request is sent chunked.
	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/users", io.MultiReader(strings.NewReader(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	got := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "request body too large", got.Error)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", got.Code)

	users, err := api.store.Users().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAPI_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	for _, path := range []string{"/nope", "/api/nope"} {
		resp := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "unknown endpoint", decode[dto.ErrorResponse](t, resp).Error, path)
	}
}

func TestAPI_OperationalEndpoints(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Checks["store"])
	assert.Equal(t, "not configured", health.Checks["redis"])

	resp = api.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "bloglist_blogs_created_total 0")
	assert.Contains(t, string(raw), "bloglist_http_request_duration_seconds_count")
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}
