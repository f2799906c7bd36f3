package blog_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	httpapi "github.com/webloom/blog/internal/blog/http"
	"github.com/webloom/blog/internal/blog/media"
	"github.com/webloom/blog/internal/blog/sanitize"
	"github.com/webloom/blog/internal/blog/service"
	"github.com/webloom/blog/internal/blog/store/drivers/postgres"
	"github.com/webloom/blog/pkg/jwtx"
)

/*
 * End-to-end tests running the full stack in process: a real Postgres
 * container, a fake S3 endpoint, and the HTTP router behind httptest.
 */

type env struct {
	baseURL string
	client  *http.Client
	dsn     string
}

// fakeS3 accepts bucket creation and object PUTs the way MinIO would.
func fakeS3() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func startEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("blog"),
		tcpostgres.WithUsername("blog"),
		tcpostgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := postgres.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	s3srv := httptest.NewServer(fakeS3())
	t.Cleanup(s3srv.Close)

	uploader, err := media.NewS3Uploader(ctx, media.Config{
		Endpoint:  s3srv.URL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "blog-media",
		Region:    "auto",
	})
	require.NoError(t, err)
	require.NoError(t, uploader.EnsureBucket(ctx))

	signer, err := jwtx.NewSigner("e2e-secret", "HS256", 15*time.Minute, 168*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	router := httpapi.NewRouter("e2e", []string{"http://localhost:5173"},
		168*time.Hour, false, st, logger)
	router.AuthService = &service.AuthService{Store: st, Signer: signer}
	router.PostService = &service.PostService{
		Store:     st,
		Media:     uploader,
		Sanitizer: sanitize.NewPolicy(),
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &env{
		baseURL: srv.URL,
		client:  &http.Client{Jar: jar},
		dsn:     dsn,
	}
}

func (e *env) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := e.client.Post(e.baseURL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *env) register(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.postJSON(t, "/v1/auth/register",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokens := decodeJSON[httpapi.TokenResponse](t, resp)
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func (e *env) createPost(t *testing.T, bearer, title, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("content", content))
	fw, err := w.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/v1/posts", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestBlogE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed e2e test in -short mode")
	}

	e := startEnv(t)
	access := e.register(t, "alice", "pw123")

	t.Run("bearer create then public list", func(t *testing.T) {
		resp := e.createPost(t, access, "First", `<p>hello</p><script>x()</script>`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		created := decodeJSON[map[string]any](t, resp)
		require.Equal(t, "<p>hello</p>", created["content"])
		require.Contains(t, created["image_url"], "_cover.png")

		listResp, err := e.client.Get(e.baseURL + "/v1/posts")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		posts := decodeJSON[[]map[string]any](t, listResp)
		require.Len(t, posts, 1)
		require.Equal(t, "First", posts[0]["title"])
	})

	t.Run("create without bearer is rejected", func(t *testing.T) {
		resp := e.createPost(t, "", "Nope", "<p>x</p>")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("refresh cookie mints reusable access tokens", func(t *testing.T) {
		for range 2 {
			resp := e.postJSON(t, "/v1/auth/refresh", struct{}{})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			tokens := decodeJSON[httpapi.TokenResponse](t, resp)
			require.NotEmpty(t, tokens.AccessToken)
		}
	})

	t.Run("deleted user: refresh still mints, gate rejects", func(t *testing.T) {
		db, err := sql.Open("pgx", e.dsn)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		_, err = db.Exec(`DELETE FROM posts`)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM users`)
		require.NoError(t, err)

		resp := e.postJSON(t, "/v1/auth/refresh", struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		tokens := decodeJSON[httpapi.TokenResponse](t, resp)

		create := e.createPost(t, tokens.AccessToken, "Ghost", "<p>x</p>")
		defer func() { _ = create.Body.Close() }()
		require.Equal(t, http.StatusUnauthorized, create.StatusCode)
	})

	t.Run("logout clears the refresh cookie", func(t *testing.T) {
		resp := e.postJSON(t, "/v1/auth/logout", struct{}{})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		setCookie := resp.Header.Get("Set-Cookie")
		require.Contains(t, setCookie, "refresh_token=")
		require.Contains(t, setCookie, "Max-Age=0")

		// The jar dropped the cookie, so refresh now fails.
		after := e.postJSON(t, "/v1/auth/refresh", struct{}{})
		defer func() { _ = after.Body.Close() }()
		require.Equal(t, http.StatusUnauthorized, after.StatusCode)
		body, _ := io.ReadAll(after.Body)
		require.True(t, strings.Contains(string(body), "no_refresh_token"))
	})
}

func TestHealthE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed e2e test in -short mode")
	}

	e := startEnv(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := e.client.Get(e.baseURL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
