package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webloom/blog/internal/blog/sanitize"
)

func newPostService() (*PostService, *fakeStore, *fakeUploader) {
	st := newFakeStore()
	up := &fakeUploader{}
	return &PostService{Store: st, Media: up, Sanitizer: sanitize.NewPolicy()}, st, up
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sanitizes content before storing", func(t *testing.T) {
		svc, st, _ := newPostService()
		post, err := svc.Create(ctx, "01U", "Hi", `<p>ok</p><script>alert(1)</script>`, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "<p>ok</p>", post.Content)
		require.Len(t, st.posts.created, 1)
		require.Equal(t, "<p>ok</p>", st.posts.created[0].Content)
	})

	t.Run("uploads media and stores their urls", func(t *testing.T) {
		svc, st, up := newPostService()
		post, err := svc.Create(ctx, "01U", "Media", "<p>m</p>",
			&Upload{Data: []byte("img"), Filename: "a.png"},
			&Upload{Data: []byte("vid"), Filename: "b.mp4"})
		require.NoError(t, err)
		require.Equal(t, []string{"a.png", "b.mp4"}, up.uploads)
		require.Contains(t, post.ImageURL, "a.png")
		require.Contains(t, post.VideoURL, "b.mp4")
		require.Equal(t, post.ImageURL, st.posts.created[0].ImageURL)
	})

	t.Run("no media leaves urls empty", func(t *testing.T) {
		svc, _, up := newPostService()
		post, err := svc.Create(ctx, "01U", "Plain", "<p>p</p>", nil, nil)
		require.NoError(t, err)
		require.Empty(t, post.ImageURL)
		require.Empty(t, post.VideoURL)
		require.Empty(t, up.uploads)
	})

	t.Run("failed upload aborts the post", func(t *testing.T) {
		svc, st, up := newPostService()
		up.err = errUploadDown
		_, err := svc.Create(ctx, "01U", "Broken", "<p>b</p>",
			&Upload{Data: []byte("img"), Filename: "a.png"}, nil)
		require.ErrorIs(t, err, errUploadDown)
		require.Empty(t, st.posts.created)
	})

	t.Run("empty title or content is rejected", func(t *testing.T) {
		svc, _, _ := newPostService()
		_, err := svc.Create(ctx, "01U", "", "<p>x</p>", nil, nil)
		require.ErrorIs(t, err, ErrMissingTitle)
		_, err = svc.Create(ctx, "01U", "t", "", nil, nil)
		require.ErrorIs(t, err, ErrMissingTitle)
	})
}

func TestListPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newPostService()
	for range 3 {
		_, err := svc.Create(ctx, "01U", "t", "<p>c</p>", nil, nil)
		require.NoError(t, err)
	}

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
}
