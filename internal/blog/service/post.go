package service

import (
	"context"
	"errors"
	"time"

	"github.com/webloom/blog/internal/blog/domain"
	"github.com/webloom/blog/internal/blog/media"
	"github.com/webloom/blog/internal/blog/sanitize"
	"github.com/webloom/blog/internal/blog/store"
	"github.com/webloom/blog/pkg/idx"
)

// listLimit caps how many posts a single listing returns.
const listLimit = 100

// ErrMissingTitle reports a post without a title or content.
var ErrMissingTitle = errors.New("title and content are required")

// Upload is an in-memory file received from a multipart form.
type Upload struct {
	Data     []byte
	Filename string
}

// PostService creates and lists posts. Content HTML is sanitized before it is
// stored, and optional media files are pushed to the object store first so a
// failed upload never leaves a post pointing at nothing.
type PostService struct {
	Store     store.Store
	Media     media.Uploader
	Sanitizer sanitize.HTML
}

// Create sanitizes content, uploads any attached media, and persists the
// post owned by ownerID.
func (s *PostService) Create(ctx context.Context, ownerID, title, content string, image, video *Upload) (domain.Post, error) {
	if title == "" || content == "" {
		return domain.Post{}, ErrMissingTitle
	}

	post := domain.Post{
		ID:        idx.New().String(),
		Title:     title,
		Content:   s.Sanitizer.Sanitize(content),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if image != nil {
		url, err := s.Media.UploadBytes(ctx, image.Data, image.Filename)
		if err != nil {
			return domain.Post{}, err
		}
		post.ImageURL = url
	}
	if video != nil {
		url, err := s.Media.UploadBytes(ctx, video.Data, video.Filename)
		if err != nil {
			return domain.Post{}, err
		}
		post.VideoURL = url
	}

	if err := s.Store.Posts().CreatePost(ctx, post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// List returns the newest posts, most recent first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx, listLimit)
}
