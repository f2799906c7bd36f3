package service

import (
	"context"
	"errors"
	"sync"

	"github.com/webloom/blog/internal/blog/domain"
	"github.com/webloom/blog/internal/blog/store"
)

// fakeStore is an in-memory store.Store for service tests.
type fakeStore struct {
	users *fakeUsers
	posts *fakePosts
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: &fakeUsers{byUsername: map[string]domain.User{}},
		posts: &fakePosts{},
	}
}

func (f *fakeStore) Users() store.Users           { return f.users }
func (f *fakeStore) Posts() store.Posts           { return f.posts }
func (f *fakeStore) ApplyMigrations() error       { return nil }
func (f *fakeStore) Ping(context.Context) error   { return nil }
func (f *fakeStore) Close() error                 { return nil }

type fakeUsers struct {
	mu         sync.Mutex
	byUsername map[string]domain.User

	// forceCreateErr makes CreateUser fail, simulating a lost duplicate race.
	forceCreateErr error
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byUsername[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeUsers) CreateUser(_ context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceCreateErr != nil {
		return f.forceCreateErr
	}
	if _, ok := f.byUsername[u.Username]; ok {
		return store.ErrAlreadyExists
	}
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeUsers) delete(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byUsername, username)
}

type fakePosts struct {
	mu      sync.Mutex
	created []domain.Post
	listErr error
}

func (f *fakePosts) CreatePost(_ context.Context, p domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return nil
}

func (f *fakePosts) ListPosts(_ context.Context, limit int) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.created) > limit {
		return f.created[:limit], nil
	}
	return f.created, nil
}

// fakeUploader records uploads and returns predictable URLs.
type fakeUploader struct {
	uploads []string
	err     error
}

func (f *fakeUploader) UploadBytes(_ context.Context, _ []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, filename)
	return "http://s3.local/blog-media/fixed_" + filename, nil
}

var errUploadDown = errors.New("object store unavailable")
