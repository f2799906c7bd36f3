package postgres

import (
	"context"
	"database/sql"

	"github.com/webloom/blog/internal/blog/domain"
)

type postsRepo struct {
	db *sql.DB
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	const query = `
		INSERT INTO posts (id, title, content, image_url, video_url, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Content,
		mapStringNull(p.ImageURL), mapStringNull(p.VideoURL), p.OwnerID, p.CreatedAt)
	return err
}

func (r *postsRepo) ListPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	const query = `
		SELECT id, title, content, image_url, video_url, owner_id, created_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		var imageURL, videoURL sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &imageURL, &videoURL, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ImageURL = mapNullString(imageURL)
		p.VideoURL = mapNullString(videoURL)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
