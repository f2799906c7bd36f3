package domain

import "time"

// Post is a published blog entry. Content is sanitized HTML; the media URLs
// point at the object store and are empty when no file was attached.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is what a successful register or login produces: the access token
// goes back in the response body, the refresh token rides only in the cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
