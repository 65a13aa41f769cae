package models

import "time"

// Article is a markdown blog post owned by one author
type Article struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	CoverImage  *string    `json:"cover_image"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Video is one channel upload as served to the site
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ViewCount    string `json:"viewCount"`
	PublishedAt  string `json:"publishedAt"`
	Duration     string `json:"duration"`
}

// VideoPage is one page of channel videos
type VideoPage struct {
	Videos        []Video `json:"videos"`
	NextPageToken *string `json:"nextPageToken"`
}
