package post

import "time"

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	GroupID   string    `json:"group_id,omitempty"`
	GroupSlug string    `json:"group,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
