package feed

import "backend-bloghub/internal/post"

// Page is one slice of a composed feed. Pages are 1-based; a page past the
// end of the feed is empty, not an error.
type Page struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Posts    []post.Post `json:"posts"`
}
