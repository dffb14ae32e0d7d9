package feed

import (
	"context"
	"errors"
	"fmt"

	"backend-bloghub/internal/db"
	"backend-bloghub/internal/post"

	"github.com/jackc/pgx/v5"
)

var (
	ErrUnknownGroup  = errors.New("group not found")
	ErrUnknownAuthor = errors.New("author not found")
)

const selectPosts = `
	SELECT p.id, p.author_id, u.username, p.text, COALESCE(p.group_id,''), COALESCE(g.slug,''), COALESCE(p.image_url,''), p.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

type Service struct {
	db       db.Querier
	pageSize int
}

func NewService(db db.Querier, pageSize int) *Service {
	return &Service{db: db, pageSize: pageSize}
}

// Global composes the unfiltered feed, newest post first.
func (s *Service) Global(ctx context.Context, page int) (Page, error) {
	return s.compose(ctx, "", nil, page)
}

// ByGroup composes the feed of a single group. Posts without a group or in
// another group never appear.
func (s *Service) ByGroup(ctx context.Context, slug string, page int) (Page, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id FROM groups WHERE slug=$1
	`, slug)
	var groupID string
	if err := row.Scan(&groupID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Page{}, ErrUnknownGroup
		}
		return Page{}, err
	}
	return s.compose(ctx, "p.group_id=$1", []any{groupID}, page)
}

// ByAuthor composes a profile feed from the author's posts only.
func (s *Service) ByAuthor(ctx context.Context, username string, page int) (Page, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id FROM users WHERE username=$1
	`, username)
	var authorID string
	if err := row.Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Page{}, ErrUnknownAuthor
		}
		return Page{}, err
	}
	return s.compose(ctx, "p.author_id=$1", []any{authorID}, page)
}

// Following composes the feed of authors the viewer follows at query time.
// A viewer who follows nobody gets an empty page.
func (s *Service) Following(ctx context.Context, viewerID string, page int) (Page, error) {
	return s.compose(ctx, "p.author_id IN (SELECT author_id FROM follows WHERE user_id=$1)", []any{viewerID}, page)
}

func (s *Service) compose(ctx context.Context, where string, args []any, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	q := selectPosts
	if where != "" {
		q += "\n\tWHERE " + where
	}
	n := len(args)
	// seq breaks created_at ties in insertion order
	q += fmt.Sprintf("\n\tORDER BY p.created_at DESC, p.seq DESC\n\tLIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, s.pageSize, (page-1)*s.pageSize)

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	posts := []post.Post{}
	for rows.Next() {
		var p post.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Text, &p.GroupID, &p.GroupSlug, &p.ImageURL, &p.CreatedAt); err != nil {
			return Page{}, err
		}
		posts = append(posts, p)
	}
	return Page{Page: page, PageSize: s.pageSize, Posts: posts}, nil
}
