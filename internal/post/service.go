package post

import (
	"context"
	"errors"
	"strings"

	"backend-bloghub/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyText    = errors.New("post text required")
	ErrNotAuthor    = errors.New("only the author can edit a post")
	ErrNotFound     = errors.New("post not found")
	ErrUnknownGroup = errors.New("group not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// CreatePost persists a new post. Author and image are fixed at creation;
// the group is optional.
func (s *Service) CreatePost(ctx context.Context, input Post) (Post, error) {
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return Post{}, ErrEmptyText
	}
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, group_id, text, image_url)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.AuthorID, strPtr(input.GroupID), input.Text, strPtr(input.ImageURL))
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Post{}, groupRefError(err)
	}
	return input, nil
}

// EditPost rewrites text and group of an existing post. Only the author may
// edit; id, author and image never change. An empty groupID clears the group.
func (s *Service) EditPost(ctx context.Context, actorID, postID, text, groupID string) (Post, error) {
	existing, err := s.GetPost(ctx, postID)
	if err != nil {
		return Post{}, err
	}
	if existing.AuthorID != actorID {
		return Post{}, ErrNotAuthor
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Post{}, ErrEmptyText
	}

	_, err = s.db.Exec(ctx, `
		UPDATE posts SET text=$2, group_id=$3 WHERE id=$1
	`, postID, text, strPtr(groupID))
	if err != nil {
		return Post{}, groupRefError(err)
	}
	return s.GetPost(ctx, postID)
}

func (s *Service) GetPost(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT p.id, p.author_id, u.username, p.text, COALESCE(p.group_id,''), COALESCE(g.slug,''), COALESCE(p.image_url,''), p.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE p.id=$1
	`, id)
	var p Post
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Text, &p.GroupID, &p.GroupSlug, &p.ImageURL, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

// groupRefError turns a foreign-key violation on posts.group_id into the
// not-found sentinel; no write happened in that case.
func groupRefError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrUnknownGroup
	}
	return err
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
