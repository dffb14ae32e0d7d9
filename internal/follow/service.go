package follow

import (
	"context"
	"errors"

	"backend-bloghub/internal/db"

	"github.com/jackc/pgx/v5"
)

var (
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrUnknownAuthor = errors.New("author not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Follow adds a follow edge from userID to the named author. Following an
// already followed author is a no-op; a reflexive edge is never created.
func (s *Service) Follow(ctx context.Context, userID, authorUsername string) error {
	authorID, err := s.authorID(ctx, authorUsername)
	if err != nil {
		return err
	}
	if authorID == userID {
		return ErrSelfFollow
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, userID, authorID)
	return err
}

// Unfollow removes the edge if present. Removing a missing edge is a no-op.
func (s *Service) Unfollow(ctx context.Context, userID, authorUsername string) error {
	authorID, err := s.authorID(ctx, authorUsername)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		DELETE FROM follows WHERE user_id=$1 AND author_id=$2
	`, userID, authorID)
	return err
}

func (s *Service) IsFollowing(ctx context.Context, userID, authorUsername string) (bool, error) {
	authorID, err := s.authorID(ctx, authorUsername)
	if err != nil {
		return false, err
	}
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE user_id=$1 AND author_id=$2)
	`, userID, authorID)
	var following bool
	if err := row.Scan(&following); err != nil {
		return false, err
	}
	return following, nil
}

func (s *Service) authorID(ctx context.Context, username string) (string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id FROM users WHERE username=$1
	`, username)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUnknownAuthor
		}
		return "", err
	}
	return id, nil
}
