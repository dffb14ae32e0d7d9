package group

import (
	"context"
	"errors"

	"backend-bloghub/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalid  = errors.New("title and slug required")
	ErrNotFound = errors.New("group not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateGroup(ctx context.Context, input Group) (Group, error) {
	if input.Title == "" || input.Slug == "" {
		return Group{}, ErrInvalid
	}
	input.ID = uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO groups (id, title, slug, description)
		VALUES ($1,$2,$3,$4)
	`, input.ID, input.Title, input.Slug, input.Description)
	if err != nil {
		return Group{}, err
	}
	return input, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, slug, description
		FROM groups WHERE slug=$1
	`, slug)
	var g Group
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, ErrNotFound
		}
		return Group{}, err
	}
	return g, nil
}

func (s *Service) Groups(ctx context.Context) ([]Group, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, slug, description
		FROM groups
		ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
