package storage

import (
	"context"

	"backend-bloghub/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	if baseURL == "" {
		baseURL = "https://storage.example/media/"
	}
	return &Service{db: db, baseURL: baseURL}
}

// SaveImage records an uploaded image and returns its id and the opaque
// reference URL a post stores in its image field.
func (s *Service) SaveImage(ctx context.Context, userID, fileName string) (string, string, error) {
	if fileName == "" {
		fileName = "upload"
	}
	id := uuid.NewString()
	url := s.baseURL + fileName
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, "image")
	if err != nil {
		return "", "", err
	}
	return id, url, nil
}
