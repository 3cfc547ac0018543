package users

import (
	"context"
	"fmt"

	"repairdesk/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.User, error)
}

// Service is a read-only view of staff accounts.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out, nil
}
