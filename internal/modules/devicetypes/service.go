package devicetypes

import (
	"context"
	"fmt"
	"strings"

	"repairdesk/internal/domain"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, category string) ([]domain.DeviceType, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("list device types: %w", err)
	}
	if items == nil {
		items = []domain.DeviceType{}
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.DeviceType, error) {
	dt := &domain.DeviceType{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
	}
	if dt.Name == "" || dt.Category == "" {
		return nil, ErrNameAndCategoryRequired
	}
	if err := s.repo.Create(ctx, dt); err != nil {
		return nil, fmt.Errorf("create device type: %w", err)
	}
	return dt, nil
}

// Delete removes the entry whether or not devices still use the name.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete device type %d: %w", id, err)
	}
	return nil
}
