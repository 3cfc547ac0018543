package participants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairdesk/internal/domain"
	"repairdesk/internal/repository"

	"gorm.io/gorm"
)

type OrderLookup interface {
	InternalID(ctx context.Context, orderID string) (int64, error)
}

type Service struct {
	orders  OrderLookup
	members *repository.OrderUserRepository
}

func NewService(orders OrderLookup, members *repository.OrderUserRepository) *Service {
	return &Service{orders: orders, members: members}
}

func (s *Service) List(ctx context.Context, orderID string) ([]ParticipantResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	internalID, err := s.resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	rows, err := s.members.ListByOrder(ctx, internalID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]ParticipantResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toResponse(r))
	}
	return out, nil
}

// Add links the user to the order. created is false when the pair already
// existed; the stored role is left unchanged in that case.
func (s *Service) Add(ctx context.Context, req AddRequest) (created bool, err error) {
	orderID := strings.TrimSpace(req.OrderID.String())
	if orderID == "" || req.UserID <= 0 {
		return false, ErrOrderAndUserNeeded
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.OrderUserRoleAssigned
	}

	internalID, err := s.resolve(ctx, orderID)
	if err != nil {
		return false, err
	}

	created, err = s.members.Add(ctx, internalID, req.UserID.Int64(), role)
	if err != nil {
		return false, fmt.Errorf("add participant: %w", err)
	}
	return created, nil
}

// Remove deletes the pair; a missing pair is not an error.
func (s *Service) Remove(ctx context.Context, req RemoveRequest) error {
	orderID := strings.TrimSpace(req.OrderID.String())
	if orderID == "" || req.UserID <= 0 {
		return ErrOrderAndUserNeeded
	}

	internalID, err := s.resolve(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.members.Remove(ctx, internalID, req.UserID.Int64()); err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, orderID string) (int64, error) {
	id, err := s.orders.InternalID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrOrderNotFound
		}
		return 0, fmt.Errorf("resolve order %q: %w", orderID, err)
	}
	return id, nil
}
