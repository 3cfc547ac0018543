package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"repairdesk/internal/database"
	"repairdesk/internal/domain"
	"repairdesk/internal/metrics"
	"repairdesk/internal/pkg/validator"
	"repairdesk/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the order lifecycle. Status changes and participant
// bookkeeping share the order's transaction.
type Service struct {
	tx      *repository.TxManager
	orders  *repository.OrderRepository
	members *repository.OrderUserRepository
	ledger  *repository.StatusHistoryRepository
	users   *repository.UserRepository
	log     *zap.Logger
	now     func() time.Time
}

func NewService(
	tx *repository.TxManager,
	orders *repository.OrderRepository,
	members *repository.OrderUserRepository,
	ledger *repository.StatusHistoryRepository,
	users *repository.UserRepository,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		tx:      tx,
		orders:  orders,
		members: members,
		ledger:  ledger,
		users:   users,
		log:     log,
		now:     time.Now,
	}
}

// List returns the caller's orders, or every order for anonymous callers.
func (s *Service) List(ctx context.Context, actorID int64) ([]OrderResponse, error) {
	var (
		found []domain.Order
		err   error
	)
	if actorID > 0 {
		found, err = s.orders.ListForUser(ctx, actorID)
	} else {
		found, err = s.orders.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]OrderResponse, 0, len(found))
	for i := range found {
		out = append(out, toOrderResponse(&found[i]))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, actorID int64, req CreateRequest) (*OrderResponse, error) {
	if field := validator.FirstMissing(req); field != "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if !hasJSON(req.History) {
		return nil, fmt.Errorf("%w: history", ErrMissingField)
	}

	o := &domain.Order{
		OrderID:           strings.TrimSpace(req.ID.String()),
		ClientName:        req.ClientName,
		ClientAddress:     req.ClientAddress,
		ClientPhone:       req.ClientPhone,
		DeviceType:        req.DeviceType,
		DeviceModel:       req.DeviceModel,
		SerialNumber:      req.SerialNumber,
		Issue:             req.Issue,
		Appearance:        req.Appearance,
		Accessories:       req.Accessories,
		Status:            req.Status,
		Priority:          req.Priority,
		RepairType:        req.RepairType,
		CreatedTime:       req.CreatedTime,
		Price:             req.Price,
		Master:            req.Master,
		History:           string(req.History),
		RepairDescription: req.RepairDescription,
		CreatedAt:         s.now(),
	}

	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, o); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrOrderExists
			}
			return fmt.Errorf("insert order: %w", err)
		}
		if actorID <= 0 {
			return nil
		}
		if _, err := s.members.WithTx(tx).Add(ctx, o.ID, actorID, domain.OrderUserRoleCreator); err != nil {
			return fmt.Errorf("register creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toOrderResponse(o)
	return &resp, nil
}

// UpdateStatus rewrites the mutable order fields under a row lock. When the
// status actually changes, one ledger row is appended with the time spent in
// the previous status.
func (s *Service) UpdateStatus(ctx context.Context, actorID int64, req UpdateStatusRequest) (*OrderResponse, error) {
	if field := validator.FirstMissing(req); field != "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if !hasJSON(req.History) {
		return nil, fmt.Errorf("%w: history", ErrMissingField)
	}
	deadline, err := parseDeadline(req.StatusDeadline)
	if err != nil {
		return nil, err
	}

	orderID := strings.TrimSpace(req.ID.String())
	var (
		order   *domain.Order
		changed bool
	)

	err = s.tx.Do(ctx, func(tx *gorm.DB) error {
		current, err := s.orders.WithTx(tx).GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		now := s.now()
		overdue := deadline != nil && now.After(*deadline)
		previous := current.Status
		changed = previous != req.Status

		fields := map[string]interface{}{
			"status":             req.Status,
			"master":             req.Master,
			"history":            string(req.History),
			"repair_description": req.RepairDescription,
			"status_deadline":    deadline,
			"is_overdue":         overdue,
			"updated_at":         now,
		}
		if changed {
			fields["status_changed_at"] = now
		}
		if err := s.orders.WithTx(tx).UpdateFields(ctx, current.ID, fields); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		since := current.CreatedAt
		if current.StatusChangedAt != nil {
			since = *current.StatusChangedAt
		}

		current.Status = req.Status
		current.Master = req.Master
		current.History = string(req.History)
		current.RepairDescription = req.RepairDescription
		current.StatusDeadline = deadline
		current.IsOverdue = overdue
		current.UpdatedAt = now
		if changed {
			current.StatusChangedAt = &now
		}
		order = current

		if !changed {
			return nil
		}

		hours := math.Round(now.Sub(since).Hours()*100) / 100
		entry := &domain.StatusHistory{
			OrderID:       current.ID,
			OldStatus:     previous,
			NewStatus:     req.Status,
			ChangedBy:     s.changedBy(ctx, tx, actorID, req.Master),
			DurationHours: &hours,
			WasOverdue:    overdue,
			ChangedAt:     now,
		}
		if err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
			return fmt.Errorf("append status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.StatusTransitions.WithLabelValues(strconv.FormatBool(order.IsOverdue)).Inc()
		s.log.Info("order status changed",
			zap.String("order_id", order.OrderID),
			zap.String("status", order.Status),
			zap.Bool("overdue", order.IsOverdue),
			zap.Int64("actor_id", actorID),
		)
	}

	resp := toOrderResponse(order)
	return &resp, nil
}

// History returns the ledger of one order, oldest first.
func (s *Service) History(ctx context.Context, orderID string) ([]HistoryResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	internalID, err := s.orders.InternalID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("resolve order: %w", err)
	}

	rows, err := s.ledger.ListByOrder(ctx, internalID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	out := make([]HistoryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toHistoryResponse(r))
	}
	return out, nil
}

// changedBy prefers the caller's full name and falls back to the master.
func (s *Service) changedBy(ctx context.Context, tx *gorm.DB, actorID int64, master *string) *string {
	if actorID > 0 {
		u, err := s.users.WithTx(tx).GetByID(ctx, actorID)
		switch {
		case err == nil && u.FullName != "":
			name := u.FullName
			return &name
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			s.log.Warn("lookup status actor", zap.Int64("user_id", actorID), zap.Error(err))
		}
	}
	if master != nil && *master != "" {
		name := *master
		return &name
	}
	return nil
}
