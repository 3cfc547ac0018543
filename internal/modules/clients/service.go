package clients

import (
	"context"
	"fmt"
	"strings"

	"repairdesk/internal/domain"
	"repairdesk/internal/repository"

	"gorm.io/gorm"
)

const (
	lookupLimit = 10
	searchLimit = 20
	recentLimit = 50
)

type Service struct {
	clients *repository.ClientRepository
	tx      *repository.TxManager
}

func NewService(clients *repository.ClientRepository, tx *repository.TxManager) *Service {
	return &Service{clients: clients, tx: tx}
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]ClientResponse, error) {
	var (
		found []domain.Client
		err   error
	)

	switch phone, serial, text := strings.TrimSpace(q.Phone), strings.TrimSpace(q.SerialNumber), strings.TrimSpace(q.Search); {
	case phone != "":
		found, err = s.clients.SearchByPhone(ctx, phone, lookupLimit)
	case serial != "":
		found, err = s.clients.SearchBySerial(ctx, serial, lookupLimit)
	case text != "":
		found, err = s.clients.SearchText(ctx, text, searchLimit)
	default:
		found, err = s.clients.ListRecent(ctx, recentLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}

	out := make([]ClientResponse, 0, len(found))
	for _, c := range found {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Upsert saves the client keyed by phone and, when a device type is given,
// records a new device for it. Devices are not deduplicated.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*UpsertResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	phone := strings.TrimSpace(req.Phone)
	if fullName == "" || phone == "" {
		return nil, ErrNameAndPhoneRequired
	}

	client := &domain.Client{
		FullName: fullName,
		Phone:    phone,
		Address:  optional(req.Address),
		Email:    optional(req.Email),
	}

	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		repo := s.clients.WithTx(tx)
		if err := repo.UpsertByPhone(ctx, client); err != nil {
			return fmt.Errorf("upsert client: %w", err)
		}

		deviceType := strings.TrimSpace(req.DeviceType)
		if deviceType == "" {
			return nil
		}
		device := &domain.ClientDevice{
			ClientID:     client.ID,
			DeviceType:   deviceType,
			DeviceModel:  optional(req.DeviceModel),
			SerialNumber: optional(req.SerialNumber),
		}
		if err := repo.AddDevice(ctx, device); err != nil {
			return fmt.Errorf("add client device: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpsertResponse{
		ID:       client.ID,
		FullName: client.FullName,
		Phone:    client.Phone,
		Address:  client.Address,
		Email:    client.Email,
	}, nil
}

// optional maps blank input to NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
