package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/domain"
	"repairdesk/internal/metrics"
	"repairdesk/internal/pkg/storage"
	"repairdesk/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	kindOrder  = "order"
	kindAvatar = "avatar"
)

// Service keeps attachment metadata in the database and blobs in the
// object store. A row is written as pending before its blob and flipped to
// stored afterwards; pending rows are invisible to listings.
type Service struct {
	media *repository.MediaRepository
	users *repository.UserRepository
	store storage.ObjectStore
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewService(media *repository.MediaRepository, users *repository.UserRepository, store storage.ObjectStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		media: media,
		users: users,
		store: store,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (s *Service) List(ctx context.Context, orderID string) ([]MediaResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	items, err := s.media.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	out := make([]MediaResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) Upload(ctx context.Context, req UploadRequest) (*MediaResponse, error) {
	orderID := strings.TrimSpace(req.OrderID.String())
	if orderID == "" || req.FileData == "" || req.FileName == "" || req.FileType == "" {
		return nil, ErrMissingFields
	}
	if !validKeySegment(orderID) {
		return nil, ErrInvalidOrderID
	}
	data, err := decodeFileData(req.FileData)
	if err != nil {
		return nil, err
	}

	ext := extension(req.FileName)
	key := fmt.Sprintf("order-%s/%s.%s", orderID, s.newID(), ext)

	row := &domain.OrderMedia{
		OrderID:     orderID,
		ObjectKey:   key,
		FileURL:     s.store.URL(key),
		FileType:    req.FileType,
		FileName:    req.FileName,
		FileSize:    int64(len(data)),
		UploadedBy:  req.UploadedBy,
		UploadedAt:  s.now(),
		Description: req.Description,
	}
	if err := s.media.CreatePending(ctx, row); err != nil {
		metrics.MediaUploads.WithLabelValues(kindOrder, "error").Inc()
		return nil, fmt.Errorf("insert media row: %w", err)
	}

	if err := s.store.Put(ctx, key, data, contentTypeFor(ext, req.FileType)); err != nil {
		metrics.MediaUploads.WithLabelValues(kindOrder, "error").Inc()
		if _, derr := s.media.Delete(ctx, row.ID); derr != nil {
			// останется pending, его уберёт sweep
			s.log.Warn("drop pending media row", zap.Int64("media_id", row.ID), zap.Error(derr))
		}
		return nil, fmt.Errorf("store blob: %w", err)
	}

	if err := s.media.MarkStored(ctx, row.ID); err != nil {
		metrics.MediaUploads.WithLabelValues(kindOrder, "error").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upload of %s expired before completion", key)
		}
		return nil, fmt.Errorf("mark media stored: %w", err)
	}
	row.State = domain.MediaStateStored

	metrics.MediaUploads.WithLabelValues(kindOrder, "ok").Inc()
	metrics.MediaUploadBytes.Observe(float64(len(data)))

	resp := toResponse(row)
	return &resp, nil
}

// Delete removes the metadata row. The blob stays in the bucket.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	n, err := s.media.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if n == 0 {
		return ErrMediaNotFound
	}
	return nil
}

// SetAvatar stores the picture and points users.avatar_url at it.
func (s *Service) SetAvatar(ctx context.Context, req AvatarRequest) (*AvatarResponse, error) {
	if req.UserID <= 0 || req.FileData == "" || req.FileName == "" {
		return nil, ErrAvatarFieldsMissing
	}
	data, err := decodeFileData(req.FileData)
	if err != nil {
		return nil, err
	}

	userID := req.UserID.Int64()
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ext := extension(req.FileName)
	key := fmt.Sprintf("avatars/user-%d/%s.%s", userID, s.newID(), ext)
	if err := s.store.Put(ctx, key, data, contentTypeFor(ext, fileTypeImage)); err != nil {
		metrics.MediaUploads.WithLabelValues(kindAvatar, "error").Inc()
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	url := s.store.URL(key)
	if err := s.users.SetAvatar(ctx, userID, &url); err != nil {
		metrics.MediaUploads.WithLabelValues(kindAvatar, "error").Inc()
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("drop unused avatar blob", zap.String("key", key), zap.Error(derr))
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("save avatar url: %w", err)
	}

	metrics.MediaUploads.WithLabelValues(kindAvatar, "ok").Inc()
	metrics.MediaUploadBytes.Observe(float64(len(data)))
	return &AvatarResponse{AvatarURL: url}, nil
}

func (s *Service) ClearAvatar(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrUserIDRequired
	}
	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("clear avatar: %w", err)
	}
	return nil
}

// decodeFileData accepts plain base64 or a data: URL.
func decodeFileData(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		i := strings.Index(raw, ";base64,")
		if i < 0 {
			return nil, ErrInvalidFileData
		}
		raw = raw[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrInvalidFileData
	}
	return data, nil
}
