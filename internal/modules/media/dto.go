package media

import (
	"time"

	"repairdesk/internal/domain"
	"repairdesk/internal/pkg/flexid"
)

type UploadRequest struct {
	OrderID     flexid.Key `json:"orderId"`
	FileData    string     `json:"fileData"`
	FileName    string     `json:"fileName"`
	FileType    string     `json:"fileType"`
	UploadedBy  *string    `json:"uploadedBy"`
	Description string     `json:"description"`
}

type DeleteRequest struct {
	ID flexid.ID `json:"id"`
}

type AvatarRequest struct {
	UserID   flexid.ID `json:"userId"`
	FileData string    `json:"fileData"`
	FileName string    `json:"fileName"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

type MediaResponse struct {
	ID          int64     `json:"id"`
	OrderID     string    `json:"orderId"`
	FileURL     string    `json:"fileUrl"`
	FileType    string    `json:"fileType"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	UploadedBy  *string   `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Description string    `json:"description"`
}

func toResponse(m *domain.OrderMedia) MediaResponse {
	return MediaResponse{
		ID:          m.ID,
		OrderID:     m.OrderID,
		FileURL:     m.FileURL,
		FileType:    m.FileType,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		UploadedBy:  m.UploadedBy,
		UploadedAt:  m.UploadedAt,
		Description: m.Description,
	}
}
