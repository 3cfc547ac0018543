package orders

import (
	"bytes"
	"encoding/json"
	"time"

	"repairdesk/internal/domain"
	"repairdesk/internal/pkg/flexid"
	"repairdesk/internal/repository"
)

const (
	createdAtLayout = "02.01.2006"
	deadlineLayout  = "2006-01-02T15:04:05"
)

// CreateRequest is the intake form. History is stored verbatim.
type CreateRequest struct {
	ID            flexid.Key `json:"id" validate:"required"`
	ClientName    string     `json:"clientName" validate:"required"`
	ClientAddress string     `json:"clientAddress" validate:"required"`
	ClientPhone   string     `json:"clientPhone" validate:"required"`
	DeviceType    string     `json:"deviceType" validate:"required"`
	DeviceModel   string     `json:"deviceModel" validate:"required"`
	SerialNumber  string     `json:"serialNumber" validate:"required"`
	Issue         string     `json:"issue" validate:"required"`
	Appearance    string     `json:"appearance" validate:"required"`
	Accessories   string     `json:"accessories" validate:"required"`
	Status        string     `json:"status" validate:"required"`
	Priority      string     `json:"priority" validate:"required"`
	RepairType    string     `json:"repairType" validate:"required"`
	CreatedTime   string     `json:"createdTime" validate:"required"`

	History           json.RawMessage `json:"history"`
	Price             *float64        `json:"price"`
	Master            *string         `json:"master"`
	RepairDescription *string         `json:"repairDescription"`
}

type UpdateStatusRequest struct {
	ID                flexid.Key      `json:"id" validate:"required"`
	Status            string          `json:"status" validate:"required"`
	History           json.RawMessage `json:"history"`
	Master            *string         `json:"master"`
	RepairDescription *string         `json:"repairDescription"`
	StatusDeadline    *string         `json:"statusDeadline"`
}

type OrderResponse struct {
	ID                string          `json:"id"`
	ClientName        string          `json:"clientName"`
	ClientAddress     string          `json:"clientAddress"`
	ClientPhone       string          `json:"clientPhone"`
	DeviceType        string          `json:"deviceType"`
	DeviceModel       string          `json:"deviceModel"`
	SerialNumber      string          `json:"serialNumber"`
	Issue             string          `json:"issue"`
	Appearance        string          `json:"appearance"`
	Accessories       string          `json:"accessories"`
	Status            string          `json:"status"`
	Priority          string          `json:"priority"`
	RepairType        string          `json:"repairType"`
	CreatedAt         string          `json:"createdAt"`
	CreatedTime       string          `json:"createdTime"`
	Price             *float64        `json:"price"`
	Master            *string         `json:"master"`
	History           json.RawMessage `json:"history"`
	RepairDescription *string         `json:"repairDescription"`
	StatusDeadline    *string         `json:"statusDeadline"`
	StatusChangedAt   *string         `json:"statusChangedAt"`
	IsOverdue         bool            `json:"isOverdue"`
}

type HistoryResponse struct {
	ID            int64    `json:"id"`
	OldStatus     string   `json:"oldStatus"`
	NewStatus     string   `json:"newStatus"`
	ChangedBy     *string  `json:"changedBy"`
	DurationHours *float64 `json:"durationHours"`
	WasOverdue    bool     `json:"wasOverdue"`
	ChangedAt     string   `json:"changedAt"`
}

type ChatMessageRequest struct {
	OrderID  flexid.Key `json:"orderId"`
	UserID   flexid.ID  `json:"userId"`
	UserName string     `json:"userName"`
	Message  string     `json:"message"`
}

type ChatMessageResponse struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"orderId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
	AvatarURL *string   `json:"avatarUrl"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	history := json.RawMessage(o.History)
	if len(bytes.TrimSpace(history)) == 0 {
		history = json.RawMessage("null")
	}
	return OrderResponse{
		ID:                o.OrderID,
		ClientName:        o.ClientName,
		ClientAddress:     o.ClientAddress,
		ClientPhone:       o.ClientPhone,
		DeviceType:        o.DeviceType,
		DeviceModel:       o.DeviceModel,
		SerialNumber:      o.SerialNumber,
		Issue:             o.Issue,
		Appearance:        o.Appearance,
		Accessories:       o.Accessories,
		Status:            o.Status,
		Priority:          o.Priority,
		RepairType:        o.RepairType,
		CreatedAt:         o.CreatedAt.Local().Format(createdAtLayout),
		CreatedTime:       o.CreatedTime,
		Price:             o.Price,
		Master:            o.Master,
		History:           history,
		RepairDescription: o.RepairDescription,
		StatusDeadline:    formatTimestamp(o.StatusDeadline),
		StatusChangedAt:   formatTimestamp(o.StatusChangedAt),
		IsOverdue:         o.IsOverdue,
	}
}

func toHistoryResponse(h domain.StatusHistory) HistoryResponse {
	return HistoryResponse{
		ID:            h.ID,
		OldStatus:     h.OldStatus,
		NewStatus:     h.NewStatus,
		ChangedBy:     h.ChangedBy,
		DurationHours: h.DurationHours,
		WasOverdue:    h.WasOverdue,
		ChangedAt:     h.ChangedAt.Local().Format(deadlineLayout),
	}
}

func toChatResponse(r repository.MessageRow) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        r.ID,
		OrderID:   r.OrderID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		IsRead:    r.IsRead,
		AvatarURL: r.AvatarURL,
	}
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Local().Format(deadlineLayout)
	return &s
}

// deadlineLayouts are tried in order; layouts without a zone are local time.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	deadlineLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDeadline maps nil and "" to no deadline.
func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, *raw, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDeadline
}

// hasJSON reports whether a required JSON value was actually sent.
func hasJSON(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
