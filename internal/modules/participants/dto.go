package participants

import (
	"repairdesk/internal/pkg/flexid"
	"repairdesk/internal/repository"
)

const addedAtLayout = "02.01.2006 15:04"

type AddRequest struct {
	OrderID flexid.Key `json:"orderId"`
	UserID  flexid.ID  `json:"userId"`
	Role    string     `json:"role"`
}

type RemoveRequest struct {
	OrderID flexid.Key `json:"orderId"`
	UserID  flexid.ID  `json:"userId"`
}

type ParticipantResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"userId"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	AssignmentRole string `json:"assignmentRole"`
	AddedAt        string `json:"addedAt"`
}

func toResponse(r repository.ParticipantRow) ParticipantResponse {
	return ParticipantResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		Username:       r.Username,
		FullName:       r.FullName,
		Role:           r.Role,
		AssignmentRole: r.AssignmentRole,
		AddedAt:        r.AddedAt.Local().Format(addedAtLayout),
	}
}
