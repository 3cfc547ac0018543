package devicetypes

import "repairdesk/internal/pkg/flexid"

type CreateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type DeleteRequest struct {
	ID flexid.ID `json:"id"`
}
