package clients

import "repairdesk/internal/domain"

// SearchQuery holds the GET filters. Only the first non-empty one in the
// order phone, serialNumber, search is applied.
type SearchQuery struct {
	Phone        string `form:"phone"`
	SerialNumber string `form:"serialNumber"`
	Search       string `form:"search"`
}

type UpsertRequest struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	DeviceType   string `json:"deviceType"`
	DeviceModel  string `json:"deviceModel"`
	SerialNumber string `json:"serialNumber"`
}

type DeviceResponse struct {
	ID           int64   `json:"id"`
	DeviceType   string  `json:"deviceType"`
	DeviceModel  *string `json:"deviceModel"`
	SerialNumber *string `json:"serialNumber"`
}

type ClientResponse struct {
	ID       int64            `json:"id"`
	FullName string           `json:"fullName"`
	Phone    string           `json:"phone"`
	Address  *string          `json:"address"`
	Email    *string          `json:"email"`
	Devices  []DeviceResponse `json:"devices"`
}

// UpsertResponse is the saved client without devices.
type UpsertResponse struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Phone    string  `json:"phone"`
	Address  *string `json:"address"`
	Email    *string `json:"email"`
}

func toClientResponse(c domain.Client) ClientResponse {
	devices := make([]DeviceResponse, 0, len(c.Devices))
	for _, d := range c.Devices {
		devices = append(devices, DeviceResponse{
			ID:           d.ID,
			DeviceType:   d.DeviceType,
			DeviceModel:  d.DeviceModel,
			SerialNumber: d.SerialNumber,
		})
	}
	return ClientResponse{
		ID:       c.ID,
		FullName: c.FullName,
		Phone:    c.Phone,
		Address:  c.Address,
		Email:    c.Email,
		Devices:  devices,
	}
}
