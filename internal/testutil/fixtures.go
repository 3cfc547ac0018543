package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
)

func CreateUser(t *testing.T, db *gorm.DB, username, fullName, role string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, FullName: fullName, Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateOrder inserts a minimal valid order with the given external id.
func CreateOrder(t *testing.T, db *gorm.DB, orderID, status string) *domain.Order {
	t.Helper()
	history, _ := json.Marshal([]map[string]string{{"status": status}})
	o := &domain.Order{
		OrderID:       orderID,
		ClientName:    "Ivan",
		ClientAddress: "Lenina 1",
		ClientPhone:   "+71234567890",
		DeviceType:    "Phone",
		DeviceModel:   "X1",
		SerialNumber:  "SN-1",
		Issue:         "broken screen",
		Appearance:    "scratches",
		Accessories:   "none",
		Status:        status,
		Priority:      "normal",
		RepairType:    "paid",
		CreatedTime:   "10:00",
		History:       string(history),
		CreatedAt:     time.Now(),
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}
