package participants

import "errors"

var (
	ErrOrderIDRequired    = errors.New("orderId required")
	ErrOrderAndUserNeeded = errors.New("orderId and userId required")
	ErrOrderNotFound      = errors.New("order not found")
)
