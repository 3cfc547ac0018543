package orders

import "errors"

var (
	ErrMissingField     = errors.New("missing required field")
	ErrOrderExists      = errors.New("order already exists")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidDeadline  = errors.New("invalid statusDeadline")
	ErrOrderIDRequired  = errors.New("orderId required")
	ErrChatFieldsNeeded = errors.New("orderId, userId, userName and message required")
)
