package media

import "errors"

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidFileData     = errors.New("invalid fileData")
	ErrInvalidOrderID      = errors.New("invalid orderId")
	ErrOrderIDRequired     = errors.New("orderId is required")
	ErrIDRequired          = errors.New("id required")
	ErrMediaNotFound       = errors.New("media not found")
	ErrAvatarFieldsMissing = errors.New("userId, fileData and fileName required")
	ErrUserIDRequired      = errors.New("userId required")
	ErrUserNotFound        = errors.New("user not found")
)
