package devicetypes

import "errors"

var (
	ErrNameAndCategoryRequired = errors.New("name and category required")
	ErrIDRequired              = errors.New("id required")
)
