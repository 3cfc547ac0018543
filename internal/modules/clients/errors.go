package clients

import "errors"

var ErrNameAndPhoneRequired = errors.New("full name and phone required")
