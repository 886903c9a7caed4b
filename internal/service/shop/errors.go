package shop

import "errors"

// Sentinel errors for the shop service layer.
var (
	ErrNotFound = errors.New("shop not found")
)
