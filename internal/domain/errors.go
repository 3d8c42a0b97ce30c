package domain

import "errors"

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("group store unavailable")
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrProvider         = errors.New("completion provider error")
	ErrInvalidAmount    = errors.New("invalid amount")
)
