package entity

import "errors"

var (
	ErrLeadNotFound        = errors.New("lead not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrMissingField        = errors.New("name and email are required")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrDuplicateConversion = errors.New("lead already converted")
)
