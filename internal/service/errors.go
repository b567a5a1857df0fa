package service

import "errors"

var (
	ErrInvalidProduct = errors.New("invalid product")
	ErrEmptyCart      = errors.New("cannot check out an empty cart")
	ErrSessionMissing = errors.New("session id is required")
)
