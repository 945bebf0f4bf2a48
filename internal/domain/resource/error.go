package resource

import "errors"

var (
	ErrNotFound     = errors.New("row not found")
	ErrNoIdentity   = errors.New("no caller identity in context")
	ErrEmptyUpdate  = errors.New("no updatable fields")
	ErrInvalidInput = errors.New("invalid input")
)
