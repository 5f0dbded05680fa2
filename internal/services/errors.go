package services

import (
	"errors"

	"storefront/internal/repositories"
)

var (
	ErrNotFound           = repositories.ErrNotFound
	ErrConflict           = repositories.ErrConflict
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidAmount      = errors.New("amount must be non-zero and in whole cents")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
