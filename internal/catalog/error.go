package catalog

import "errors"

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidPrice    = errors.New("price must be positive")
)
