package repository

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence = errors.New("trip store failure")
	ErrInvalid     = errors.New("invalid input")
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
