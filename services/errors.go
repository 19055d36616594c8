package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateReference = errors.New("stock reference already exists")
	ErrInsufficientStock  = errors.New("Insufficient stock")
	ErrInvalidInput       = errors.New("invalid input")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func insufficient(available, requested int) error {
	return fmt.Errorf("%w. Available: %d, Requested: %d", ErrInsufficientStock, available, requested)
}

// notFound maps gorm's missing-row error onto ErrNotFound and passes other
// errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
