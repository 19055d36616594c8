package helpers

import (
	"elles-app/services"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

func Success(ctx *fiber.Ctx, status int, message string, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Failure(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// RespondError renders service errors with their client status. Anything
// unexpected is returned to the app's error handler.
func RespondError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return Failure(ctx, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrDuplicateReference),
		errors.Is(err, services.ErrInsufficientStock):
		return Failure(ctx, fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// QueryInt reads an integer query parameter within [min, max], falling back
// to def when the parameter is absent.
func QueryInt(ctx *fiber.Ctx, key string, def, min, max int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return value, nil
}

// Pagination reads skip (>= 0) and limit (1..1000, default 100).
func Pagination(ctx *fiber.Ctx) (skip, limit int, err error) {
	skip, err = QueryInt(ctx, "skip", 0, 0, math.MaxInt32)
	if err != nil {
		return 0, 0, err
	}
	limit, err = QueryInt(ctx, "limit", DefaultLimit, 1, MaxLimit)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

// ParamID reads a positive numeric path parameter.
func ParamID(ctx *fiber.Ctx, key string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Params(key), 10, 32)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return uint(value), nil
}
