package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

func queryString(c *fiber.Ctx, name string) *string {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	return &val
}

func queryInt64(c *fiber.Ctx, name string) *int64 {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	val := c.Query(name)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
