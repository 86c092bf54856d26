package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// queryLimit parses a "limit" query parameter clamped to [1, ceiling].
func queryLimit(c fiber.Ctx, def, ceiling int) (int, bool) {
	limit, err := queryInt(c, "limit", def)
	if err != nil || limit < 1 {
		return 0, false
	}
	return min(limit, ceiling), true
}
