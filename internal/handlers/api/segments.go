package api

import (
	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/models"
)

// Segments returns the segment value table in priority order.
func Segments(c fiber.Ctx) error {
	return jsonSuccess(c, models.SegmentTableResponse{
		Version:  models.SegmentTableVersion,
		Segments: models.SegmentTable(),
	})
}
