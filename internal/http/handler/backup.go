package handler

import (
	"github.com/gofiber/fiber/v2"

	"spruchapi/internal/backup"
)

// CreateBackup godoc
// @Summary Snapshot all quotes to object storage
// @Description Responds 404 when no object store is configured.
// @Tags sprueche
// @Produce json
// @Success 201 {object} handler.backupResponse
// @Failure 404 {object} handler.errorPayload
// @Failure 500 {object} handler.errorPayload
// @Router /sprueche/backup [post]
func CreateBackup(b backup.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil {
			return writeError(c, fiber.StatusNotFound, "BACKUPS_DISABLED", "backups are not configured")
		}
		snap, err := b.Snapshot(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusCreated, snap)
	}
}
