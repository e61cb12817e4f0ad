package routes

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/planscope/planscope/pkg/datasetcache"
)

func DatasetsRouter(router fiber.Router, dependencies *Dependencies) {
	router.Get("/:key", dependencies.getDataset)
	router.Delete("/:key", dependencies.deleteDataset)
}

func (d *Dependencies) datasetKey(c *fiber.Ctx) (string, error) {
	if d.Store == nil {
		return "", sendError(c, fiber.StatusServiceUnavailable, "Dataset cache is not configured", nil)
	}

	key, err := url.PathUnescape(c.Params("key"))
	if err != nil || key == "" {
		return "", sendError(c, fiber.StatusBadRequest, "Invalid dataset key", err)
	}

	return key, nil
}

func (d *Dependencies) getDataset(c *fiber.Ctx) error {
	key, err := d.datasetKey(c)
	if key == "" {
		return err
	}

	persons, err := d.Store.Load(c.UserContext(), key)
	if errors.Is(err, datasetcache.ErrNotFound) {
		return sendError(c, fiber.StatusNotFound, "Could not find dataset matching key", nil)
	} else if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Could not read dataset cache", err)
	}

	return sendPersons(c, persons)
}

func (d *Dependencies) deleteDataset(c *fiber.Ctx) error {
	key, err := d.datasetKey(c)
	if key == "" {
		return err
	}

	if err := d.Store.Delete(c.UserContext(), key); err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Could not delete dataset", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
