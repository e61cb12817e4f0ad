package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/planscope/planscope/pkg/dataimporter/formats"
	"github.com/planscope/planscope/pkg/dataimporter/formats/matsimnetwork"
	"github.com/planscope/planscope/pkg/projection"
)

func NetworkRouter(router fiber.Router, dependencies *Dependencies) {
	router.Post("/", dependencies.networkLinks)
}

// networkLinks answers with the GeoJSON links of one mode, bus by default
func (d *Dependencies) networkLinks(c *fiber.Ctx) error {
	projector, err := d.projector(c.Query("crs"))
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "Unknown coordinate system", err)
	}

	networkHeader, err := c.FormFile("file")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "No file uploaded", nil)
	}

	networkFile, err := networkHeader.Open()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Could not read network file", err)
	}
	defer networkFile.Close()

	network := &matsimnetwork.Network{}
	if err := formats.ParseFile(network, networkFile); err != nil {
		return sendError(c, fiber.StatusBadRequest, "Could not parse network file", err)
	}

	collection := network.ModeLinks(projector, c.Query("mode", "bus"))
	geojsonBytes, err := collection.MarshalJSON()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Could not encode links", err)
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(geojsonBytes)
}

func (d *Dependencies) projector(code string) (*projection.Projector, error) {
	if code != "" {
		return projection.NewFromCode(code)
	}
	return d.Config.Projector()
}
