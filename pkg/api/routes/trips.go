package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/planscope/planscope/pkg/dataimporter/formats"
	"github.com/planscope/planscope/pkg/dataimporter/formats/matsimtrips"
	"github.com/planscope/planscope/pkg/trips"
)

func TripsRouter(router fiber.Router, dependencies *Dependencies) {
	router.Post("/", dependencies.summariseTrips)
}

func (d *Dependencies) summariseTrips(c *fiber.Ctx) error {
	tripsHeader, err := c.FormFile("file")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "No file uploaded", nil)
	}

	tripsFile, err := tripsHeader.Open()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Could not read trips file", err)
	}
	defer tripsFile.Close()

	table := &matsimtrips.Trips{}
	if err := formats.ParseFile(table, tripsFile); err != nil {
		return sendError(c, fiber.StatusBadRequest, "Could not parse trips file", err)
	}

	grouping := trips.Group(table.Records)
	people := grouping.People
	if personID := c.Query("person"); personID != "" {
		people = []*trips.PersonTrips{{PersonID: personID, Trips: grouping.Lookup(personID)}}
	}

	return c.JSON(fiber.Map{
		"summary":   trips.Summarise(table.Records),
		"modeShare": trips.ModeShare(table.Records),
		"persons":   people,
	})
}
