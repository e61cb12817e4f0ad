package routes

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/planscope/planscope/pkg/export"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/scoring"
	"github.com/planscope/planscope/pkg/selection"
)

type exportRequest struct {
	Persons []*model.Person       `json:"persons"`
	Weights *scoring.WeightConfig `json:"weights"`
	Filter  string                `json:"filter"`

	// Chosen overrides the plan exported per person id
	Chosen map[string]int `json:"chosen"`

	// CRS adds lon/lat to step rows when set
	CRS string `json:"crs"`
}

func ExportRouter(router fiber.Router, dependencies *Dependencies) {
	router.Post("/:table", dependencies.exportTable)
}

func (d *Dependencies) exportTable(c *fiber.Ctx) error {
	table := c.Params("table")
	if table != "plans" && table != "steps" {
		return sendError(c, fiber.StatusNotFound, "Table should be plans or steps", nil)
	}

	var request exportRequest
	if err := c.BodyParser(&request); err != nil {
		return sendError(c, fiber.StatusBadRequest, "Body should be a JSON object with persons", err)
	}

	index := selection.NewIndex(request.Persons)
	index.SetPredicate(request.Filter)

	for personID, planIndex := range request.Chosen {
		person := index.Lookup(personID)
		if person == nil {
			return sendError(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown person %s", personID), nil)
		}
		if err := index.Choose(person, planIndex); err != nil {
			return sendError(c, fiber.StatusBadRequest, "Invalid chosen plan", err)
		}
	}

	var buffer bytes.Buffer

	switch table {
	case "plans":
		weights := d.Config.ScoringWeights()
		if request.Weights != nil {
			if err := request.Weights.Validate(); err != nil {
				return sendError(c, fiber.StatusBadRequest, "Invalid weights", err)
			}
			weights = *request.Weights
		}

		if err := export.WritePlanSummaries(&buffer, index, weights); err != nil {
			return sendError(c, fiber.StatusInternalServerError, "Could not write CSV", err)
		}
	case "steps":
		var projector export.Projector
		if request.CRS != "" {
			p, err := d.projector(request.CRS)
			if err != nil {
				return sendError(c, fiber.StatusBadRequest, "Unknown coordinate system", err)
			}
			projector = p
		}

		if err := export.WriteStepDetails(&buffer, index, projector); err != nil {
			return sendError(c, fiber.StatusInternalServerError, "Could not write CSV", err)
		}
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.csv"`, table))
	return c.Send(buffer.Bytes())
}
