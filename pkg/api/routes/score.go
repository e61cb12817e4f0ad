package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/scoring"
)

type scoreRequest struct {
	Persons []*model.Person       `json:"persons"`
	Weights *scoring.WeightConfig `json:"weights"`
}

type personScores struct {
	PersonID      string    `json:"personId"`
	Scores        []float64 `json:"scores"`
	BestPlanIndex int       `json:"bestPlanIndex"`
}

func ScoreRouter(router fiber.Router, dependencies *Dependencies) {
	router.Post("/", dependencies.scorePersons)
}

func (d *Dependencies) scorePersons(c *fiber.Ctx) error {
	var request scoreRequest
	if err := c.BodyParser(&request); err != nil {
		return sendError(c, fiber.StatusBadRequest, "Body should be a JSON object with persons", err)
	}

	weights := d.Config.ScoringWeights()
	if request.Weights != nil {
		if err := request.Weights.Validate(); err != nil {
			return sendError(c, fiber.StatusBadRequest, "Invalid weights", err)
		}
		weights = *request.Weights
	}

	response := make([]personScores, 0, len(request.Persons))
	for _, person := range request.Persons {
		if person == nil {
			continue
		}

		response = append(response, personScores{
			PersonID:      person.PersonID,
			Scores:        scoring.ScorePerson(person, weights),
			BestPlanIndex: scoring.BestPlanIndex(person, weights),
		})
	}

	return c.JSON(response)
}
