package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/planscope/planscope/pkg/config"
	"github.com/planscope/planscope/pkg/datasetcache"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/transforms"
)

// Dependencies are shared by every route. Store is nil when no dataset
// cache is configured.
type Dependencies struct {
	Config     *config.Config
	Store      datasetcache.Store
	Transforms transforms.Set
}

// sendPersons writes persons as a JSON array, reduced to ids and scores
// when the summary view is requested
func sendPersons(c *fiber.Ctx, persons []*model.Person) error {
	if len(persons) == 0 {
		return c.JSON([]interface{}{})
	}

	groups := []string{"summary", "detailed"}
	if c.Query("view") == "summary" {
		groups = []string{"summary"}
	}

	personsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, persons)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Persons",
		})
	}

	return c.JSON(personsReduced)
}

func sendError(c *fiber.Ctx, status int, message string, err error) error {
	c.Status(status)

	response := fiber.Map{
		"error": message,
	}
	if err != nil {
		response["detail"] = err.Error()
	}

	return c.JSON(response)
}
