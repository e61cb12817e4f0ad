package routes

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/planscope/planscope/pkg/dataimporter/manager"
	"github.com/planscope/planscope/pkg/datasetcache"
)

func UploadRouter(router fiber.Router, dependencies *Dependencies) {
	router.Post("/", dependencies.uploadPlans)
}

// uploadPlans is the parse delegate. It takes a multipart plans file and an
// optional facilities file and answers with the JSON array of persons.
func (d *Dependencies) uploadPlans(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(d.Config.AgentLimit)))
	if err != nil || limit <= 0 {
		limit = d.Config.AgentLimit
	}

	selectedOnly := strings.ToLower(c.Query("selected_only", strconv.FormatBool(d.Config.SelectedOnly))) != "false"

	plansHeader, err := c.FormFile("file")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "No file uploaded", nil)
	}

	var facilities map[string]orb.Point
	var facilitiesDescriptor *datasetcache.FileDescriptor
	if facilitiesHeader, err := c.FormFile("facilities"); err == nil {
		facilitiesFile, err := facilitiesHeader.Open()
		if err != nil {
			return sendError(c, fiber.StatusInternalServerError, "Could not read facilities file", err)
		}
		defer facilitiesFile.Close()

		facilities, err = manager.ParseFacilities(facilitiesFile)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "Could not parse facilities file", err)
		}

		facilitiesDescriptor = &datasetcache.FileDescriptor{
			Name: facilitiesHeader.Filename,
			Size: facilitiesHeader.Size,
		}
		if lastModified, err := strconv.ParseInt(c.FormValue("facilitiesLastModified"), 10, 64); err == nil {
			facilitiesDescriptor.ModTime = time.UnixMilli(lastModified)
		}
	}

	// The browser's File.lastModified lets repeated uploads hit the cache
	var descriptor *datasetcache.FileDescriptor
	if lastModified, err := strconv.ParseInt(c.FormValue("lastModified"), 10, 64); err == nil {
		descriptor = &datasetcache.FileDescriptor{
			Name:    plansHeader.Filename,
			Size:    plansHeader.Size,
			ModTime: time.UnixMilli(lastModified),
		}
	}

	plansFile, err := plansHeader.Open()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Could not read plans file", err)
	}
	defer plansFile.Close()

	serverWeights := d.Config.ServerScoringWeights()
	result, err := manager.LoadPersons(c.UserContext(), plansFile, descriptor, facilities, manager.LoadOptions{
		Limit:          limit,
		SelectedOnly:   selectedOnly,
		ServerWeights:  &serverWeights,
		Transforms:     d.Transforms,
		FacilitiesFile: facilitiesDescriptor,
		Store:          d.Store,
	})
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "Could not parse plans file", err)
	}

	if result.CacheKey != "" {
		c.Set("X-Dataset-Key", result.CacheKey)
	}
	if result.PersonsTruncated {
		c.Set("X-Persons-Truncated", "true")
	}

	return sendPersons(c, result.Persons)
}
