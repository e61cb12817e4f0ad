package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/planscope/planscope/pkg/api/routes"
)

func NewApp(dependencies *routes.Dependencies) *fiber.App {
	webApp := fiber.New(fiber.Config{
		BodyLimit:             dependencies.Config.UploadLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())
	webApp.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(dependencies.Config.CORSOrigins, ","),
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Content-Type",
		ExposeHeaders: "X-Dataset-Key,X-Persons-Truncated,X-Request-ID",
	}))
	webApp.Use(compress.New())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.UploadRouter(group.Group("/upload"), dependencies)
	routes.ScoreRouter(group.Group("/score"), dependencies)
	routes.TripsRouter(group.Group("/trips"), dependencies)
	routes.NetworkRouter(group.Group("/network"), dependencies)
	routes.DatasetsRouter(group.Group("/datasets"), dependencies)
	routes.ExportRouter(group.Group("/export"), dependencies)

	return webApp
}

func SetupServer(listen string, dependencies *routes.Dependencies) error {
	return NewApp(dependencies).Listen(listen)
}
