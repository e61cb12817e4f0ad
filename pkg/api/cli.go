package api

import (
	"github.com/planscope/planscope/pkg/api/routes"
	"github.com/planscope/planscope/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the plan parse and scoring web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, defaults to the configured address",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					store, err := cfg.OpenDatasetStore()
					if err != nil {
						return err
					}

					transformSet, err := cfg.Transforms()
					if err != nil {
						return err
					}

					listen := c.String("listen")
					if listen == "" {
						listen = cfg.ListenAddress
					}

					log.Info().Str("listen", listen).Msg("Starting web api")

					return SetupServer(listen, &routes.Dependencies{
						Config:     cfg,
						Store:      store,
						Transforms: transformSet,
					})
				},
			},
		},
	}
}
