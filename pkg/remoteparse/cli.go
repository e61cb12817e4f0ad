package remoteparse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/planscope/planscope/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "remote-parse",
		Usage: "Send a plans file to a parse server and print the persons it returns",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Upload URL of the parse server, defaults to the configured parse_server",
			},
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Plans file to upload",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "facilities",
				Usage: "Optional facilities file uploaded alongside the plans",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of persons the server should return",
			},
			&cli.BoolFlag{
				Name:  "selected-only",
				Usage: "Ask the server for the selected plan only",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the persons as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			endpoint := c.String("endpoint")
			if endpoint == "" {
				endpoint = cfg.ParseServer
			}

			plansFile, err := os.Open(c.String("file"))
			if err != nil {
				return err
			}
			defer plansFile.Close()

			request := Request{
				Plans: &Upload{Name: filepath.Base(plansFile.Name()), Reader: plansFile},
				Limit: c.Int("limit"),
			}
			if c.IsSet("selected-only") {
				selectedOnly := c.Bool("selected-only")
				request.SelectedOnly = &selectedOnly
			}

			if path := c.String("facilities"); path != "" {
				facilitiesFile, err := os.Open(path)
				if err != nil {
					return err
				}
				defer facilitiesFile.Close()

				request.Facilities = &Upload{Name: filepath.Base(path), Reader: facilitiesFile}
			}

			persons, err := NewClient(endpoint).Parse(c.Context, request)
			if err != nil {
				return err
			}
			log.Info().Str("endpoint", endpoint).Int("persons", len(persons)).Msg("Remote parse complete")

			if c.Bool("json") {
				encoder := json.NewEncoder(c.App.Writer)
				encoder.SetIndent("", "  ")
				return encoder.Encode(persons)
			}

			for _, person := range persons {
				selected := "-"
				if person.SelectedPlanIndex != nil {
					selected = fmt.Sprint(*person.SelectedPlanIndex)
				}
				fmt.Fprintf(c.App.Writer, "%s\t%d plans\tselected %s\n", person.PersonID, len(person.Plans), selected)
			}

			return nil
		},
	}
}
