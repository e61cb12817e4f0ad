package dataimporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kr/pretty"
	"github.com/planscope/planscope/pkg/clock"
	"github.com/planscope/planscope/pkg/config"
	"github.com/planscope/planscope/pkg/dataimporter/datasets"
	"github.com/planscope/planscope/pkg/dataimporter/manager"
	"github.com/planscope/planscope/pkg/export"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/projection"
	"github.com/planscope/planscope/pkg/scoring"
	"github.com/planscope/planscope/pkg/selection"
	"github.com/planscope/planscope/pkg/trips"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var loadFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of persons to read, 0 reads all",
	},
	&cli.BoolFlag{
		Name:  "selected-only",
		Usage: "Keep only the selected plan of each person",
	},
	&cli.BoolFlag{
		Name:  "force",
		Usage: "Ignore any cached copy of the dataset",
	},
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Load MATSim scenario outputs into plan chains and trip statistics",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the registered datasets",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					registered, err := manager.GetRegisteredDataSets(cfg.ScenariosDirectory)
					if err != nil {
						return err
					}

					for _, dataset := range registered {
						fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", dataset.Identifier, dataset.Format, dataset.Source)
					}
					return nil
				},
			},
			{
				Name:  "dataset",
				Usage: "Import a registered dataset",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "repeat-every",
						Usage: "Repeat the import every interval, refreshing the dataset cache",
					},
				}, loadFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					dataset, err := manager.GetDataset(cfg.ScenariosDirectory, c.String("id"))
					if err != nil {
						return err
					}

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						repeatDuration, err = time.ParseDuration(repeatEvery)
						if err != nil {
							return err
						}
					}

					options, err := loadOptions(c, cfg)
					if err != nil {
						return err
					}

					for {
						startTime := time.Now()

						scenario, err := manager.ImportDataset(c.Context, &dataset, options)
						if err != nil {
							return err
						}
						printScenario(c.App.Writer, &dataset, scenario)

						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration
						if waitTime.Seconds() > 0 {
							time.Sleep(waitTime)
						}
					}

					return nil
				},
			},
			{
				Name:  "scenario",
				Usage: "Load every output file of a run directory",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Run output directory",
						Required: true,
					},
				}, loadFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					options, err := loadOptions(c, cfg)
					if err != nil {
						return err
					}

					dataset := &datasets.DataSet{
						Identifier: c.String("dir"),
						Format:     datasets.DataSetFormatMATSimScenario,
						Source:     c.String("dir"),
					}

					scenario, err := manager.ImportDataset(c.Context, dataset, options)
					if err != nil {
						return err
					}
					printScenario(c.App.Writer, dataset, scenario)

					return nil
				},
			},
			{
				Name:  "plans",
				Usage: "Parse a plans file and score every plan",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Plans file, optionally gzip or xz compressed",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "facilities",
						Usage: "Facilities file used to place activities without coordinates",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Only show persons whose id contains this text",
					},
					&cli.BoolFlag{
						Name:  "inspect",
						Usage: "Print the full reconstructed timelines",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the persons as JSON",
					},
				}, loadFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					options, err := loadOptions(c, cfg)
					if err != nil {
						return err
					}

					scenario, err := manager.LoadScenario(c.Context, manager.ScenarioFiles{
						Plans:      c.String("file"),
						Facilities: c.String("facilities"),
					}, options)
					if err != nil {
						return err
					}

					index := selection.NewIndex(scenario.Persons)
					visible := index.SetPredicate(c.String("filter"))

					switch {
					case c.Bool("json"):
						encoder := json.NewEncoder(c.App.Writer)
						encoder.SetIndent("", "  ")
						return encoder.Encode(visible)
					case c.Bool("inspect"):
						for _, person := range visible {
							pretty.Fprintf(c.App.Writer, "%# v\n", person)
						}
						return nil
					default:
						printPlanScores(c.App.Writer, visible, cfg.ScoringWeights())
						return nil
					}
				},
			},
			{
				Name:  "trips",
				Usage: "Summarise a trips table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Trips CSV, comma or semicolon separated",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "person",
						Usage: "List the trips of one person",
					},
				},
				Action: func(c *cli.Context) error {
					scenario, err := manager.LoadScenario(c.Context, manager.ScenarioFiles{Trips: c.String("file")}, manager.LoadOptions{})
					if err != nil {
						return err
					}

					summary := trips.Summarise(scenario.Trips)
					fmt.Fprintf(c.App.Writer, "Trips: %d\n", summary.TripCount)
					fmt.Fprintf(c.App.Writer, "Trips with a duration: %d\n", summary.ContributingTrips)
					fmt.Fprintf(c.App.Writer, "Average travel time: %s\n", clock.FormatSeconds(summary.AverageTravelTime))

					for mode, count := range trips.ModeShare(scenario.Trips) {
						fmt.Fprintf(c.App.Writer, "  %s: %d\n", mode, count)
					}

					if personID := c.String("person"); personID != "" {
						grouping := trips.Group(scenario.Trips)
						for _, trip := range grouping.Lookup(personID) {
							fmt.Fprintf(c.App.Writer, "%s\t%s -> %s\t%s\t%s\t%s\n",
								trip.TripID, trip.StartActivity, trip.EndActivity, trip.Mode,
								clock.FormatOptional(trip.DepartureTime), clock.FormatOptional(trip.ArrivalTime))
						}
					}

					return nil
				},
			},
			{
				Name:  "network",
				Usage: "Write the links of one mode as GeoJSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Network file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Transport mode the links must allow",
						Value: "bus",
					},
					&cli.StringFlag{
						Name:  "crs",
						Usage: "Coordinate system of the network, defaults to the configured one",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file, stdout when empty",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					projector, err := projectorFor(cfg, c.String("crs"))
					if err != nil {
						return err
					}

					scenario, err := manager.LoadScenario(c.Context, manager.ScenarioFiles{Network: c.String("file")}, manager.LoadOptions{})
					if err != nil {
						return err
					}

					collection := scenario.Network.ModeLinks(projector, c.String("mode"))
					log.Info().Int("links", len(collection.Features)).Str("mode", c.String("mode")).Msg("Selected network links")

					geojsonBytes, err := collection.MarshalJSON()
					if err != nil {
						return err
					}

					return writeOutput(c, geojsonBytes)
				},
			},
			{
				Name:  "export",
				Usage: "Export plan summaries or step details as CSV",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Plans file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "plans or steps",
						Value: "plans",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Only export persons whose id contains this text",
					},
					&cli.StringFlag{
						Name:  "crs",
						Usage: "Coordinate system used to add lon/lat to step rows",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file, stdout when empty",
					},
				}, loadFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					options, err := loadOptions(c, cfg)
					if err != nil {
						return err
					}

					scenario, err := manager.LoadScenario(c.Context, manager.ScenarioFiles{Plans: c.String("file")}, options)
					if err != nil {
						return err
					}

					index := selection.NewIndex(scenario.Persons)
					index.SetPredicate(c.String("filter"))

					writer, closeWriter, err := outputWriter(c)
					if err != nil {
						return err
					}
					defer closeWriter()

					switch c.String("table") {
					case "plans":
						return export.WritePlanSummaries(writer, index, cfg.ScoringWeights())
					case "steps":
						var projector export.Projector
						if c.String("crs") != "" {
							p, err := projectorFor(cfg, c.String("crs"))
							if err != nil {
								return err
							}
							projector = p
						}
						return export.WriteStepDetails(writer, index, projector)
					default:
						return fmt.Errorf("unknown table %q, expected plans or steps", c.String("table"))
					}
				},
			},
		},
	}
}

func loadOptions(c *cli.Context, cfg *config.Config) (manager.LoadOptions, error) {
	transformSet, err := cfg.Transforms()
	if err != nil {
		return manager.LoadOptions{}, err
	}

	serverWeights := cfg.ServerScoringWeights()

	options := manager.LoadOptions{
		Limit:         c.Int("limit"),
		SelectedOnly:  c.Bool("selected-only"),
		ServerWeights: &serverWeights,
		Transforms:    transformSet,
		Force:         c.Bool("force"),
	}

	store, err := cfg.OpenDatasetStore()
	if err != nil {
		return manager.LoadOptions{}, err
	}
	options.Store = store

	return options, nil
}

func projectorFor(cfg *config.Config, code string) (*projection.Projector, error) {
	if code != "" {
		return projection.NewFromCode(code)
	}
	return cfg.Projector()
}

func outputWriter(c *cli.Context) (io.Writer, func(), error) {
	path := c.String("output")
	if path == "" {
		return c.App.Writer, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}

func writeOutput(c *cli.Context, content []byte) error {
	writer, closeWriter, err := outputWriter(c)
	if err != nil {
		return err
	}
	defer closeWriter()

	_, err = writer.Write(content)
	return err
}

func printScenario(writer io.Writer, dataset *datasets.DataSet, scenario *manager.Scenario) {
	fmt.Fprintf(writer, "Dataset: %s\n", dataset.Identifier)
	if scenario.DatasetKey != "" {
		fmt.Fprintf(writer, "Key: %s\n", scenario.CacheKey)
	}
	fmt.Fprintf(writer, "Persons: %d", len(scenario.Persons))
	if scenario.PersonsTruncated {
		fmt.Fprint(writer, " (limit reached)")
	}
	if scenario.FromCache {
		fmt.Fprint(writer, " (cached)")
	}
	fmt.Fprintln(writer)

	if scenario.Trips != nil {
		summary := trips.Summarise(scenario.Trips)
		fmt.Fprintf(writer, "Trips: %d, average travel time %s\n", summary.TripCount, clock.FormatSeconds(summary.AverageTravelTime))
	}
	if scenario.Network != nil {
		fmt.Fprintf(writer, "Network: %d nodes, %d links\n", len(scenario.Network.Nodes), len(scenario.Network.Links))
	}
	if scenario.Facilities != nil {
		fmt.Fprintf(writer, "Facilities: %d\n", len(scenario.Facilities))
	}
}

func printPlanScores(writer io.Writer, persons []*model.Person, weights scoring.WeightConfig) {
	for _, person := range persons {
		fmt.Fprintf(writer, "%s\n", person.PersonID)
		for i, plan := range person.Plans {
			marker := " "
			if plan.Selected {
				marker = "*"
			}
			fmt.Fprintf(writer, "  %s plan %d: %d steps, matsim %s, server %s, client %.1f\n",
				marker, i, len(plan.Steps),
				formatScore(plan.MatsimScore), formatScore(plan.ServerScore),
				scoring.Score(plan, weights))
		}
	}
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *score)
}
