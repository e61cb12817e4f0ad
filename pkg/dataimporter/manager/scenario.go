package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/planscope/planscope/pkg/dataimporter/formats"
	"github.com/planscope/planscope/pkg/dataimporter/formats/matsimfacilities"
	"github.com/planscope/planscope/pkg/dataimporter/formats/matsimnetwork"
	"github.com/planscope/planscope/pkg/dataimporter/formats/matsimplans"
	"github.com/planscope/planscope/pkg/dataimporter/formats/matsimtrips"
	"github.com/planscope/planscope/pkg/datasetcache"
	"github.com/planscope/planscope/pkg/model"
	"github.com/planscope/planscope/pkg/planset"
	"github.com/planscope/planscope/pkg/scoring"
	"github.com/planscope/planscope/pkg/transforms"
	"github.com/rs/zerolog/log"
)

// ScenarioFiles are the paths of one simulation run's output files, empty
// when absent
type ScenarioFiles struct {
	Plans      string
	Trips      string
	Network    string
	Facilities string
}

var scenarioFileNames = struct {
	Plans      []string
	Trips      []string
	Network    []string
	Facilities []string
}{
	Plans:      []string{"output_plans.xml.gz", "output_plans.xml.xz", "output_plans.xml", "plans.xml.gz", "plans.xml"},
	Trips:      []string{"output_trips.csv.gz", "output_trips.csv.xz", "output_trips.csv", "trips.csv"},
	Network:    []string{"output_network.xml.gz", "output_network.xml.xz", "output_network.xml", "network.xml.gz", "network.xml"},
	Facilities: []string{"output_facilities.xml.gz", "output_facilities.xml.xz", "output_facilities.xml", "facilities.xml.gz", "facilities.xml"},
}

// DiscoverFiles finds the output files of a run directory. The plans file
// is required.
func DiscoverFiles(directory string) (ScenarioFiles, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return ScenarioFiles{}, err
	}
	if !info.IsDir() {
		return ScenarioFiles{}, fmt.Errorf("%s is not a directory", directory)
	}

	files := ScenarioFiles{
		Plans:      findFirst(directory, scenarioFileNames.Plans),
		Trips:      findFirst(directory, scenarioFileNames.Trips),
		Network:    findFirst(directory, scenarioFileNames.Network),
		Facilities: findFirst(directory, scenarioFileNames.Facilities),
	}

	if files.Plans == "" {
		return files, fmt.Errorf("%w: output_plans.xml.gz not found in %s", formats.ErrMissingRequiredFile, directory)
	}

	return files, nil
}

func findFirst(directory string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(directory, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

type LoadOptions struct {
	Limit        int
	SelectedOnly bool

	ServerWeights *scoring.WeightConfig
	Transforms    transforms.Set

	// FacilitiesFile describes the facilities document the persons were
	// located with, nil when there is none
	FacilitiesFile *datasetcache.FileDescriptor

	// Store is consulted before parsing plans and refreshed afterwards, nil
	// disables caching
	Store datasetcache.Store
	// Force skips the cache read
	Force bool
}

// PersonSet is the outcome of building the persons of one plans file
type PersonSet struct {
	DatasetKey string
	CacheKey   string

	Persons          []*model.Person
	PersonsTruncated bool
	FromCache        bool
}

type Scenario struct {
	PersonSet

	Trips      []*model.TripRecord
	Network    *matsimnetwork.Network
	Facilities map[string]orb.Point
}

// CacheKey is the storage key for the persons built from a dataset with
// the given facilities and options
func CacheKey(datasetKey string, facilities *datasetcache.FileDescriptor, limit int, selectedOnly bool) string {
	return fmt.Sprintf("%s:facilities=%s:limit=%d:selected=%t", datasetKey, datasetcache.DescribeAuxiliary(facilities), limit, selectedOnly)
}

func LoadScenario(ctx context.Context, files ScenarioFiles, options LoadOptions) (*Scenario, error) {
	scenario := &Scenario{}

	if files.Facilities != "" {
		facilities := &matsimfacilities.Facilities{}
		if err := parseFile(files.Facilities, facilities); err != nil {
			return nil, err
		}
		scenario.Facilities = facilities.Locations

		descriptor, err := datasetcache.DescribeFile(files.Facilities)
		if err != nil {
			return nil, err
		}
		options.FacilitiesFile = &descriptor
	}

	if files.Plans != "" {
		persons, err := loadPersonsFile(ctx, files.Plans, scenario.Facilities, options)
		if err != nil {
			return nil, err
		}
		scenario.PersonSet = *persons
	}

	if files.Trips != "" {
		trips := &matsimtrips.Trips{}
		if err := parseFile(files.Trips, trips); err != nil {
			return nil, err
		}
		scenario.Trips = trips.Records
	}

	if files.Network != "" {
		network := &matsimnetwork.Network{}
		if err := parseFile(files.Network, network); err != nil {
			return nil, err
		}
		scenario.Network = network
	}

	return scenario, nil
}

func loadPersonsFile(ctx context.Context, path string, facilities map[string]orb.Point, options LoadOptions) (*PersonSet, error) {
	descriptor, err := datasetcache.DescribeFile(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	persons, err := LoadPersons(ctx, file, &descriptor, facilities, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return persons, nil
}

// LoadPersons builds the persons of one plans document. With a descriptor
// and a store the result is read from and written to the dataset cache, on
// a cache hit reader is left untouched.
func LoadPersons(ctx context.Context, reader io.Reader, descriptor *datasetcache.FileDescriptor, facilities map[string]orb.Point, options LoadOptions) (*PersonSet, error) {
	result := &PersonSet{}

	if descriptor != nil {
		if key, ok := datasetcache.BuildDatasetKey([]datasetcache.FileDescriptor{*descriptor}); ok {
			result.DatasetKey = key
			result.CacheKey = CacheKey(key, options.FacilitiesFile, options.Limit, options.SelectedOnly)
		}
	}

	if options.Store != nil && result.CacheKey != "" && !options.Force {
		persons, err := options.Store.Load(ctx, result.CacheKey)
		if err == nil {
			log.Info().Str("key", result.CacheKey).Int("persons", len(persons)).Msg("Restored persons from dataset cache")
			result.Persons = persons
			result.FromCache = true
			return result, nil
		} else if !errors.Is(err, datasetcache.ErrNotFound) {
			log.Error().Err(err).Str("key", result.CacheKey).Msg("Failed to read dataset cache")
		}
	}

	population := &matsimplans.Population{Limit: options.Limit}
	if err := formats.ParseFile(population, reader); err != nil {
		return nil, err
	}

	builder := planset.NewBuilder(planset.Options{
		Limit:         options.Limit,
		SelectedOnly:  options.SelectedOnly,
		ServerWeights: options.ServerWeights,
		Facilities:    facilities,
		Transforms:    options.Transforms,
		Workers:       runtime.GOMAXPROCS(0),
	})
	result.Persons = builder.Build(population.Persons)
	result.PersonsTruncated = population.Truncated

	if options.Store != nil && result.CacheKey != "" {
		if err := options.Store.Save(ctx, result.CacheKey, result.Persons); err != nil {
			log.Error().Err(err).Str("key", result.CacheKey).Msg("Failed to save dataset cache")
		}
	}

	return result, nil
}

// ParseFacilities reads a facilities document into a location lookup
func ParseFacilities(reader io.Reader) (map[string]orb.Point, error) {
	facilities := &matsimfacilities.Facilities{}
	if err := formats.ParseFile(facilities, reader); err != nil {
		return nil, err
	}
	return facilities.Locations, nil
}

func parseFile(path string, format formats.Format) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := formats.ParseFile(format, file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
