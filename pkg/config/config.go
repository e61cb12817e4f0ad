package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/planscope/planscope/pkg/projection"
	"github.com/planscope/planscope/pkg/scoring"
	"github.com/planscope/planscope/pkg/transforms"
	"github.com/planscope/planscope/pkg/util"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCoordinateSystem = "EPSG:6671"
	DefaultAgentLimit       = 200
	DefaultListenAddress    = ":8080"
	DefaultDatasetExpiry    = 24 * time.Hour
	DefaultUploadLimitMB    = 1024
	DefaultParseServer      = "http://localhost:5000/upload"
)

var DefaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

type StoreKind string

const (
	StoreNone  StoreKind = ""
	StoreRedis StoreKind = "redis"
	StoreMongo StoreKind = "mongo"
)

type Config struct {
	ListenAddress string   `yaml:"listen"`
	CORSOrigins   []string `yaml:"cors_origins"`
	UploadLimitMB int      `yaml:"upload_limit_mb"`

	// ParseServer is the upload endpoint of a remote parse delegate
	ParseServer string `yaml:"parse_server"`

	// CoordinateSystem names a preset, Projection overrides it with a full
	// descriptor
	CoordinateSystem string                       `yaml:"coordinate_system"`
	Projection       *projection.CoordinateSystem `yaml:"projection"`

	Weights       *scoring.WeightConfig `yaml:"weights"`
	ServerWeights *scoring.WeightConfig `yaml:"server_weights"`

	TransformsDirectory string `yaml:"transforms_directory"`
	ScenariosDirectory  string `yaml:"scenarios_directory"`

	AgentLimit   int  `yaml:"agent_limit"`
	SelectedOnly bool `yaml:"selected_only"`

	DatasetStore  StoreKind     `yaml:"dataset_store"`
	DatasetExpiry time.Duration `yaml:"dataset_expiry"`
}

func Default() *Config {
	return &Config{
		ListenAddress:       DefaultListenAddress,
		CORSOrigins:         append([]string{}, DefaultCORSOrigins...),
		UploadLimitMB:       DefaultUploadLimitMB,
		ParseServer:         DefaultParseServer,
		CoordinateSystem:    DefaultCoordinateSystem,
		TransformsDirectory: "data/transforms",
		ScenariosDirectory:  "data/scenarios",
		AgentLimit:          DefaultAgentLimit,
		SelectedOnly:        true,
		DatasetExpiry:       DefaultDatasetExpiry,
	}
}

// Load reads .env when present, then the YAML file named by
// PLANSCOPE_CONFIG, then the individual PLANSCOPE_* overrides
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	config := Default()
	env := util.GetEnvironmentVariables()

	if path := env["PLANSCOPE_CONFIG"]; path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := config.Decode(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := config.applyEnvironment(env); err != nil {
		return nil, err
	}

	return config, config.Validate()
}

func (c *Config) Decode(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}

	return nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	c.ListenAddress = util.EnvironmentString(env, "PLANSCOPE_LISTEN", c.ListenAddress)
	c.ParseServer = util.EnvironmentString(env, "PLANSCOPE_PARSE_SERVER", c.ParseServer)
	if origins := env["PLANSCOPE_CORS_ORIGINS"]; origins != "" {
		c.CORSOrigins = util.RemoveDuplicateStrings(strings.Split(strings.ReplaceAll(origins, " ", ""), ","), nil)
	}
	c.CoordinateSystem = util.EnvironmentString(env, "PLANSCOPE_COORDINATE_SYSTEM", c.CoordinateSystem)
	c.TransformsDirectory = util.EnvironmentString(env, "PLANSCOPE_TRANSFORMS", c.TransformsDirectory)
	c.ScenariosDirectory = util.EnvironmentString(env, "PLANSCOPE_SCENARIOS", c.ScenariosDirectory)
	c.SelectedOnly = util.EnvironmentBool(env, "PLANSCOPE_SELECTED_ONLY", c.SelectedOnly)
	c.DatasetStore = StoreKind(strings.ToLower(util.EnvironmentString(env, "PLANSCOPE_DATASET_STORE", string(c.DatasetStore))))

	limit, err := util.EnvironmentInt(env, "PLANSCOPE_AGENT_LIMIT", c.AgentLimit)
	if err != nil {
		return fmt.Errorf("PLANSCOPE_AGENT_LIMIT: %w", err)
	}
	c.AgentLimit = limit

	if path := env["PLANSCOPE_WEIGHTS"]; path != "" {
		weights, err := scoring.LoadWeights(path)
		if err != nil {
			return err
		}
		c.Weights = &weights
	}

	return nil
}

func (c *Config) Validate() error {
	if c.UploadLimitMB <= 0 {
		return fmt.Errorf("upload limit must be positive, got %d", c.UploadLimitMB)
	}

	if c.AgentLimit < 0 {
		return fmt.Errorf("agent limit must not be negative, got %d", c.AgentLimit)
	}

	switch c.DatasetStore {
	case StoreNone, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("unknown dataset store %q", c.DatasetStore)
	}

	for _, weights := range []*scoring.WeightConfig{c.Weights, c.ServerWeights} {
		if weights == nil {
			continue
		}
		if err := weights.Validate(); err != nil {
			return err
		}
	}

	if c.Projection != nil {
		return c.Projection.Validate()
	}

	_, err := projection.Lookup(c.CoordinateSystem)
	return err
}

// ScoringWeights returns the configured client weights or the defaults
func (c *Config) ScoringWeights() scoring.WeightConfig {
	if c.Weights != nil {
		return c.Weights.Clone()
	}
	return scoring.DefaultWeights()
}

// ServerScoringWeights is used to fill plans that carry no server score
func (c *Config) ServerScoringWeights() scoring.WeightConfig {
	if c.ServerWeights != nil {
		return c.ServerWeights.Clone()
	}
	return scoring.DefaultWeights()
}

func (c *Config) Projector() (*projection.Projector, error) {
	if c.Projection != nil {
		return projection.New(*c.Projection)
	}
	return projection.NewFromCode(c.CoordinateSystem)
}

func (c *Config) Transforms() (transforms.Set, error) {
	return transforms.Load(c.TransformsDirectory)
}
