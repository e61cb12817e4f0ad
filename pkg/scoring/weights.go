package scoring

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OtherKey is the fallback entry for activity types and modes that have no
// weight of their own
const OtherKey = "__other__"

var ErrInvalidWeights = errors.New("invalid weight config")

type WeightConfig struct {
	Act map[string]float64 `json:"act" yaml:"act"`
	Leg map[string]float64 `json:"leg" yaml:"leg"`
}

func DefaultWeights() WeightConfig {
	return WeightConfig{
		Act: map[string]float64{
			"Home":     1.0,
			"Work":     0.5,
			"Business": 0.3,
			"Shopping": 0.2,
			OtherKey:   0.1,
		},
		Leg: map[string]float64{
			"car":    -2.0,
			"walk":   0.5,
			"pt":     0.1,
			OtherKey: 0.0,
		},
	}
}

func (w WeightConfig) Validate() error {
	if w.Act == nil {
		return fmt.Errorf("%w: missing act weights", ErrInvalidWeights)
	}
	if w.Leg == nil {
		return fmt.Errorf("%w: missing leg weights", ErrInvalidWeights)
	}
	if _, ok := w.Act[OtherKey]; !ok {
		return fmt.Errorf("%w: act weights need a %s entry", ErrInvalidWeights, OtherKey)
	}
	if _, ok := w.Leg[OtherKey]; !ok {
		return fmt.Errorf("%w: leg weights need a %s entry", ErrInvalidWeights, OtherKey)
	}

	return nil
}

// Clone returns a copy that can be adjusted without touching w
func (w WeightConfig) Clone() WeightConfig {
	clone := WeightConfig{
		Act: make(map[string]float64, len(w.Act)),
		Leg: make(map[string]float64, len(w.Leg)),
	}
	for key, value := range w.Act {
		clone.Act[key] = value
	}
	for key, value := range w.Leg {
		clone.Leg[key] = value
	}
	return clone
}

func ParseWeights(data []byte) (WeightConfig, error) {
	var weights WeightConfig

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&weights); err != nil {
		return WeightConfig{}, fmt.Errorf("%w: %w", ErrInvalidWeights, err)
	}

	if err := weights.Validate(); err != nil {
		return WeightConfig{}, err
	}

	return weights, nil
}

// LoadWeights reads a YAML weight file
func LoadWeights(path string) (WeightConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WeightConfig{}, err
	}

	weights, err := ParseWeights(data)
	if err != nil {
		return WeightConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	return weights, nil
}
