package projection

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var ErrUnknownCoordinateSystem = errors.New("unknown coordinate system")

type Kind string

const (
	KindTransverseMercator Kind = "tmerc"
	KindOSGB               Kind = "osgb"
	KindWGS84              Kind = "wgs84"
)

// CoordinateSystem describes how source x/y values map onto WGS84. Only
// transverse Mercator systems use the origin and scale fields, always on the
// GRS80 ellipsoid.
type CoordinateSystem struct {
	Code string `yaml:"code" json:"code"`
	Kind Kind   `yaml:"kind" json:"kind"`

	LatitudeOfOrigin float64 `yaml:"lat_0" json:"lat_0"`
	CentralMeridian  float64 `yaml:"lon_0" json:"lon_0"`
	ScaleFactor      float64 `yaml:"k" json:"k"`
	FalseEasting     float64 `yaml:"x_0" json:"x_0"`
	FalseNorthing    float64 `yaml:"y_0" json:"y_0"`
}

func (c CoordinateSystem) Validate() error {
	switch c.Kind {
	case KindOSGB, KindWGS84:
		return nil
	case KindTransverseMercator:
		if c.ScaleFactor <= 0 {
			return fmt.Errorf("%s: scale factor must be positive", c.Code)
		}
		if c.LatitudeOfOrigin < -90 || c.LatitudeOfOrigin > 90 {
			return fmt.Errorf("%s: latitude of origin out of range", c.Code)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %q", ErrUnknownCoordinateSystem, c.Kind)
	}
}

// Japan plane rectangular zones I to XIX on JGD2011
var jgd2011Origins = [][2]float64{
	{33, 129.5},
	{33, 131},
	{36, 132 + 10.0/60},
	{33, 133.5},
	{36, 134 + 20.0/60},
	{36, 136},
	{36, 137 + 10.0/60},
	{36, 138.5},
	{36, 139 + 50.0/60},
	{40, 140 + 50.0/60},
	{44, 140.25},
	{44, 142.25},
	{44, 144.25},
	{26, 142},
	{26, 127.5},
	{26, 124},
	{26, 131},
	{20, 136},
	{26, 154},
}

var presets = buildPresets()

func buildPresets() map[string]CoordinateSystem {
	systems := map[string]CoordinateSystem{
		"EPSG:4326":  {Code: "EPSG:4326", Kind: KindWGS84},
		"EPSG:27700": {Code: "EPSG:27700", Kind: KindOSGB},
	}

	for i, origin := range jgd2011Origins {
		code := fmt.Sprintf("EPSG:%d", 6669+i)
		systems[code] = CoordinateSystem{
			Code:             code,
			Kind:             KindTransverseMercator,
			LatitudeOfOrigin: origin[0],
			CentralMeridian:  origin[1],
			ScaleFactor:      0.9999,
		}
	}

	return systems
}

// Lookup returns a preset by EPSG code, case insensitive
func Lookup(code string) (CoordinateSystem, error) {
	system, ok := presets[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return CoordinateSystem{}, fmt.Errorf("%w: %s", ErrUnknownCoordinateSystem, code)
	}
	return system, nil
}

func Codes() []string {
	codes := make([]string, 0, len(presets))
	for code := range presets {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
