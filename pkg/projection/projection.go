package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/paulcager/osgridref"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

var ErrProjectionFailure = errors.New("projection failed")

// GRS80
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257222101
)

type Projector struct {
	System CoordinateSystem

	e2       float64
	ep2      float64
	e1       float64
	m0       float64
	muFactor float64
}

func New(system CoordinateSystem) (*Projector, error) {
	if err := system.Validate(); err != nil {
		return nil, err
	}

	p := &Projector{System: system}

	p.e2 = 2*flattening - flattening*flattening
	p.ep2 = p.e2 / (1 - p.e2)
	root := math.Sqrt(1 - p.e2)
	p.e1 = (1 - root) / (1 + root)

	e4 := p.e2 * p.e2
	e6 := e4 * p.e2
	p.muFactor = semiMajorAxis * (1 - p.e2/4 - 3*e4/64 - 5*e6/256)
	p.m0 = p.meridionalArc(radians(system.LatitudeOfOrigin))

	return p, nil
}

// NewFromCode builds a projector for a preset EPSG code
func NewFromCode(code string) (*Projector, error) {
	system, err := Lookup(code)
	if err != nil {
		return nil, err
	}
	return New(system)
}

// Project maps a source coordinate to lon/lat. Failures are logged and give
// the [0, 0] point.
func (p *Projector) Project(x float64, y float64) orb.Point {
	point, err := p.ToLonLat(x, y)
	if err != nil {
		log.Error().Err(err).Float64("x", x).Float64("y", y).Str("system", p.System.Code).Msg("Projection failed")
		return orb.Point{0, 0}
	}
	return point
}

func (p *Projector) ToLonLat(x float64, y float64) (orb.Point, error) {
	if !finite(x) || !finite(y) {
		return orb.Point{}, fmt.Errorf("%w: non-finite input", ErrProjectionFailure)
	}

	var lon, lat float64

	switch p.System.Kind {
	case KindWGS84:
		lon, lat = x, y
	case KindOSGB:
		gridRef, err := osgridref.ParseOsGridRef(fmt.Sprintf("%s,%s", formatCoordinate(x), formatCoordinate(y)))
		if err != nil {
			return orb.Point{}, fmt.Errorf("%w: %w", ErrProjectionFailure, err)
		}
		lat, lon = gridRef.ToLatLon()
	case KindTransverseMercator:
		lon, lat = p.inverseTransverseMercator(x, y)
	default:
		return orb.Point{}, fmt.Errorf("%w: %s", ErrUnknownCoordinateSystem, p.System.Kind)
	}

	if !finite(lon) || !finite(lat) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return orb.Point{}, fmt.Errorf("%w: result %f,%f out of range", ErrProjectionFailure, lon, lat)
	}

	return orb.Point{lon, lat}, nil
}

// FromLonLat is the forward transverse Mercator projection, used to place
// WGS84 points into a plane rectangular system
func (p *Projector) FromLonLat(lon float64, lat float64) (float64, float64, error) {
	switch p.System.Kind {
	case KindWGS84:
		return lon, lat, nil
	case KindTransverseMercator:
	default:
		return 0, 0, fmt.Errorf("%w: forward projection unsupported for %s", ErrProjectionFailure, p.System.Kind)
	}

	phi := radians(lat)
	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := math.Tan(phi)

	n := semiMajorAxis / math.Sqrt(1-p.e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := p.ep2 * cosPhi * cosPhi
	a := radians(lon-p.System.CentralMeridian) * cosPhi
	m := p.meridionalArc(phi)
	k0 := p.System.ScaleFactor

	x := p.System.FalseEasting + k0*n*(a+
		(1-t+c)*math.Pow(a, 3)/6+
		(5-18*t+t*t+72*c-58*p.ep2)*math.Pow(a, 5)/120)

	y := p.System.FalseNorthing + k0*(m-p.m0+n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*p.ep2)*math.Pow(a, 6)/720))

	return x, y, nil
}

func (p *Projector) inverseTransverseMercator(x float64, y float64) (float64, float64) {
	k0 := p.System.ScaleFactor

	m := p.m0 + (y-p.System.FalseNorthing)/k0
	mu := m / p.muFactor

	e1 := p.e1
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sincos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := p.ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	denominator := 1 - p.e2*sinPhi1*sinPhi1
	n1 := semiMajorAxis / math.Sqrt(denominator)
	r1 := semiMajorAxis * (1 - p.e2) / math.Pow(denominator, 1.5)
	d := (x - p.System.FalseEasting) / (n1 * k0)

	phi := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*p.ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*p.ep2-3*c1*c1)*math.Pow(d, 6)/720)

	lambda := (d -
		(1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*p.ep2+24*t1*t1)*math.Pow(d, 5)/120) / cosPhi1

	return p.System.CentralMeridian + degrees(lambda), degrees(phi)
}

func (p *Projector) meridionalArc(phi float64) float64 {
	e2 := p.e2
	e4 := e2 * e2
	e6 := e4 * e2

	return semiMajorAxis * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatCoordinate(f float64) string {
	return strconv.FormatFloat(math.Round(f), 'f', -1, 64)
}
