package matsimnetwork

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/planscope/planscope/pkg/util"
)

type Node struct {
	ID string
	X  float64
	Y  float64
}

type Link struct {
	ID        string
	From      string
	To        string
	Length    float64
	FreeSpeed float64
	Capacity  float64
	Lanes     float64
	Modes     []string
}

// Network is a MATSim network with nodes indexed by id and links in file
// order
type Network struct {
	Name  string
	Nodes map[string]*Node
	Links []*Link

	LinksSkipped int
}

// Projector maps a source coordinate onto lon/lat
type Projector interface {
	Project(x float64, y float64) orb.Point
}

func parseModes(modes string) []string {
	fields := strings.FieldsFunc(modes, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return util.RemoveDuplicateStrings(fields, nil)
}

func (l *Link) HasMode(mode string) bool {
	return util.ContainsString(l.Modes, mode)
}

// ModeLinks returns a feature collection of every link carrying mode, with
// node coordinates passed through projector. Links with an unknown end node
// are left out.
func (n *Network) ModeLinks(projector Projector, mode string) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()

	for _, link := range n.Links {
		if !link.HasMode(mode) {
			continue
		}

		from, fromOk := n.Nodes[link.From]
		to, toOk := n.Nodes[link.To]
		if !fromOk || !toOk {
			continue
		}

		feature := geojson.NewFeature(orb.LineString{
			projector.Project(from.X, from.Y),
			projector.Project(to.X, to.Y),
		})
		feature.Properties["id"] = link.ID
		feature.Properties["modes"] = strings.Join(link.Modes, ",")
		feature.Properties["length"] = link.Length

		collection.Append(feature)
	}

	return collection
}

// BusLinks is ModeLinks for the bus mode
func (n *Network) BusLinks(projector Projector) *geojson.FeatureCollection {
	return n.ModeLinks(projector, "bus")
}
