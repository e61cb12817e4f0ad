package matsimnetwork

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const networkXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE network SYSTEM "http://www.matsim.org/files/dtd/network_v2.dtd">
<network name="sample">
	<nodes>
		<node id="1" x="0" y="0"/>
		<node id="2" x="1000" y="0"/>
		<node id="3" x="1000" y="1000"/>
		<node id="4" x="oops" y="0"/>
	</nodes>
	<links capperiod="01:00:00" effectivecellsize="7.5" effectivelanewidth="3.75">
		<link id="12" from="1" to="2" length="1000.0" freespeed="13.89" capacity="1800.0" permlanes="1.0" modes="car,bus"/>
		<link id="23" from="2" to="3" length="1000.0" freespeed="13.89" capacity="1800.0" permlanes="1.0" modes="car"/>
		<link id="31" from="3" to="1" length="1414.2" freespeed="13.89" capacity="600.0" permlanes="1.0" modes="bus, pt,bus"/>
		<link id="14" from="1" to="4" length="10" modes="bus"/>
		<link id="busway" from="2" to="3" modes="busway"/>
		<link from="1" to="2" modes="bus"/>
	</links>
</network>`

type shiftProjector struct{}

func (shiftProjector) Project(x float64, y float64) orb.Point {
	return orb.Point{x / 1000, y / 1000}
}

func TestParseNetwork(t *testing.T) {
	network := &Network{}
	require.NoError(t, network.ParseFile(strings.NewReader(networkXML)))

	assert.Equal(t, "sample", network.Name)
	assert.Len(t, network.Nodes, 3)
	assert.Len(t, network.Links, 5)
	assert.Equal(t, 1, network.LinksSkipped)

	link := network.Links[2]
	assert.Equal(t, []string{"bus", "pt"}, link.Modes)
	assert.Equal(t, 1414.2, link.Length)
	assert.Equal(t, 600.0, link.Capacity)
	assert.True(t, link.HasMode("bus"))
	assert.False(t, network.Links[4].HasMode("bus"))
}

func TestBusLinks(t *testing.T) {
	network := &Network{}
	require.NoError(t, network.ParseFile(strings.NewReader(networkXML)))

	collection := network.BusLinks(shiftProjector{})
	require.Len(t, collection.Features, 2)

	first := collection.Features[0]
	assert.Equal(t, "12", first.Properties["id"])
	assert.Equal(t, "car,bus", first.Properties["modes"])
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}}, first.Geometry)

	second := collection.Features[1]
	assert.Equal(t, "31", second.Properties["id"])

	encoded, err := json.Marshal(collection)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"type":"FeatureCollection"`)
	assert.Contains(t, string(encoded), `"LineString"`)

	assert.Empty(t, network.ModeLinks(shiftProjector{}, "tram").Features)
}
