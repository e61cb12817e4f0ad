package matsimplans

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plansXML = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE population SYSTEM "http://www.matsim.org/files/dtd/population_v6.dtd">
<population>
	<attributes>
		<attribute name="coordinateReferenceSystem" class="java.lang.String">EPSG:6671</attribute>
	</attributes>
	<person id="1">
		<attributes>
			<attribute name="age" class="java.lang.Integer">42</attribute>
		</attributes>
		<plan score="123.4" selected="yes">
			<activity type="home" link="1" x="-25000.0" y="0.0" end_time="06:00:00" >
			</activity>
			<leg mode="car" dep_time="06:00:00" trav_time="00:25:00">
				<route type="links" start_link="1" end_link="20" trav_time="00:25:00" distance="10000.0">1 6 15 20</route>
			</leg>
			<activity type="work" link="20" x="10000.0" y="0.0" end_time="17:00:00" >
			</activity>
			<leg mode="car" dep_time="17:00:00" trav_time="00:25:00">
			</leg>
			<activity type="home" link="1" x="-25000.0" y="0.0" >
			</activity>
		</plan>
		<plan score="98.1" selected="no">
			<activity type="home" x="-25000.0" y="0.0" end_time="07:00:00" />
			<leg mode="pt" />
			<activity type="work" x="10000.0" y="0.0" end_time="18:00:00" />
		</plan>
	</person>
	<person id="2">
	</person>
	<person id="3">
		<plan selected="yes">
			<act type="h" facility="home_3" max_dur="08:00:00" />
		</plan>
	</person>
</population>
`

func TestParsePopulation(t *testing.T) {
	population := &Population{}
	require.NoError(t, population.ParseFile(strings.NewReader(plansXML)))

	require.Len(t, population.Persons, 2)
	assert.Equal(t, 1, population.PersonsSkipped)
	assert.False(t, population.Truncated)

	first := population.Persons[0]
	assert.Equal(t, "1", first.PersonID)
	require.Len(t, first.Plans, 2)

	selected := first.Plans[0]
	assert.True(t, selected.Selected)
	require.NotNil(t, selected.Score)
	assert.Equal(t, 123.4, *selected.Score)
	require.Len(t, selected.Elements, 5)

	assert.Equal(t, "activity", selected.Elements[0].Tag)
	assert.Equal(t, "home", selected.Elements[0].Type)
	assert.Equal(t, "06:00:00", selected.Elements[0].EndTime)
	assert.Equal(t, "-25000.0", selected.Elements[0].X)
	assert.Equal(t, "1", selected.Elements[0].Link)

	assert.Equal(t, "leg", selected.Elements[1].Tag)
	assert.Equal(t, "car", selected.Elements[1].Mode)
	assert.Equal(t, "00:25:00", selected.Elements[1].TravelTime)
	assert.Equal(t, "06:00:00", selected.Elements[1].DepartureTime)

	assert.False(t, first.Plans[1].Selected)
	assert.Equal(t, 98.1, *first.Plans[1].Score)

	third := population.Persons[1]
	assert.Equal(t, "3", third.PersonID)
	assert.Nil(t, third.Plans[0].Score)
	assert.Equal(t, "act", third.Plans[0].Elements[0].Tag)
	assert.Equal(t, "home_3", third.Plans[0].Elements[0].Facility)
	assert.Equal(t, "08:00:00", third.Plans[0].Elements[0].MaxDuration)
}

func TestParsePopulationLimit(t *testing.T) {
	population := &Population{Limit: 1}
	require.NoError(t, population.ParseFile(strings.NewReader(plansXML)))

	require.Len(t, population.Persons, 1)
	assert.Equal(t, "1", population.Persons[0].PersonID)
	assert.True(t, population.Truncated)
}

func TestParsePopulationRepeatedPerson(t *testing.T) {
	xml := `<population>
		<person id="a"><plan><act type="home"/></plan></person>
		<person id="b"><plan><act type="home"/></plan></person>
		<person id="a"><plan selected="yes"><act type="work"/></plan></person>
		<person id="c"><plan><act type="home"/></plan></person>
	</population>`

	population := &Population{Limit: 2}
	require.NoError(t, population.ParseFile(strings.NewReader(xml)))

	require.Len(t, population.Persons, 3)
	assert.Equal(t, "a", population.Persons[2].PersonID)
	assert.True(t, population.Truncated)
}

func TestParsePopulationMalformed(t *testing.T) {
	population := &Population{}
	err := population.ParseFile(strings.NewReader(`<population><person id="1"><plan></person></population>`))
	assert.Error(t, err)
}
