package matsimfacilities

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFacilities(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8"?>
<facilities name="sample">
	<facility id="home_1" x="100.5" y="-20">
		<activity type="home"/>
	</facility>
	<facility id="work_1" x="300" y="400"/>
	<facility id="broken" x="" y="1"/>
	<facility x="1" y="1"/>
</facilities>`

	facilities := &Facilities{}
	require.NoError(t, facilities.ParseFile(strings.NewReader(document)))

	assert.Equal(t, map[string]orb.Point{
		"home_1": {100.5, -20},
		"work_1": {300, 400},
	}, facilities.Locations)
	assert.Equal(t, 2, facilities.Skipped)
}

func TestParseFacilitiesMalformed(t *testing.T) {
	facilities := &Facilities{}
	assert.Error(t, facilities.ParseFile(strings.NewReader(`<facilities><facility id="a"`)))
}
