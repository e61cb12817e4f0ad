package dataimporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planscope/planscope/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const plansXML = `<population>
	<person id="alpha">
		<plan score="12.5" selected="yes">
			<activity type="Home" x="0" y="0" end_time="08:00:00"/>
			<leg mode="car" trav_time="00:30:00"/>
			<activity type="Work" x="100" y="0" end_time="17:00:00"/>
		</plan>
		<plan selected="no">
			<activity type="Home" end_time="09:00:00"/>
		</plan>
	</person>
	<person id="beta">
		<plan selected="yes"><activity type="Home" end_time="10:00:00"/></plan>
	</person>
</population>`

func runCLI(t *testing.T, args ...string) (string, error) {
	chdir(t, t.TempDir())

	var output bytes.Buffer
	app := &cli.App{
		Name:     "planscope",
		Writer:   &output,
		Commands: []*cli.Command{RegisterCLI()},
	}

	err := app.Run(append([]string{"planscope", "data-importer"}, args...))
	return output.String(), err
}

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPlansCommand(t *testing.T) {
	plans := writeFile(t, "output_plans.xml", plansXML)

	output, err := runCLI(t, "plans", "--file", plans)
	require.NoError(t, err)

	assert.Contains(t, output, "alpha\n")
	assert.Contains(t, output, "* plan 0: 3 steps, matsim 12.5")
	assert.Contains(t, output, "  plan 1: 1 steps, matsim -")
	assert.Contains(t, output, "beta\n")
}

func TestPlansCommandJSON(t *testing.T) {
	plans := writeFile(t, "output_plans.xml", plansXML)

	output, err := runCLI(t, "plans", "--file", plans, "--json", "--filter", "ALP", "--selected-only")
	require.NoError(t, err)

	var persons []*model.Person
	require.NoError(t, json.Unmarshal([]byte(output), &persons))
	require.Len(t, persons, 1)
	assert.Equal(t, "alpha", persons[0].PersonID)
	assert.Len(t, persons[0].Plans, 1)
}

func TestPlansCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "plans", "--file", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestTripsCommand(t *testing.T) {
	tripsFile := writeFile(t, "output_trips.csv", "person;trip_id;dep_time;trav_time;main_mode\n"+
		"1;1_1;08:00:00;00:30:00;car\n"+
		"1;1_2;17:00:00;00:10:00;walk\n"+
		"2;2_1;09:00:00;;car\n")

	output, err := runCLI(t, "trips", "--file", tripsFile, "--person", "1")
	require.NoError(t, err)

	assert.Contains(t, output, "Trips: 3\n")
	assert.Contains(t, output, "Trips with a duration: 2\n")
	assert.Contains(t, output, "Average travel time: 00:20:00\n")
	assert.Contains(t, output, "  car: 2\n")
	assert.Contains(t, output, "1_2\t -> \twalk\t17:00:00\t17:10:00")
}

func TestNetworkCommand(t *testing.T) {
	network := writeFile(t, "output_network.xml", `<network>
		<nodes><node id="a" x="0" y="0"/><node id="b" x="1000" y="0"/></nodes>
		<links>
			<link id="ab" from="a" to="b" length="1000" modes="car,bus"/>
			<link id="ba" from="b" to="a" length="1000" modes="car"/>
		</links>
	</network>`)

	output, err := runCLI(t, "network", "--file", network, "--crs", "EPSG:6671")
	require.NoError(t, err)

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &collection))
	assert.Equal(t, "FeatureCollection", collection.Type)
	require.Len(t, collection.Features, 1)
	assert.Equal(t, "ab", collection.Features[0].Properties["id"])
}

func TestExportCommand(t *testing.T) {
	plans := writeFile(t, "output_plans.xml", plansXML)

	output, err := runCLI(t, "export", "--file", plans)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "personId,planIndex,matsimScore,serverScore,clientScore,selectedFlag", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "alpha,0,12.5,"))

	output, err = runCLI(t, "export", "--file", plans, "--table", "steps", "--crs", "EPSG:6671", "--filter", "alpha")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "132.16666")

	_, err = runCLI(t, "export", "--file", plans, "--table", "legs")
	assert.Error(t, err)
}

func TestScenarioCommandMissingPlans(t *testing.T) {
	directory := t.TempDir()

	_, err := runCLI(t, "scenario", "--dir", directory)
	assert.ErrorIs(t, err, ErrMissingRequiredFile)
}

func TestListCommand(t *testing.T) {
	scenarios := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "sources.yaml"), []byte(`
identifier: local
datasets:
  - identifier: run
    format: matsim-scenario
    source: /runs/base
`), 0o644))
	t.Setenv("PLANSCOPE_SCENARIOS", scenarios)

	output, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "local-run\tmatsim-scenario\t/runs/base\n", output)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir on newer toolchains).
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(previous); err != nil {
			t.Fatal(err)
		}
	})
}
