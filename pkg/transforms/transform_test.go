package transforms

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planscope/planscope/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliasYaml = `
transforms:
  - type: Step
    match:
      Kind: activity
      Type: h
    data:
      Type: Home
  - type: Step
    match:
      Kind: leg
      Mode: bus
    data:
      Mode: pt
---
transforms:
  - type: model.Step
    match:
      Type: w
    data:
      Type: Work
`

func TestParse(t *testing.T) {
	set, err := Parse(strings.NewReader(aliasYaml))
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "Step", set[0].Type)
	assert.Equal(t, "h", set[0].Match["Type"])
	assert.Equal(t, "Home", set[0].Data["Type"])
}

func TestTransformSteps(t *testing.T) {
	set, err := Parse(strings.NewReader(aliasYaml))
	require.NoError(t, err)

	plan := &model.Plan{
		Steps: []*model.Step{
			{Kind: model.StepKindActivity, Type: "H"},
			{Kind: model.StepKindLeg, Mode: "bus"},
			{Kind: model.StepKindActivity, Type: "w"},
			{Kind: model.StepKindLeg, Mode: "car"},
			nil,
		},
	}

	set.Transform(plan)

	assert.Equal(t, "Home", plan.Steps[0].Type)
	assert.Equal(t, "pt", plan.Steps[1].Mode)
	assert.Equal(t, "Work", plan.Steps[2].Type)
	assert.Equal(t, "car", plan.Steps[3].Mode)
}

func TestTransformTypeMismatch(t *testing.T) {
	set := Set{{
		Type:  "Step",
		Match: map[string]string{"Type": "Home"},
		Data:  map[string]interface{}{"Type": 12, "Kind": "leg"},
	}}

	step := &model.Step{Kind: model.StepKindActivity, Type: "Home"}
	set.Transform(step)

	assert.Equal(t, "Home", step.Type)
	assert.Equal(t, model.StepKindLeg, step.Kind)
}

func TestTransformIgnoresOtherTypes(t *testing.T) {
	set := Set{{Type: "Person", Data: map[string]interface{}{"PersonID": "x"}}}

	step := &model.Step{Type: "Home"}
	set.Transform(step)
	assert.Equal(t, "Home", step.Type)

	person := &model.Person{PersonID: "a"}
	set.Transform(person)
	assert.Equal(t, "x", person.PersonID)

	set.Transform(nil)
	Set{}.Transform(person)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aliases.yaml"), []byte(aliasYaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	set, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, set, 3)

	empty, err := Load(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("transforms: [:"), 0o600))
	_, err = Load(dir)
	assert.Error(t, err)
}
