package export

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/paulmach/orb"
	"github.com/planscope/planscope/pkg/clock"
	"github.com/planscope/planscope/pkg/scoring"
	"github.com/planscope/planscope/pkg/selection"
)

type Projector interface {
	Project(x float64, y float64) orb.Point
}

type PlanSummaryRow struct {
	PersonID     string `csv:"personId"`
	PlanIndex    int    `csv:"planIndex"`
	MatsimScore  string `csv:"matsimScore"`
	ServerScore  string `csv:"serverScore"`
	ClientScore  string `csv:"clientScore"`
	SelectedFlag bool   `csv:"selectedFlag"`
}

type StepDetailRow struct {
	PersonID      string `csv:"personId"`
	PlanIndex     int    `csv:"planIndex"`
	StepIndex     int    `csv:"stepIndex"`
	Kind          string `csv:"kind"`
	Type          string `csv:"type"`
	Mode          string `csv:"mode"`
	StartTime     string `csv:"startTime"`
	EndTime       string `csv:"endTime"`
	DepartureTime string `csv:"departureTime"`
	ArrivalTime   string `csv:"arrivalTime"`
	DurationSec   string `csv:"durationSec"`
	X             string `csv:"x"`
	Y             string `csv:"y"`
	Lon           string `csv:"lon"`
	Lat           string `csv:"lat"`
}

// PlanSummaries has one row per plan of every visible person
func PlanSummaries(index *selection.Index, weights scoring.WeightConfig) []*PlanSummaryRow {
	var rows []*PlanSummaryRow

	for _, person := range index.Visible() {
		for planIndex, plan := range person.Plans {
			rows = append(rows, &PlanSummaryRow{
				PersonID:     person.PersonID,
				PlanIndex:    planIndex,
				MatsimScore:  formatFloat(plan.MatsimScore),
				ServerScore:  formatFloat(plan.ServerScore),
				ClientScore:  strconv.FormatFloat(scoring.Score(plan, weights), 'f', -1, 64),
				SelectedFlag: plan.Selected,
			})
		}
	}

	return rows
}

// StepDetails has one row per step of the chosen plan of every visible
// person. Lon and lat stay empty without a projector.
func StepDetails(index *selection.Index, projector Projector) []*StepDetailRow {
	var rows []*StepDetailRow

	for _, person := range index.Visible() {
		planIndex := index.ChosenPlanIndex(person)
		plan := person.Plan(planIndex)
		if plan == nil {
			continue
		}

		for stepIndex, step := range plan.Steps {
			row := &StepDetailRow{
				PersonID:      person.PersonID,
				PlanIndex:     planIndex,
				StepIndex:     stepIndex,
				Kind:          string(step.Kind),
				Type:          step.Type,
				Mode:          step.Mode,
				StartTime:     formatClock(step.StartTime),
				EndTime:       formatClock(step.EndTime),
				DepartureTime: formatClock(step.DepartureTime),
				ArrivalTime:   formatClock(step.ArrivalTime),
				X:             formatFloat(step.X),
				Y:             formatFloat(step.Y),
			}

			if step.DurationSec != nil {
				row.DurationSec = strconv.Itoa(*step.DurationSec)
			}

			if projector != nil && step.HasCoordinates() {
				point := projector.Project(*step.X, *step.Y)
				row.Lon = strconv.FormatFloat(point.Lon(), 'f', -1, 64)
				row.Lat = strconv.FormatFloat(point.Lat(), 'f', -1, 64)
			}

			rows = append(rows, row)
		}
	}

	return rows
}

func WritePlanSummaries(writer io.Writer, index *selection.Index, weights scoring.WeightConfig) error {
	rows := PlanSummaries(index, weights)
	if rows == nil {
		rows = []*PlanSummaryRow{}
	}
	return gocsv.Marshal(rows, writer)
}

func WriteStepDetails(writer io.Writer, index *selection.Index, projector Projector) error {
	rows := StepDetails(index, projector)
	if rows == nil {
		rows = []*StepDetailRow{}
	}
	return gocsv.Marshal(rows, writer)
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func formatClock(value *clock.Time) string {
	if value == nil {
		return ""
	}
	return value.String()
}
