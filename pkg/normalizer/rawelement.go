package normalizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/planscope/planscope/pkg/model"
)

var ErrMissingAttribute = errors.New("missing required attribute")

// RawElement is one child element of a serialised plan with its attributes
// kept as the raw strings found in the source file.
type RawElement struct {
	Tag string

	Type          string
	Mode          string
	StartTime     string
	EndTime       string
	MaxDuration   string
	DepartureTime string
	TravelTime    string
	Facility      string
	Link          string
	X             string
	Y             string
}

// Kind maps the element tag onto a step kind. Unknown tags give false.
func (r *RawElement) Kind() (model.StepKind, bool) {
	switch strings.ToLower(r.Tag) {
	case "act", "activity":
		return model.StepKindActivity, true
	case "leg":
		return model.StepKindLeg, true
	default:
		return "", false
	}
}

// Validate flags elements missing the attribute their kind is keyed on
func (r *RawElement) Validate() error {
	kind, ok := r.Kind()
	if !ok {
		return nil
	}

	if kind == model.StepKindActivity && strings.TrimSpace(r.Type) == "" {
		return fmt.Errorf("%w: activity type", ErrMissingAttribute)
	}
	if kind == model.StepKindLeg && strings.TrimSpace(r.Mode) == "" {
		return fmt.Errorf("%w: leg mode", ErrMissingAttribute)
	}

	return nil
}

// SetAttribute assigns a raw attribute by its source name. Unknown names
// are ignored.
func (r *RawElement) SetAttribute(name string, value string) {
	switch name {
	case "type":
		r.Type = value
	case "mode":
		r.Mode = value
	case "start_time":
		r.StartTime = value
	case "end_time":
		r.EndTime = value
	case "max_dur":
		r.MaxDuration = value
	case "dep_time", "depTime":
		if r.DepartureTime == "" {
			r.DepartureTime = value
		}
	case "trav_time", "travTime":
		if r.TravelTime == "" {
			r.TravelTime = value
		}
	case "facility":
		r.Facility = value
	case "link":
		r.Link = value
	case "x":
		r.X = value
	case "y":
		r.Y = value
	}
}

func parseCoordinate(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}
