package normalizer

import (
	"github.com/paulmach/orb"
	"github.com/planscope/planscope/pkg/clock"
	"github.com/planscope/planscope/pkg/model"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// Facilities resolves activity coordinates by facility id when the
	// element carries none
	Facilities map[string]orb.Point

	// PersonID is only used for log context
	PersonID string
}

// Normalize turns the raw child elements of one plan into an ordered step
// timeline.
//
// A cursor starting at 00:00:00 walks the elements. Activities start at the
// cursor and move it to their end time. Legs depart at the cursor and only
// move it by an explicit travel time. When a leg leaves its arrival unknown
// and the cursor was never fixed by a known time, because the previous
// activity is open-ended, the following activity starts at its own end time
// if that lies after the cursor. A second pass resolves leg arrivals from the following activity
// and fills durations.
func Normalize(elements []RawElement, opts Options) []*model.Step {
	logger := log.With().Str("person", opts.PersonID).Logger()

	steps := make([]*model.Step, 0, len(elements))

	cursor := clock.Time(0)
	arrivalPending := false
	cursorKnown := false
	var lastActivity *model.Step

	for i := range elements {
		element := &elements[i]

		kind, ok := element.Kind()
		if !ok {
			logger.Debug().Str("tag", element.Tag).Msg("Skipping unrecognised plan element")
			continue
		}

		if err := element.Validate(); err != nil {
			logger.Warn().Err(err).Int("element", i).Msg("Plan element failed validation")
		}

		if len(steps) > 0 && steps[len(steps)-1].Kind == kind {
			logger.Warn().Str("kind", string(kind)).Int("element", i).Msg("Consecutive plan elements of the same kind")
		}

		switch kind {
		case model.StepKindActivity:
			step := newActivity(element, opts.Facilities)

			start := cursor
			end := clock.ParseOptional(element.EndTime)

			if explicitStart := clock.ParseOptional(element.StartTime); explicitStart != nil {
				start = *explicitStart
			} else if arrivalPending && !cursorKnown && end != nil && *end > cursor {
				start = *end
			}

			if end == nil {
				if maxDuration := clock.ParseOptionalDuration(element.MaxDuration); maxDuration != nil {
					computed := start.Add(*maxDuration)
					end = &computed
				}
			}

			step.StartTime = &start
			step.EndTime = end

			if end != nil {
				cursor = *end
			}
			cursorKnown = end != nil
			arrivalPending = false
			lastActivity = step

			steps = append(steps, step)
		case model.StepKindLeg:
			step := &model.Step{
				Kind: model.StepKindLeg,
				Mode: element.Mode,
			}

			departure := cursor
			if explicitDeparture := clock.ParseOptional(element.DepartureTime); explicitDeparture != nil {
				departure = *explicitDeparture
				cursorKnown = true

				if lastActivity != nil && lastActivity.EndTime == nil {
					closed := departure
					lastActivity.EndTime = &closed
				}
			}
			step.DepartureTime = &departure
			cursor = departure

			step.TravelTime = clock.ParseOptionalDuration(element.TravelTime)
			if step.TravelTime != nil {
				cursor = departure.Add(*step.TravelTime)
				arrivalPending = false
			} else {
				arrivalPending = true
			}

			steps = append(steps, step)
		}
	}

	resolveDurations(steps)

	logger.Trace().Int("elements", len(elements)).Int("steps", len(steps)).Msg("Normalised plan")

	return steps
}

func newActivity(element *RawElement, facilities map[string]orb.Point) *model.Step {
	step := &model.Step{
		Kind:     model.StepKindActivity,
		Type:     element.Type,
		Facility: element.Facility,
		X:        parseCoordinate(element.X),
		Y:        parseCoordinate(element.Y),
	}

	if !step.HasCoordinates() && element.Facility != "" {
		if point, ok := facilities[element.Facility]; ok {
			x, y := point.X(), point.Y()
			step.X = &x
			step.Y = &y
		}
	}

	return step
}

func resolveDurations(steps []*model.Step) {
	for i, step := range steps {
		switch step.Kind {
		case model.StepKindLeg:
			if i+1 < len(steps) && steps[i+1].IsActivity() {
				arrival := *steps[i+1].StartTime
				step.ArrivalTime = &arrival
			} else if step.TravelTime != nil {
				arrival := step.DepartureTime.Add(*step.TravelTime)
				step.ArrivalTime = &arrival
			}

			if step.TravelTime != nil {
				duration := *step.TravelTime
				step.DurationSec = &duration
			} else if step.ArrivalTime != nil {
				step.DurationSec = nonNegativeGap(*step.DepartureTime, *step.ArrivalTime)
			}
		case model.StepKindActivity:
			if step.StartTime != nil && step.EndTime != nil {
				step.DurationSec = nonNegativeGap(*step.StartTime, *step.EndTime)
			}
		}
	}
}

// nonNegativeGap returns nil for a negative gap such as one crossing midnight
func nonNegativeGap(from clock.Time, to clock.Time) *int {
	gap := to.Sub(from)
	if gap < 0 {
		return nil
	}
	return &gap
}
