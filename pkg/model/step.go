package model

import (
	"encoding/json"
	"math"

	"github.com/planscope/planscope/pkg/clock"
)

type StepKind string

const (
	StepKindActivity StepKind = "activity"
	StepKindLeg      StepKind = "leg"
)

// Step is one entry of a reconstructed plan timeline. Activity steps use
// Type, StartTime, EndTime and the coordinates, leg steps use Mode,
// DepartureTime, ArrivalTime and TravelTime.
type Step struct {
	Kind StepKind `json:"kind" bson:"kind" groups:"detailed"`

	Type      string      `json:"type,omitempty" bson:"type,omitempty" groups:"detailed"`
	StartTime *clock.Time `json:"startTime,omitempty" bson:"starttime,omitempty" groups:"detailed"`
	EndTime   *clock.Time `json:"endTime" bson:"endtime" groups:"detailed"`
	X         *float64    `json:"x" bson:"x" groups:"detailed"`
	Y         *float64    `json:"y" bson:"y" groups:"detailed"`
	Facility  string      `json:"facility,omitempty" bson:"facility,omitempty" groups:"detailed"`

	Mode          string      `json:"mode,omitempty" bson:"mode,omitempty" groups:"detailed"`
	DepartureTime *clock.Time `json:"departureTime,omitempty" bson:"departuretime,omitempty" groups:"detailed"`
	ArrivalTime   *clock.Time `json:"arrivalTime" bson:"arrivaltime" groups:"detailed"`
	TravelTime    *int        `json:"travelTime,omitempty" bson:"traveltime,omitempty" groups:"detailed"`

	DurationSec *int `json:"durationSec" bson:"durationsec" groups:"detailed"`
}

func (s *Step) IsActivity() bool {
	return s.Kind == StepKindActivity
}

func (s *Step) IsLeg() bool {
	return s.Kind == StepKindLeg
}

// Start is the activity start or the leg departure
func (s *Step) Start() *clock.Time {
	if s.IsLeg() {
		return s.DepartureTime
	}
	return s.StartTime
}

// End is the activity end or the leg arrival
func (s *Step) End() *clock.Time {
	if s.IsLeg() {
		return s.ArrivalTime
	}
	return s.EndTime
}

// Key is the weight lookup key, the activity type or the leg mode
func (s *Step) Key() string {
	if s.IsLeg() {
		return s.Mode
	}
	return s.Type
}

func (s *Step) HasCoordinates() bool {
	return s.X != nil && s.Y != nil
}

// UnmarshalJSON accepts the depTime alias and clock string travel times
// used by older parse servers
func (s *Step) UnmarshalJSON(data []byte) error {
	type plain Step
	var decoded struct {
		plain
		DepTime    *clock.Time     `json:"depTime"`
		TravelTime json.RawMessage `json:"travelTime"`
	}

	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*s = Step(decoded.plain)
	if s.DepartureTime == nil && decoded.DepTime != nil {
		s.DepartureTime = decoded.DepTime
	}

	if len(decoded.TravelTime) > 0 && string(decoded.TravelTime) != "null" {
		var seconds float64
		var text string

		if err := json.Unmarshal(decoded.TravelTime, &seconds); err == nil {
			rounded := int(math.Round(seconds))
			s.TravelTime = &rounded
		} else if err := json.Unmarshal(decoded.TravelTime, &text); err == nil {
			s.TravelTime = clock.ParseOptionalDuration(text)
		}
	}

	return nil
}
