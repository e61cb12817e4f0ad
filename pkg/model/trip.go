package model

import "github.com/planscope/planscope/pkg/clock"

// TripRecord is one row of a simulator trips table. It is independent of
// the plan model and only grouped by PersonID.
type TripRecord struct {
	PersonID      string      `json:"personId" bson:"personid"`
	TripID        string      `json:"tripId,omitempty" bson:"tripid,omitempty"`
	StartActivity string      `json:"startActivity" bson:"startactivity"`
	EndActivity   string      `json:"endActivity" bson:"endactivity"`
	Mode          string      `json:"mode" bson:"mode"`
	DepartureTime *clock.Time `json:"departureTime" bson:"departuretime"`
	ArrivalTime   *clock.Time `json:"arrivalTime" bson:"arrivaltime"`
	TravelTime    *int        `json:"travelTime,omitempty" bson:"traveltime,omitempty"`
	Distance      *float64    `json:"distance" bson:"distance"`
}

// Duration prefers the explicit travel time and falls back to
// arrival-departure. Negative gaps and missing values give false.
func (t *TripRecord) Duration() (int, bool) {
	if t.TravelTime != nil {
		if *t.TravelTime < 0 {
			return 0, false
		}
		return *t.TravelTime, true
	}

	if t.DepartureTime == nil || t.ArrivalTime == nil {
		return 0, false
	}

	gap := t.ArrivalTime.Sub(*t.DepartureTime)
	if gap < 0 {
		return 0, false
	}

	return gap, true
}
