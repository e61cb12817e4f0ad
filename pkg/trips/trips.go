package trips

import "github.com/planscope/planscope/pkg/model"

type PersonTrips struct {
	PersonID string              `json:"personId"`
	Trips    []*model.TripRecord `json:"trips"`
}

// Grouping holds trips per person in first-seen order
type Grouping struct {
	People []*PersonTrips

	index map[string]*PersonTrips
}

func Group(records []*model.TripRecord) *Grouping {
	grouping := &Grouping{
		index: map[string]*PersonTrips{},
	}

	for _, record := range records {
		if record == nil {
			continue
		}

		personTrips, ok := grouping.index[record.PersonID]
		if !ok {
			personTrips = &PersonTrips{PersonID: record.PersonID}
			grouping.index[record.PersonID] = personTrips
			grouping.People = append(grouping.People, personTrips)
		}

		personTrips.Trips = append(personTrips.Trips, record)
	}

	return grouping
}

// Lookup returns the trips of one person, nil when the person has none
func (g *Grouping) Lookup(personID string) []*model.TripRecord {
	personTrips, ok := g.index[personID]
	if !ok {
		return nil
	}
	return personTrips.Trips
}

type Summary struct {
	TripCount         int     `json:"tripCount"`
	AverageTravelTime float64 `json:"averageTravelTime"`
	ContributingTrips int     `json:"contributingTrips"`
}

// Summarise counts every trip and averages the travel time over the trips
// with a known duration
func Summarise(records []*model.TripRecord) Summary {
	summary := Summary{}
	total := 0

	for _, record := range records {
		if record == nil {
			continue
		}
		summary.TripCount++

		if duration, ok := record.Duration(); ok {
			total += duration
			summary.ContributingTrips++
		}
	}

	if summary.ContributingTrips > 0 {
		summary.AverageTravelTime = float64(total) / float64(summary.ContributingTrips)
	}

	return summary
}

// ModeShare counts trips per main mode
func ModeShare(records []*model.TripRecord) map[string]int {
	share := map[string]int{}
	for _, record := range records {
		if record == nil {
			continue
		}
		share[record.Mode]++
	}
	return share
}
