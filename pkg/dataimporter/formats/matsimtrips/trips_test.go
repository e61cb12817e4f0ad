package matsimtrips

import (
	"strings"
	"testing"

	"github.com/planscope/planscope/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatsimTrips(t *testing.T) {
	document := "person;trip_number;trip_id;dep_time;trav_time;wait_time;traveled_distance;euclidean_distance;main_mode;longest_distance_mode;modes;start_activity_type;end_activity_type\n" +
		"1;1;1_1;06:00:00;00:25:00;00:00:00;10000;9000;car;car;car;home;work\n" +
		"1;2;1_2;17:00:00;00:25:00;00:00:00;10000;9000;car;car;car;work;home\n" +
		"2;1;2_1;07:30:00;;00:00:00;;;walk;walk;walk;home;shop\n"

	trips := &Trips{}
	require.NoError(t, trips.ParseFile(strings.NewReader(document)))
	require.Len(t, trips.Records, 3)

	first := trips.Records[0]
	assert.Equal(t, "1", first.PersonID)
	assert.Equal(t, "1_1", first.TripID)
	assert.Equal(t, "home", first.StartActivity)
	assert.Equal(t, "work", first.EndActivity)
	assert.Equal(t, "car", first.Mode)
	assert.Equal(t, clock.Time(21600), *first.DepartureTime)
	assert.Equal(t, clock.Time(23100), *first.ArrivalTime)
	assert.Equal(t, 1500, *first.TravelTime)
	assert.Equal(t, 10000.0, *first.Distance)

	walk := trips.Records[2]
	assert.Nil(t, walk.TravelTime)
	assert.Nil(t, walk.ArrivalTime)
	assert.Nil(t, walk.Distance)
}

func TestParseViewerTrips(t *testing.T) {
	document := "person_id,start_act,end_act,leg_mode,departure_time,arrival_time,distance\n" +
		"a,home,work,car,25200,27000,5000.5\n" +
		",home,work,car,25200,27000,1\n" +
		"b,home,\"work, late\",pt,28800,,\n"

	trips := &Trips{}
	require.NoError(t, trips.ParseFile(strings.NewReader(document)))
	require.Len(t, trips.Records, 2)

	first := trips.Records[0]
	assert.Equal(t, clock.Time(25200), *first.DepartureTime)
	assert.Equal(t, clock.Time(27000), *first.ArrivalTime)
	assert.Nil(t, first.TravelTime)
	assert.Equal(t, 5000.5, *first.Distance)

	second := trips.Records[1]
	assert.Equal(t, "work, late", second.EndActivity)
	assert.Nil(t, second.ArrivalTime)
}

func TestParseEmptyTrips(t *testing.T) {
	trips := &Trips{}
	assert.ErrorIs(t, trips.ParseFile(strings.NewReader("   \n")), ErrEmptyFile)
}

func TestCanonicalHeader(t *testing.T) {
	assert.Equal(t, "person_id", canonicalHeader("\ufeffperson"))
	assert.Equal(t, "departure_time", canonicalHeader(" depTime "))
	assert.Equal(t, "wait_time", canonicalHeader("wait_time"))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n1,2;3")))
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b;c\n")))
}
