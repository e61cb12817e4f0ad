package matsimtrips

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/planscope/planscope/pkg/clock"
	"github.com/planscope/planscope/pkg/model"
	"github.com/rs/zerolog/log"
)

var ErrEmptyFile = errors.New("trips file has no header")

// Row is one trips table row under the canonical column names
type Row struct {
	PersonID      string `csv:"person_id"`
	TripID        string `csv:"trip_id"`
	StartActivity string `csv:"start_act"`
	EndActivity   string `csv:"end_act"`
	Mode          string `csv:"leg_mode"`
	DepartureTime string `csv:"departure_time"`
	ArrivalTime   string `csv:"arrival_time"`
	Duration      string `csv:"duration"`
	Distance      string `csv:"distance"`
}

// headerAliases maps the column names of MATSim output_trips.csv and of
// older exports onto the Row columns
var headerAliases = map[string]string{
	"person":              "person_id",
	"personid":            "person_id",
	"start_activity_type": "start_act",
	"startactivity":       "start_act",
	"end_activity_type":   "end_act",
	"endactivity":         "end_act",
	"main_mode":           "leg_mode",
	"mode":                "leg_mode",
	"dep_time":            "departure_time",
	"deptime":             "departure_time",
	"departuretime":       "departure_time",
	"arr_time":            "arrival_time",
	"arrtime":             "arrival_time",
	"arrivaltime":         "arrival_time",
	"trav_time":           "duration",
	"travel_time":         "duration",
	"traveltime":          "duration",
	"traveled_distance":   "distance",
}

func canonicalHeader(header string) string {
	normalised := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	if alias, ok := headerAliases[normalised]; ok {
		return alias
	}
	return normalised
}

// aliasReader renames the header row before gocsv maps it onto Row
type aliasReader struct {
	reader     *csv.Reader
	headerRead bool
}

func (a *aliasReader) Read() ([]string, error) {
	record, err := a.reader.Read()
	if err != nil {
		return nil, err
	}

	if !a.headerRead {
		a.headerRead = true

		seen := map[string]bool{}
		for i, header := range record {
			canonical := canonicalHeader(header)
			if seen[canonical] {
				// keep the first column claiming a name
				canonical = "duplicate_" + strconv.Itoa(i)
			}
			seen[canonical] = true
			record[i] = canonical
		}
	}

	return record, nil
}

func (a *aliasReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := a.Read()
		if err == io.EOF {
			return records, nil
		} else if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// Trips is a parsed trips table
type Trips struct {
	Records []*model.TripRecord
}

func (t *Trips) ParseFile(reader io.Reader) error {
	t.Records = []*model.TripRecord{}

	buffered := bufio.NewReader(reader)
	headerLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return err
	}
	if len(bytes.TrimSpace(headerLine)) == 0 {
		return ErrEmptyFile
	}

	csvReader := csv.NewReader(buffered)
	csvReader.Comma = sniffDelimiter(headerLine)
	// Allow us to ignore those naughty records that have missing columns
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	csvReader.LazyQuotes = true

	var rows []*Row
	if err := gocsv.UnmarshalCSV(&aliasReader{reader: csvReader}, &rows); err != nil {
		return fmt.Errorf("decoding trips: %w", err)
	}

	for _, row := range rows {
		if strings.TrimSpace(row.PersonID) == "" {
			log.Debug().Str("trip", row.TripID).Msg("Skipping trip without person")
			continue
		}
		t.Records = append(t.Records, row.ToRecord())
	}

	log.Info().Msgf("Successfully parsed trips document")
	log.Info().Msgf(" - Contains %d trips", len(t.Records))

	return nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than
// commas. MATSim writes semicolon separated trips.
func sniffDelimiter(head []byte) rune {
	if newline := bytes.IndexByte(head, '\n'); newline >= 0 {
		head = head[:newline]
	}

	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		return ';'
	}
	return ','
}

// ToRecord converts raw strings, malformed values become unknown
func (r *Row) ToRecord() *model.TripRecord {
	record := &model.TripRecord{
		PersonID:      strings.TrimSpace(r.PersonID),
		TripID:        strings.TrimSpace(r.TripID),
		StartActivity: r.StartActivity,
		EndActivity:   r.EndActivity,
		Mode:          r.Mode,
		DepartureTime: optionalTime(r.DepartureTime),
		ArrivalTime:   optionalTime(r.ArrivalTime),
		TravelTime:    clock.ParseOptionalDuration(r.Duration),
	}

	if distance, err := strconv.ParseFloat(strings.TrimSpace(r.Distance), 64); err == nil {
		record.Distance = &distance
	}

	if record.ArrivalTime == nil && record.DepartureTime != nil && record.TravelTime != nil {
		arrival := record.DepartureTime.Add(*record.TravelTime)
		record.ArrivalTime = &arrival
	}

	return record
}

func optionalTime(value string) *clock.Time {
	seconds := clock.ParseOptionalDuration(value)
	if seconds == nil {
		return nil
	}

	t := clock.Time(*seconds)
	return &t
}
