package remoteparse

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/planscope/planscope/pkg/clock"
	"github.com/planscope/planscope/pkg/dataimporter/formats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personsJSON = `[
	{
		"personId": "p1",
		"selectedPlanIndex": 0,
		"plans": [
			{
				"selected": true,
				"matsimScore": 101.5,
				"serverScore": null,
				"steps": [
					{"kind": "activity", "type": "home", "startTime": "00:00:00", "endTime": "08:00:00", "durationSec": 28800, "x": 1.5, "y": 2.5},
					{"kind": "leg", "mode": "car", "depTime": "08:00:00", "arrivalTime": "08:30:00", "travelTime": "00:30:00", "durationSec": 1800}
				]
			}
		]
	}
]`

func TestParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "false", r.URL.Query().Get("selected_only"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "output_plans.xml.gz", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "<population/>", string(content))

		facilities, _, err := r.FormFile("facilities")
		if assert.NoError(t, err) {
			facilities.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, personsJSON)
	}))
	defer server.Close()

	selectedOnly := false
	client := NewClient(server.URL + "/upload")
	persons, err := client.Parse(context.Background(), Request{
		Plans:        &Upload{Name: "output_plans.xml.gz", Reader: strings.NewReader("<population/>")},
		Facilities:   &Upload{Name: "facilities.xml", Reader: strings.NewReader("<facilities/>")},
		Limit:        50,
		SelectedOnly: &selectedOnly,
	})
	require.NoError(t, err)
	require.Len(t, persons, 1)

	plan := persons[0].Plans[0]
	assert.Equal(t, 101.5, *plan.MatsimScore)
	assert.Nil(t, plan.ServerScore)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, clock.Time(8*3600), *plan.Steps[1].DepartureTime)
	assert.Equal(t, 1800, *plan.Steps[1].TravelTime)
}

func TestParseWithoutOptionalParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _, err := r.FormFile("facilities")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		io.WriteString(w, "[]")
	}))
	defer server.Close()

	persons, err := NewClient(server.URL).Parse(context.Background(), Request{
		Plans: &Upload{Reader: strings.NewReader("<population/>")},
	})
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestParseMissingPlans(t *testing.T) {
	_, err := NewClient("http://localhost:5000/upload").Parse(context.Background(), Request{})
	assert.ErrorIs(t, err, formats.ErrMissingRequiredFile)
}

func TestParseRejectsNonArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error": "something"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Parse(context.Background(), Request{
		Plans: &Upload{Reader: strings.NewReader("x")},
	})
	require.ErrorIs(t, err, ErrRemoteParseFailure)
	assert.Contains(t, err.Error(), server.URL)
	assert.Contains(t, err.Error(), "expected a JSON array")
}

func TestParseErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "No file uploaded"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Parse(context.Background(), Request{
		Plans: &Upload{Reader: strings.NewReader("x")},
	})
	require.ErrorIs(t, err, ErrRemoteParseFailure)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "No file uploaded")
}

func TestParseInvalidEndpoint(t *testing.T) {
	_, err := NewClient("not a url").Parse(context.Background(), Request{
		Plans: &Upload{Reader: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, ErrRemoteParseFailure)
}

func TestParseNoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Parse(context.Background(), Request{
		Plans: &Upload{Reader: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, ErrRemoteParseFailure)
	assert.Equal(t, 1, calls)
}
