package clock

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cases := map[string]Time{
			"00:00:00":  0,
			"09:00:00":  32400,
			"07:30:15":  27015,
			"25:10:00":  90600,
			" 01:00:00": 3600,
		}

		for input, expected := range cases {
			got, err := ParseClock(input)
			require.NoError(t, err, input)
			assert.Equal(t, expected, got, input)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, input := range []string{"", "9", "09:00", "aa:bb:cc", "09:60:00", "09:00:61", "-1:00:00", "09::00", "1:2:3:4"} {
			_, err := ParseClock(input)
			assert.ErrorIs(t, err, ErrInvalidTimeFormat, input)
		}
	})
}

func TestParseOptional(t *testing.T) {
	assert.Nil(t, ParseOptional(""))
	assert.Nil(t, ParseOptional("later"))

	value := ParseOptional("08:15:00")
	require.NotNil(t, value)
	assert.Equal(t, Time(29700), *value)
}

func TestParseDuration(t *testing.T) {
	cases := map[string]int{
		"00:10:00": 600,
		"600":      600,
		"599.6":    600,
		"PT10M":    600,
		"PT1H30M":  5400,
	}

	for input, expected := range cases {
		got, err := ParseDuration(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}

	for _, input := range []string{"", "ten minutes", "-5", "Pxx"} {
		_, err := ParseDuration(input)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, input)
	}

	assert.Nil(t, ParseOptionalDuration("nope"))
	assert.Equal(t, 60, *ParseOptionalDuration("00:01:00"))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatSeconds(0))
	assert.Equal(t, "09:00:00", FormatSeconds(32400))
	assert.Equal(t, "26:00:01", FormatSeconds(93601))
	assert.Equal(t, "00:00:02", FormatSeconds(1.6))

	t.Run("clamps", func(t *testing.T) {
		assert.Equal(t, "00:00:00", FormatSeconds(-10))
		assert.Equal(t, "00:00:00", FormatSeconds(math.NaN()))
		assert.Equal(t, "00:00:00", FormatSeconds(math.Inf(1)))
		assert.Equal(t, "00:00:00", FormatSeconds(math.Inf(-1)))
	})
}

func TestFormatOptional(t *testing.T) {
	var missing *int
	assert.Equal(t, "-", FormatOptional(missing))

	seconds := 3661
	assert.Equal(t, "01:01:01", FormatOptional(&seconds))

	value := Time(60)
	assert.Equal(t, "00:01:00", FormatOptional(&value))
}

func TestTimeJSON(t *testing.T) {
	type wrapper struct {
		Start Time  `json:"start"`
		End   *Time `json:"end"`
	}

	encoded, err := json.Marshal(wrapper{Start: 32400})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00:00","end":null}`, string(encoded))

	var decoded wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"start":"07:00:00","end":28800}`), &decoded))
	assert.Equal(t, Time(25200), decoded.Start)
	require.NotNil(t, decoded.End)
	assert.Equal(t, Time(28800), *decoded.End)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"7am"}`), &decoded))
}

func TestTimeArithmetic(t *testing.T) {
	start := Time(3600)
	assert.Equal(t, Time(4200), start.Add(600))
	assert.Equal(t, -600, start.Sub(Time(4200)))
	assert.Equal(t, 3600, start.Seconds())
	assert.Equal(t, "01:00:00", start.String())
}
