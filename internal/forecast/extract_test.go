package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOr(t *testing.T) {
	cells := []string{"12", "abc", " 7cm"}

	assert.Equal(t, 12, extractOr(cells, 0, parseLeadingInt, -1))
	assert.Equal(t, -1, extractOr(cells, 1, parseLeadingInt, -1), "unparsable cell")
	assert.Equal(t, 7, extractOr(cells, 2, parseLeadingInt, -1))
	assert.Equal(t, -1, extractOr(cells, 3, parseLeadingInt, -1), "index past the end")
	assert.Equal(t, -1, extractOr(cells, -1, parseLeadingInt, -1))
	assert.Equal(t, "x", extractOr(nil, 0, parseText, "x"), "missing row")
}

func TestParseLeadingNumbers(t *testing.T) {
	tests := []struct {
		in      string
		wantInt int
		wantF   float64
		wantErr bool
	}{
		{in: "-5", wantInt: -5, wantF: -5},
		{in: "+3", wantInt: 3, wantF: 3},
		{in: "2.5cm", wantInt: 2, wantF: 2.5},
		{in: " 1800 m", wantInt: 1800, wantF: 1800},
		{in: "—", wantErr: true},
		{in: "", wantErr: true},
		{in: "cm 4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			i, err := parseLeadingInt(tt.in)
			f, ferr := parseLeadingFloat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, ferr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, ferr)
			assert.Equal(t, tt.wantInt, i)
			assert.Equal(t, tt.wantF, f)
		})
	}
}

func TestParseFirstDigits(t *testing.T) {
	v, err := parseFirstDigits("approx. 45 cm (new)")
	require.NoError(t, err)
	assert.Equal(t, 45, v)

	_, err = parseFirstDigits("none")
	assert.Error(t, err)
}

func TestBuild_FromTable(t *testing.T) {
	tb := table{
		metricTemperature: {"1", "2", "3", "4", "5", "6"},
		metricWeather:     {"Clear", "", "Mod Snow", "Heavy Rain", "Light Rain", "Mod. Rain"},
		metricSnow:        {"0", "0", "4", "", "", ""},
	}

	days := build([]string{"a", "b"}, tb)
	require.Len(t, days, 2)

	assert.Equal(t, 4, days[1].Periods[0].Temp)
	assert.Equal(t, ModerateSnow, days[0].Periods[2].Weather)
	assert.Equal(t, Unknown, days[0].Periods[1].Weather)
	assert.Equal(t, HeavyRain, days[1].Periods[0].Weather)
	assert.Equal(t, LightRain, days[1].Periods[1].Weather)
	assert.Equal(t, ModerateRain, days[1].Periods[2].Weather)
	assert.Equal(t, 4.0, days[0].Periods[2].Snowfall)
	assert.Equal(t, 0, days[1].Periods[2].WindSpeed)
}

func TestBuild_NoDates(t *testing.T) {
	days := build(nil, table{metricTemperature: {"1", "2", "3"}})
	require.NotNil(t, days)
	assert.Empty(t, days)
}
