package forecast

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	errEmpty     = errors.New("empty value")
	errNoNumber  = errors.New("no numeric prefix")
	leadingInt   = regexp.MustCompile(`^[-+]?\d+`)
	leadingFloat = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)
	firstDigits  = regexp.MustCompile(`\d+`)
)

// metric names a forecast table row.
type metric string

const (
	metricWeather     metric = "weather"
	metricTemperature metric = "temperature-max"
	metricWindSpeed   metric = "wind"
	metricWindDir     metric = "wind-direction"
	metricSnow        metric = "snow"
	metricRain        metric = "rain"
	metricFreezing    metric = "freezing-level"
)

// table is the parser's intermediate form: raw cell values per metric, in column order.
type table map[metric][]string

// extractOr returns parse(cells[idx]), or def when the cell is missing or does not parse.
func extractOr[T any](cells []string, idx int, parse func(string) (T, error), def T) T {
	if idx < 0 || idx >= len(cells) {
		return def
	}
	v, err := parse(cells[idx])
	if err != nil {
		return def
	}
	return v
}

// parseLeadingInt reads the integer at the start of s, ignoring anything after it ("12cm" -> 12).
func parseLeadingInt(s string) (int, error) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, errNoNumber
	}
	return strconv.Atoi(m)
}

// parseLeadingFloat reads the decimal number at the start of s.
func parseLeadingFloat(s string) (float64, error) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, errNoNumber
	}
	return strconv.ParseFloat(m, 64)
}

// parseAmount is parseLeadingFloat for precipitation, which is never negative.
func parseAmount(s string) (float64, error) {
	v, err := parseLeadingFloat(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}

// parseFirstDigits reads the first run of digits anywhere in s. Decimals are truncated.
func parseFirstDigits(s string) (int, error) {
	m := firstDigits.FindString(s)
	if m == "" {
		return 0, errNoNumber
	}
	return strconv.Atoi(m)
}

func parseText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmpty
	}
	return s, nil
}

// build assembles the day/period model from date labels and the metric table.
// Period (i, j) reads cell i*3+j of every metric row.
func build(dates []string, t table) []Day {
	days := make([]Day, 0, len(dates))
	for i, date := range dates {
		day := Day{Date: date, Periods: make([]Period, 0, len(slots))}
		for j, slot := range slots {
			idx := i*3 + j
			day.Periods = append(day.Periods, Period{
				Time:        slot,
				Temp:        extractOr(t[metricTemperature], idx, parseLeadingInt, 0),
				Weather:     ClassifyCondition(extractOr(t[metricWeather], idx, parseText, "")),
				WindSpeed:   extractOr(t[metricWindSpeed], idx, parseLeadingInt, 0),
				WindDir:     extractOr(t[metricWindDir], idx, parseText, ""),
				Snowfall:    extractOr(t[metricSnow], idx, parseAmount, 0),
				Rain:        extractOr(t[metricRain], idx, parseAmount, 0),
				FreezeLevel: extractOr(t[metricFreezing], idx, parseLeadingInt, 0),
			})
		}
		days = append(days, day)
	}
	return days
}
