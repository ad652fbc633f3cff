package forecast

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cellReader pulls the raw value of one metric out of a table cell.
type cellReader func(cell *goquery.Selection) string

type rowSpec struct {
	row    string
	metric metric
	read   cellReader
}

// rowSpecs lists every metric the page exposes. The wind row carries two metrics.
var rowSpecs = []rowSpec{
	{row: "weather", metric: metricWeather, read: readWeatherIcon},
	{row: "temperature-max", metric: metricTemperature, read: dataValue(".temp-value")},
	{row: "wind", metric: metricWindSpeed, read: innerText(".wind-icon__val", true)},
	{row: "wind", metric: metricWindDir, read: innerText(".wind-icon__tooltip", false)},
	{row: "snow", metric: metricSnow, read: innerText(".snow-amount__value", true)},
	{row: "rain", metric: metricRain, read: innerText(".rain-amount", true)},
	{row: "freezing-level", metric: metricFreezing, read: dataValue(".level-value")},
}

// Parse extracts the forecast days and snow conditions from a forecast page.
// It never fails: anything it cannot find takes its zero value.
func Parse(html string) Report {
	r, err := ParseReader(strings.NewReader(html))
	if err != nil {
		return Report{Days: []Day{}}
	}
	return r
}

// ParseReader is Parse over a stream. It only errors when the stream itself cannot be read.
func ParseReader(r io.Reader) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Report{Days: []Day{}}, fmt.Errorf("reading forecast document: %w", err)
	}

	dates := dayLabels(doc)
	t := make(table, len(rowSpecs))
	for _, spec := range rowSpecs {
		t[spec.metric] = rowValues(doc, spec)
	}

	return Report{
		Days: build(dates, t),
		Snow: snowConditions(doc),
	}, nil
}

// dayLabels returns one label per forecast day, left to right.
func dayLabels(doc *goquery.Document) []string {
	var dates []string
	doc.Find(".forecast-table-days__cell").Each(func(_ int, s *goquery.Selection) {
		label, ok := s.Attr("data-date")
		if !ok || strings.TrimSpace(label) == "" {
			label = s.Text()
		}
		if label = strings.TrimSpace(label); label != "" {
			dates = append(dates, label)
		}
	})
	return dates
}

// rowCells finds the cells of a metric row, trying the data-row form before the class form.
func rowCells(doc *goquery.Document, row string) *goquery.Selection {
	rows := doc.Find(fmt.Sprintf(`.forecast-table__row[data-row=%q]`, row))
	if rows.Length() == 0 {
		rows = doc.Find(fmt.Sprintf(".forecast-table-%s__row", row))
	}
	cells := rows.Find(".forecast-table__cell")
	if cells.Length() == 0 {
		cells = rows.Find("td")
	}
	return cells
}

func rowValues(doc *goquery.Document, spec rowSpec) []string {
	cells := rowCells(doc, spec.row)
	values := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		values = append(values, spec.read(cell))
	})
	return values
}

func readWeatherIcon(cell *goquery.Selection) string {
	img := cell.Find("img").First()
	if alt, ok := img.Attr("alt"); ok && alt != "" {
		return alt
	}
	if class, ok := img.Attr("class"); ok {
		return class
	}
	class, _ := cell.Find("div").First().Attr("class")
	return class
}

// innerText reads the text of the first sel inside the cell, or of the whole cell when
// orCell is set and sel is absent.
func innerText(sel string, orCell bool) cellReader {
	return func(cell *goquery.Selection) string {
		inner := cell.Find(sel).First()
		if inner.Length() > 0 {
			return strings.TrimSpace(inner.Text())
		}
		if orCell {
			return strings.TrimSpace(cell.Text())
		}
		return ""
	}
}

// dataValue prefers the data-value attribute of sel and falls back to text.
func dataValue(sel string) cellReader {
	return func(cell *goquery.Selection) string {
		inner := cell.Find(sel).First()
		if v, ok := inner.Attr("data-value"); ok {
			return v
		}
		if inner.Length() > 0 {
			return strings.TrimSpace(inner.Text())
		}
		return strings.TrimSpace(cell.Text())
	}
}

// snowConditions scans the snow depth key/value table. Each fact is read independently.
func snowConditions(doc *goquery.Document) SnowConditions {
	var sc SnowConditions
	doc.Find(".snow-depths-table__table tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(row.Find("th").Text())
		value := row.Find("td").Text()

		switch {
		case strings.Contains(label, "top snow depth"):
			sc.TopDepth = extractOr([]string{value}, 0, parseFirstDigits, sc.TopDepth)
		case strings.Contains(label, "bottom snow depth"):
			sc.BottomDepth = extractOr([]string{value}, 0, parseFirstDigits, sc.BottomDepth)
		case strings.Contains(label, "fresh snowfall"):
			sc.FreshSnowfall = extractOr([]string{value}, 0, parseFirstDigits, sc.FreshSnowfall)
		case strings.Contains(label, "last snowfall"):
			sc.LastSnowfall = strings.TrimSpace(value)
		}
	})
	return sc
}
