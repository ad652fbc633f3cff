package forecast

// Snowfall splits a day's expected snow by period, in cm.
type Snowfall struct {
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Night     float64 `json:"night"`
}

// Any reports whether any period expects snow.
func (s Snowfall) Any() bool {
	return s.Morning > 0 || s.Afternoon > 0 || s.Night > 0
}

// Summary condenses one forecast day for the daily notification.
type Summary struct {
	Date       string      `json:"date"`
	MaxTemp    int         `json:"maxTemp"`
	MinTemp    int         `json:"minTemp"`
	Snowfall   Snowfall    `json:"snowfall"`
	Conditions []Condition `json:"conditions"`
}

// Summarize builds the Summary of day.
func Summarize(day Day) Summary {
	s := Summary{Date: day.Date, Conditions: make([]Condition, 0, len(day.Periods))}
	for i, p := range day.Periods {
		if i == 0 || p.Temp > s.MaxTemp {
			s.MaxTemp = p.Temp
		}
		if i == 0 || p.Temp < s.MinTemp {
			s.MinTemp = p.Temp
		}
		switch p.Time {
		case SlotAM:
			s.Snowfall.Morning = p.Snowfall
		case SlotPM:
			s.Snowfall.Afternoon = p.Snowfall
		case SlotNight:
			s.Snowfall.Night = p.Snowfall
		}
		s.Conditions = append(s.Conditions, p.Weather)
	}
	return s
}
