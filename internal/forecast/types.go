package forecast

// Slot names one of the three daily forecast periods.
type Slot string

const (
	SlotAM    Slot = "AM"
	SlotPM    Slot = "PM"
	SlotNight Slot = "night"
)

// slots is the fixed column order of every forecast day.
var slots = [3]Slot{SlotAM, SlotPM, SlotNight}

// Period holds the forecast for one (day, slot) pair.
type Period struct {
	Time        Slot      `json:"time"`
	Temp        int       `json:"temp"`
	Weather     Condition `json:"weather"`
	WindSpeed   int       `json:"windSpeed"`
	WindDir     string    `json:"windDir"`
	Snowfall    float64   `json:"snowfall"`
	Rain        float64   `json:"rain"`
	FreezeLevel int       `json:"freezeLevel"`
}

// Day is a single forecast day. Periods always has exactly three entries, AM, PM and night.
type Day struct {
	Date    string   `json:"date"`
	Periods []Period `json:"periods"`
}

// SnowConditions is the resort-wide snow depth snapshot.
type SnowConditions struct {
	TopDepth      int    `json:"topDepth"`
	BottomDepth   int    `json:"bottomDepth"`
	FreshSnowfall int    `json:"freshSnowfall"`
	LastSnowfall  string `json:"lastSnowfall"`
}

// Report is the full result of one forecast scrape.
type Report struct {
	Days []Day          `json:"data"`
	Snow SnowConditions `json:"snowConditions"`
}
