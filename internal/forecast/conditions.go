package forecast

import "strings"

// Condition is the normalised weather tag of a period.
type Condition string

const (
	Clear        Condition = "clear"
	PartlyCloudy Condition = "partlyCloudy"
	Cloudy       Condition = "cloudy"
	LightSnow    Condition = "lightSnow"
	ModerateSnow Condition = "moderateSnow"
	HeavySnow    Condition = "heavySnow"
	SnowShowers  Condition = "snowShowers"
	LightRain    Condition = "lightRain"
	ModerateRain Condition = "moderateRain"
	HeavyRain    Condition = "heavyRain"
	Unknown      Condition = "unknown"
)

type conditionRule struct {
	keyword string
	tag     Condition
}

// conditionRules is evaluated top to bottom. "cloud" must stay after "part cloud".
var conditionRules = []conditionRule{
	{"clear", Clear},
	{"part cloud", PartlyCloudy},
	{"light snow", LightSnow},
	{"mod snow", ModerateSnow},
	{"heavy snow", HeavySnow},
	{"snow shwrs", SnowShowers},
	{"light rain", LightRain},
	{"mod. rain", ModerateRain},
	{"heavy rain", HeavyRain},
	{"cloud", Cloudy},
}

// ClassifyCondition maps a raw weather icon label to a Condition.
// The first rule whose keyword occurs in the label (case-insensitive) wins.
func ClassifyCondition(label string) Condition {
	l := strings.ToLower(label)
	for _, r := range conditionRules {
		if strings.Contains(l, r.keyword) {
			return r.tag
		}
	}
	return Unknown
}
