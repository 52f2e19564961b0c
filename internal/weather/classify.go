package weather

// Condition labels returned by Classify.
const (
	ConditionClear        = "Clear sky"
	ConditionPartlyCloudy = "Mainly clear / Partly cloudy"
	ConditionFoggy        = "Foggy"
	ConditionRainy        = "Rainy"
	ConditionSnowy        = "Snowy"
	ConditionThunderstorm = "Thunderstorm"
	ConditionVariable     = "Variable"
)

// conditionBands is ordered by ascending inclusive upper bound.
var conditionBands = []struct {
	upTo  int
	label string
}{
	{0, ConditionClear},
	{3, ConditionPartlyCloudy},
	{48, ConditionFoggy},
	{67, ConditionRainy},
	{77, ConditionSnowy},
	{99, ConditionThunderstorm},
}

// Classify maps a WMO weather code to a coarse condition label.
// Codes outside 0..99 map to ConditionVariable.
func Classify(code int) string {
	if code < 0 {
		return ConditionVariable
	}
	for _, b := range conditionBands {
		if code <= b.upTo {
			return b.label
		}
	}
	return ConditionVariable
}

// WMO Weather interpretation codes (https://open-meteo.com/en/docs)
var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns the detailed phrase for an exact WMO code, or the coarse
// Classify label when the code has no dedicated phrase.
func Describe(code int) string {
	if desc, ok := codeDescriptions[code]; ok {
		return desc
	}
	return Classify(code)
}
