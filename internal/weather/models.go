package weather

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationMatch is the best geocoding match for a free-text query.
// Name is never empty for a successful match.
type LocationMatch struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// RawSample is a single provider reading for the current moment plus today's
// extremes. It lives only for the duration of one resolution.
type RawSample struct {
	TemperatureC float64
	HumidityPct  float64
	WeatherCode  int
	WindSpeedKmh float64
	TodayMaxC    float64
	TodayMinC    float64
}

// Source is an attribution entry shown alongside a view.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// View is the normalized, display-ready weather for one location.
type View struct {
	City        string   `json:"city"`
	Temperature int      `json:"temperature"`
	Humidity    float64  `json:"humidity"`
	Condition   string   `json:"condition"`
	Description string   `json:"description"`
	WindSpeed   string   `json:"windSpeed"`
	High        int      `json:"high"`
	Low         int      `json:"low"`
	Sources     []Source `json:"sources"`
}
