package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/skycast/internal/weather"
)

// MaxSources is how many attribution entries a presenter shows.
const MaxSources = 3

// TopSources returns at most MaxSources entries, in order.
func TopSources(sources []weather.Source) []weather.Source {
	if len(sources) > MaxSources {
		return sources[:MaxSources]
	}
	return sources
}

// Text writes a plain-text summary of v.
func Text(w io.Writer, v weather.View) error {
	header := fmt.Sprintf("Weather Summary for %s:", v.City)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", header)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", len([]rune(header))))
	fmt.Fprintf(&b, "Conditions:  %s (%s)\n", v.Condition, cases.Title(language.English).String(v.Description))
	fmt.Fprintf(&b, "Temperature: %d°C\n", v.Temperature)
	fmt.Fprintf(&b, "  High:      %d°C\n", v.High)
	fmt.Fprintf(&b, "  Low:       %d°C\n", v.Low)
	fmt.Fprintf(&b, "Humidity:    %s%%\n", strconv.FormatFloat(v.Humidity, 'f', -1, 64))
	fmt.Fprintf(&b, "Wind Speed:  %s\n", v.WindSpeed)

	if sources := TopSources(v.Sources); len(sources) > 0 {
		b.WriteString("Sources:\n")
		for _, s := range sources {
			fmt.Fprintf(&b, "  - %s <%s>\n", s.Title, s.URI)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
