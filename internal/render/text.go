package render

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints v as a terminal card.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	switch {
	case v.Loading:
		b.WriteString("Loading...\n")
	case v.Error != "":
		fmt.Fprintf(&b, "Error: %s\n", v.Error)
	case v.Card != nil:
		c := v.Card
		fmt.Fprintf(&b, "%s\n", c.Title)
		fmt.Fprintf(&b, "%s %s\n", c.Glyph, c.IconLabel)
		fmt.Fprintf(&b, "🌡️ %s\n", c.Temperature)
		fmt.Fprintf(&b, "💨 %s\n", c.Wind)
		fmt.Fprintf(&b, "🧭 Direction: %s\n", c.Direction)
		fmt.Fprintf(&b, "%s\n%s\n", c.Date, c.Time)
		fmt.Fprintf(&b, "Map: %s\n", v.Map.OpenStreetMapURL())
	default:
		b.WriteString("Enter city name...\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
