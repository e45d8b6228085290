package domain

// Icon is a display category for a WMO weather code.
type Icon string

const (
	IconClearDay     Icon = "clear-day"
	IconCloudy       Icon = "cloudy"
	IconFog          Icon = "fog"
	IconDrizzle      Icon = "drizzle"
	IconRain         Icon = "rain"
	IconSnow         Icon = "snow"
	IconRainShowers  Icon = "rain-showers"
	IconThunderstorm Icon = "thunderstorm"
	IconClearNight   Icon = "clear-night"
)

// iconRanges maps inclusive WMO code ranges to icons. Order does not matter;
// the ranges are disjoint.
var iconRanges = []struct {
	min, max int
	icon     Icon
}{
	{0, 0, IconClearDay},
	{1, 3, IconCloudy},
	{45, 48, IconFog},
	{51, 57, IconDrizzle},
	{61, 67, IconRain},
	{71, 77, IconSnow},
	{80, 82, IconRainShowers},
	{85, 86, IconSnow},
	{95, 99, IconThunderstorm},
}

// IconFor maps a weather code to its icon. Unmapped codes get IconClearNight.
func IconFor(code int) Icon {
	for _, r := range iconRanges {
		if code >= r.min && code <= r.max {
			return r.icon
		}
	}
	return IconClearNight
}

var iconMeta = map[Icon]struct {
	label string
	glyph string
}{
	IconClearDay:     {"Clear", "☀️"},
	IconCloudy:       {"Cloudy", "☁️"},
	IconFog:          {"Fog", "🌫️"},
	IconDrizzle:      {"Drizzle", "🌦️"},
	IconRain:         {"Rain", "🌧️"},
	IconSnow:         {"Snow", "❄️"},
	IconRainShowers:  {"Rain showers", "🌦️"},
	IconThunderstorm: {"Thunderstorm", "⛈️"},
	IconClearNight:   {"Clear night", "🌙"},
}

// Label is a short human-readable description.
func (i Icon) Label() string {
	return iconMeta[i].label
}

// Glyph is an emoji suitable for terminal output.
func (i Icon) Glyph() string {
	return iconMeta[i].glyph
}
