package domain

import "time"

// Location is a geocoded place. It is overwritten on every lookup.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"` // state or province, when reported
	Timezone  string  `json:"timezone,omitempty"`
}

// DisplayName renders the location as "Name, Country", omitting an empty country.
func (l Location) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// Conditions is the current-weather reading returned by a WeatherFetcher.
type Conditions struct {
	Temperature   float64   // °C
	WindSpeed     float64   // km/h
	WindDirection float64   // degrees
	WeatherCode   int       // WMO code
	IsDay         bool
	ObservedAt    time.Time
}

// Snapshot is the merged result of a weather reading and the location it was
// taken for. A new lookup replaces it wholesale.
type Snapshot struct {
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	WeatherCode   int       `json:"weather_code"`
	IsDay         bool      `json:"is_day"`
	ObservedAt    time.Time `json:"observed_at"`
	Name          string    `json:"name"`
	Country       string    `json:"country"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// NewSnapshot merges conditions with the resolved location and stamps the
// fetch time from the package clock.
func NewSnapshot(loc Location, c Conditions) Snapshot {
	return Snapshot{
		Temperature:   c.Temperature,
		WindSpeed:     c.WindSpeed,
		WindDirection: c.WindDirection,
		WeatherCode:   c.WeatherCode,
		IsDay:         c.IsDay,
		ObservedAt:    c.ObservedAt,
		Name:          loc.Name,
		Country:       loc.Country,
		FetchedAt:     clock.Now().UTC(),
	}
}

// Icon returns the display icon for the snapshot's weather code.
func (s Snapshot) Icon() Icon {
	return IconFor(s.WeatherCode)
}
