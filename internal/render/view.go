// Package render turns lookup state into a terminal card, an HTML widget and
// a JSON view. It holds no business logic beyond formatting.
package render

import (
	"strconv"
	"sync"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
)

// View is everything a front end needs to draw the widget.
type View struct {
	Query   string  `json:"query"`
	Phase   string  `json:"phase"`
	Loading bool    `json:"loading"`
	Error   string  `json:"error,omitempty"`
	Card    *Card   `json:"card,omitempty"`
	Map     MapView `json:"map"`
}

// Card is the formatted result of a successful lookup.
type Card struct {
	Title       string      `json:"title"`
	Icon        domain.Icon `json:"icon"`
	IconLabel   string      `json:"icon_label"`
	Glyph       string      `json:"-"`
	Temperature string      `json:"temperature"`
	Wind        string      `json:"wind"`
	Direction   string      `json:"direction"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
}

// Presenter builds Views. It remembers the last successful location so the map
// stays put after a later failure.
type Presenter struct {
	mapCfg MapConfig
	viewer *time.Location

	mu     sync.Mutex
	center LatLon
}

// NewPresenter creates a presenter. A nil viewer zone shows observation times
// in the wall clock Open-Meteo reported.
func NewPresenter(mapCfg MapConfig, viewer *time.Location) *Presenter {
	return &Presenter{
		mapCfg: mapCfg,
		viewer: viewer,
		center: mapCfg.Fallback,
	}
}

// View renders st with the current query text.
func (p *Presenter) View(st domain.State, query string) View {
	v := View{Query: query, Phase: string(st.Phase())}

	switch s := st.(type) {
	case domain.Loading:
		v.Loading = true
	case domain.Failed:
		v.Error = s.Message
	case domain.Success:
		card := p.card(s)
		v.Card = &card
	}

	v.Map = p.mapView(st)
	return v
}

func (p *Presenter) card(s domain.Success) Card {
	snap := s.Snapshot
	icon := snap.Icon()
	date, clock := domain.FormatObservation(snap.ObservedAt, p.viewer)
	return Card{
		Title:       s.Location.DisplayName(),
		Icon:        icon,
		IconLabel:   icon.Label(),
		Glyph:       icon.Glyph(),
		Temperature: formatNumber(snap.Temperature) + "°C",
		Wind:        formatNumber(snap.WindSpeed) + " km/h",
		Direction:   formatNumber(snap.WindDirection) + "°",
		Date:        date,
		Time:        clock,
		Latitude:    s.Location.Latitude,
		Longitude:   s.Location.Longitude,
	}
}

func (p *Presenter) mapView(st domain.State) MapView {
	p.mu.Lock()
	defer p.mu.Unlock()

	success, ok := st.(domain.Success)
	if !ok {
		return p.mapCfg.view(p.center, nil)
	}
	p.center = LatLon{Lat: success.Location.Latitude, Lon: success.Location.Longitude}
	return p.mapCfg.view(p.center, &Marker{
		Position: p.center,
		Popup:    success.Location.DisplayName() + ": " + formatNumber(success.Snapshot.Temperature) + "°C",
	})
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
