package render

import (
	"fmt"
	"strconv"
)

const (
	defaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	defaultAttribution = "&copy; OpenStreetMap contributors"
)

// LatLon is a WGS-84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapConfig is the fixed part of the map: fallback center, zoom and tiles.
type MapConfig struct {
	Fallback    LatLon
	Zoom        int
	TileURL     string
	Attribution string
}

// Marker is a pin with popup text.
type Marker struct {
	Position LatLon `json:"position"`
	Popup    string `json:"popup"`
}

// MapView is what the map collaborator draws: a tile basemap centered on
// Center with an optional marker.
type MapView struct {
	Center      LatLon  `json:"center"`
	Zoom        int     `json:"zoom"`
	TileURL     string  `json:"tile_url"`
	Attribution string  `json:"attribution"`
	Marker      *Marker `json:"marker,omitempty"`
}

// OpenStreetMapURL links to the view on openstreetmap.org, with a marker if set.
func (m MapView) OpenStreetMapURL() string {
	lat := strconv.FormatFloat(m.Center.Lat, 'f', 4, 64)
	lon := strconv.FormatFloat(m.Center.Lon, 'f', 4, 64)
	if m.Marker == nil {
		return fmt.Sprintf("https://www.openstreetmap.org/#map=%d/%s/%s", m.Zoom, lat, lon)
	}
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=%d/%s/%s", lat, lon, m.Zoom, lat, lon)
}

func (c MapConfig) view(center LatLon, marker *Marker) MapView {
	tiles := c.TileURL
	if tiles == "" {
		tiles = defaultTileURL
	}
	attribution := c.Attribution
	if attribution == "" {
		attribution = defaultAttribution
	}
	return MapView{
		Center:      center,
		Zoom:        c.Zoom,
		TileURL:     tiles,
		Attribution: attribution,
		Marker:      marker,
	}
}
