// Package domain models a single-city current-weather lookup backed by the
// Open-Meteo geocoding and forecast APIs.
//
// # Data Source
//
// Place names are resolved by the Open-Meteo geocoding search endpoint
// (https://geocoding-api.open-meteo.com/v1/search). Only the first candidate is
// used; there is no disambiguation. Current conditions come from the forecast
// endpoint (https://api.open-meteo.com/v1/forecast) with current_weather=true.
//
// # Open-Meteo Conventions
//
// Units:
//
//	Temperature in degrees Celsius, wind speed in km/h, wind direction in
//	degrees clockwise from north (0 = wind from the north).
//
// Time format:
//
//	ISO 8601 without seconds or offset, e.g. "2024-05-01T10:00". The wall
//	clock is in the zone named by the response "timezone" field (GMT unless
//	requested otherwise) and "utc_offset_seconds" gives its offset. See
//	[ParseObservationTime].
//
// Weather codes (WMO 4677 subset):
//
//	0        clear sky
//	1, 2, 3  mainly clear, partly cloudy, overcast
//	45, 48   fog and depositing rime fog
//	51-57    drizzle, including freezing drizzle
//	61-67    rain, including freezing rain
//	71-77    snow fall and snow grains
//	80-82    rain showers
//	85, 86   snow showers
//	95-99    thunderstorm, optionally with hail
//
// Codes outside these ranges fall back to the clear-night icon. See [IconFor].
//
// # Lookup States
//
// A lookup is always in exactly one [State]: [Idle], [Loading], [Success] or
// [Failed]. Each variant carries only its own data, so a loading widget can
// never also show an error or a stale snapshot.
package domain
