package services

import "strings"

type cannedWeather struct {
	Display string
	Icon    string
}

const (
	DefaultCity        = "London"
	fallbackWeather    = "🌈 Beautiful, 20°C"
	fallbackWeatherIcn = "🌈"
)

var cityWeather = map[string]cannedWeather{
	"london":      {"🌧️ Rainy, 15°C", "🌧️"},
	"paris":       {"⛅ Cloudy, 18°C", "⛅"},
	"new york":    {"☀️ Sunny, 22°C", "☀️"},
	"tokyo":       {"☀️ Sunny, 25°C", "☀️"},
	"sydney":      {"☀️ Sunny, 28°C", "☀️"},
	"berlin":      {"⛅ Cloudy, 16°C", "⛅"},
	"rome":        {"☀️ Sunny, 24°C", "☀️"},
	"madrid":      {"☀️ Sunny, 26°C", "☀️"},
	"amsterdam":   {"🌧️ Rainy, 14°C", "🌧️"},
	"dublin":      {"🌧️ Rainy, 13°C", "🌧️"},
	"moscow":      {"❄️ Snowy, -5°C", "❄️"},
	"dubai":       {"☀️ Sunny, 35°C", "☀️"},
	"los angeles": {"☀️ Sunny, 26°C", "☀️"},
	"toronto":     {"⛅ Cloudy, 12°C", "⛅"},
	"singapore":   {"🌧️ Rainy, 30°C", "🌧️"},
}

// LookupWeather returns the canned weather text and icon for city.
// Unknown cities get a fixed fallback.
func LookupWeather(city string) (display, icon string) {
	if w, ok := cityWeather[strings.ToLower(strings.TrimSpace(city))]; ok {
		return w.Display, w.Icon
	}
	return fallbackWeather, fallbackWeatherIcn
}

// KnownCities lists the cities with canned weather, in no particular order.
func KnownCities() []string {
	cities := make([]string, 0, len(cityWeather))
	for c := range cityWeather {
		cities = append(cities, c)
	}
	return cities
}
