package theme

import "strings"

// DefaultDescription seeds the shell background before any lookup runs.
const DefaultDescription = "clear sky"

// Background gradient classes for the layout shell.
const (
	backgroundClear   = "bg-gradient-to-br from-blue-400 via-blue-500 to-blue-600"
	backgroundClouds  = "bg-gradient-to-br from-gray-400 via-gray-500 to-gray-600"
	backgroundRain    = "bg-gradient-to-br from-blue-700 via-blue-800 to-gray-800"
	backgroundSnow    = "bg-gradient-to-br from-blue-100 via-blue-200 to-blue-300"
	backgroundStorm   = "bg-gradient-to-br from-purple-800 via-gray-800 to-black"
	backgroundMist    = "bg-gradient-to-br from-gray-300 via-gray-400 to-gray-500"
)

// BackgroundFor maps a weather description to a background gradient
// class. Matching is substring-based on the lowercased description;
// unknown descriptions fall back to the clear-sky gradient.
func BackgroundFor(description string) string {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "clear"), strings.Contains(desc, "sunny"):
		return backgroundClear
	case strings.Contains(desc, "cloud"):
		return backgroundClouds
	case strings.Contains(desc, "rain"), strings.Contains(desc, "drizzle"):
		return backgroundRain
	case strings.Contains(desc, "snow"):
		return backgroundSnow
	case strings.Contains(desc, "thunderstorm"):
		return backgroundStorm
	case strings.Contains(desc, "mist"), strings.Contains(desc, "fog"):
		return backgroundMist
	}
	return backgroundClear
}
