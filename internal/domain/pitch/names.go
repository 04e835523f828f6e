package pitch

import "strings"

// pitchColors follow the common pitch-type palette used by movement charts.
var pitchColors = map[string]string{
	"Four-Seam Fastball": "#D22D49",
	"Fastball":           "#D22D49",
	"Two-Seam Fastball":  "#DE6A04",
	"Sinker":             "#FE9D00",
	"Cutter":             "#933F2C",
	"Changeup":           "#1DBE3A",
	"Splitter":           "#3BACAC",
	"Screwball":          "#60DB33",
	"Forkball":           "#55CCAB",
	"Slurve":             "#DDB33A",
	"Slider":             "#EEE716",
	"Gyroball":           "#FFFF99",
	"Sweeper":            "#93AFD4",
	"Curveball":          "#00D1ED",
	"Knuckle Curve":      "#6236CD",
	"Knuckleball":        "#3C44CD",
	"Slow Curve":         "#0068FF",
}

const defaultPitchColor = "#999999"

// NormalizePitchName folds the four-seam fastball spelling variants into
// "Fastball"; every other name passes through unchanged.
func NormalizePitchName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if strings.Contains(lower, "four") && strings.Contains(lower, "seam") {
		return "Fastball"
	}
	if strings.Contains(lower, "4-seam") || strings.Contains(lower, "4 seam") || strings.Contains(lower, "fourseam") {
		return "Fastball"
	}
	return name
}

// PitchColor returns the display color for a normalized pitch name.
func PitchColor(name string) string {
	if color, ok := pitchColors[NormalizePitchName(name)]; ok {
		return color
	}
	return defaultPitchColor
}
