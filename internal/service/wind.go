package service

import "math"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirectionFromDegrees maps a wind bearing to one of 16 compass points.
// Each point owns a 22.5 degree sector centered on it, so 11.24 is still N
// and 11.26 is NNE. Bearings outside [0, 360) wrap.
func WindDirectionFromDegrees(degrees float64) string {
	normalized := math.Mod(math.Mod(degrees, 360)+360, 360)
	index := int((normalized+11.25)/22.5) % 16
	return compassPoints[index]
}
