package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SiphiweRadebe/WeatherApp/internal/service"
)

func TestWindDirectionFromDegrees(t *testing.T) {
	cases := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{360, "N"},
		// Sector boundaries: each point owns ±11.25° around its heading.
		{11.24, "N"},
		{11.26, "NNE"},
		{348.74, "NNW"},
		{348.76, "N"},
		// Out-of-range bearings normalize first.
		{-45, "NW"},
		{450, "E"},
		{720.5, "N"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, service.WindDirectionFromDegrees(tc.degrees), "degrees=%v", tc.degrees)
	}
}
