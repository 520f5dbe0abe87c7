package readability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/pkg/readability"
)

func Test_EstimateMinutes(t *testing.T) {
	tests := []struct {
		name         string
		pageCount    int
		pagesPerHour int
		want         int
	}{
		{name: "zero_pages", pageCount: 0, pagesPerHour: 60, want: 0},
		{name: "negative_pages", pageCount: -5, pagesPerHour: 60, want: 0},
		{name: "exact_hour", pageCount: 60, pagesPerHour: 60, want: 60},
		{name: "ceiling_rounding", pageCount: 61, pagesPerHour: 60, want: 61},
		{name: "one_page", pageCount: 1, pagesPerHour: 60, want: 1},
		{name: "fast_reader", pageCount: 300, pagesPerHour: 120, want: 150},
		{name: "slow_reader_rounds_up", pageCount: 100, pagesPerHour: 33, want: 182},
		{name: "zero_speed_falls_back_to_default", pageCount: 60, pagesPerHour: 0, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readability.EstimateMinutes(tt.pageCount, tt.pagesPerHour))
		})
	}
}

func Test_EstimateDifficulty(t *testing.T) {
	tests := []struct {
		pageCount int
		want      string
	}{
		{pageCount: 0, want: readability.LevelEasy},
		{pageCount: 150, want: readability.LevelEasy},
		{pageCount: 151, want: readability.LevelMedium},
		{pageCount: 350, want: readability.LevelMedium},
		{pageCount: 351, want: readability.LevelHard},
		{pageCount: 1200, want: readability.LevelHard},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, readability.EstimateDifficulty(tt.pageCount), "pageCount=%d", tt.pageCount)
	}
}

func Test_IsValidLevel(t *testing.T) {
	assert.True(t, readability.IsValidLevel("Easy"))
	assert.True(t, readability.IsValidLevel("Medium"))
	assert.True(t, readability.IsValidLevel("Hard"))
	assert.False(t, readability.IsValidLevel("easy"))
	assert.False(t, readability.IsValidLevel(""))
	assert.False(t, readability.IsValidLevel("Impossible"))
}
