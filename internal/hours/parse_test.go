package hours

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeToMinutes(t *testing.T) {
	for h := 0; h <= 23; h++ {
		for _, m := range []int{0, 1, 30, 59} {
			text := fmt.Sprintf("%02d:%02d", h, m)
			got, ok := ParseTimeToMinutes(text)
			assert.True(t, ok, text)
			assert.Equal(t, h*60+m, got, text)
		}
	}

	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"single digit hour", "8:05", 485, true},
		{"surrounding spaces", " 10:00 ", 600, true},
		{"hour out of range", "24:00", 0, false},
		{"minute out of range", "12:60", 0, false},
		{"single digit minute", "12:5", 0, false},
		{"three digit hour", "123:00", 0, false},
		{"closed marker", "Geschlossen", 0, false},
		{"blank", " ", 0, false},
		{"empty", "", 0, false},
		{"signed", "+1:00", 0, false},
		{"seconds", "10:00:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimeToMinutes(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEnd(t *testing.T) {
	got, ok := NormalizeEnd("08:00", "00:00")
	assert.True(t, ok)
	assert.Equal(t, EndOfDay, got)

	got, ok = NormalizeEnd("00:00", "00:00")
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	got, ok = NormalizeEnd("08:00", "18:30")
	assert.True(t, ok)
	assert.Equal(t, 18*60+30, got)

	_, ok = NormalizeEnd("Geschlossen", " ")
	assert.False(t, ok)
}

func TestNormalizeEndIgnoresSurroundingSpace(t *testing.T) {
	got, ok := NormalizeEnd("08:00", " 00:00 ")
	assert.True(t, ok)
	assert.Equal(t, EndOfDay, got)

	got, ok = NormalizeEnd(" 00:00", "00:00")
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	s, e, ok := Interval{Start: " 10:00", End: " 00:00"}.Bounds()
	assert.True(t, ok)
	assert.Equal(t, 600, s)
	assert.Equal(t, EndOfDay, e)
}

func TestIntervalBounds(t *testing.T) {
	s, e, ok := Interval{Start: "10:00", End: "00:00"}.Bounds()
	assert.True(t, ok)
	assert.Equal(t, 600, s)
	assert.Equal(t, EndOfDay, e)

	_, _, ok = Interval{Start: "00:00", End: "00:00"}.Bounds()
	assert.False(t, ok, "zero-length interval is skipped")

	_, _, ok = Interval{Start: "18:00", End: "09:00"}.Bounds()
	assert.False(t, ok, "inverted interval is skipped")

	_, _, ok = Interval{Start: "Geschlossen", End: " "}.Bounds()
	assert.False(t, ok)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "08:05", FormatMinutes(485))
	assert.Equal(t, "24:00", FormatMinutes(EndOfDay))
}
