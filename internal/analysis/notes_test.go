package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHzToNote(t *testing.T) {
	tests := []struct {
		hz       float64
		expected string
	}{
		{440, "A4"},
		{261.63, "C4"},
		{82.41, "E2"},
		{220, "A3"},
		{1046.5, "C6"},
		{27.5, "A0"},
		{466.16, "A#4"},
		{0, NoteNotApplicable},
		{-120, NoteNotApplicable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HzToNote(tt.hz), "%.2f Hz", tt.hz)
	}
}

func TestHzToMIDI(t *testing.T) {
	assert.Equal(t, 69, HzToMIDI(440))
	assert.Equal(t, 60, HzToMIDI(261.63))
	assert.Equal(t, 57, HzToMIDI(220))
	assert.Equal(t, 0, HzToMIDI(0))
	assert.Equal(t, 0, HzToMIDI(-1))
}

func TestMIDIToHz(t *testing.T) {
	assert.InDelta(t, 440, MIDIToHz(69), 1e-9)
	assert.InDelta(t, 220, MIDIToHz(57), 1e-9)
	assert.InDelta(t, 880, MIDIToHz(81), 1e-9)
}

func TestMIDIRoundTrip(t *testing.T) {
	for note := 21; note <= 108; note++ {
		assert.Equal(t, note, HzToMIDI(MIDIToHz(note)))
	}
}
