package analysis

import (
	"fmt"
	"math"
)

// NoteNotApplicable is the sentinel returned for non-positive
// frequencies, which have no musical note.
const NoteNotApplicable = "N/A"

const a4Hz = 440.0

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// HzToNote converts a frequency to its nearest 12-TET note name
// relative to A4 = 440 Hz, e.g. 261.6 -> "C4".
func HzToNote(frequency float64) string {
	if frequency <= 0 {
		return NoteNotApplicable
	}

	semitonesFromA4 := 12 * math.Log2(frequency/a4Hz)

	// A4 is the 9th semitone of octave 4 counting from C.
	total := int(math.Round(semitonesFromA4)) + 9 + 4*12

	octave := total / 12
	index := total % 12
	if index < 0 {
		index += 12
		octave--
	}

	return fmt.Sprintf("%s%d", noteNames[index], octave)
}

// HzToMIDI converts a frequency to the nearest MIDI note number,
// returning 0 for non-positive frequencies.
func HzToMIDI(frequency float64) int {
	if frequency <= 0 {
		return 0
	}
	return int(math.Round(69 + 12*math.Log2(frequency/a4Hz)))
}

// MIDIToHz converts a MIDI note number to its frequency.
func MIDIToHz(note int) float64 {
	return a4Hz * math.Pow(2, float64(note-69)/12)
}
