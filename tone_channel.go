package cp16

import (
	"math"
)

// MaxAmplitude is a peak value of a single tone sample.
const MaxAmplitude = math.MaxInt16

// ToneChannel is a sine wave oscillator with a fixed frequency.
//
// The phase only advances when a sample is taken,
// so a channel that is not asked for samples holds its phase.
//
// The zero value is a silent channel (0 Hz).
type ToneChannel struct {
	frequency int

	// phaseStep is a phase difference between two adjacent samples.
	// It's 2*pi*frequency/sampleRate radians.
	phaseStep float64

	// phase grows without bounds, sin() takes care of the periodicity.
	phase float64
}

// NewToneChannel creates an oscillator for the given frequency (Hz)
// at the given sample rate (Hz).
func NewToneChannel(frequency, sampleRate int) ToneChannel {
	return ToneChannel{
		frequency: frequency,
		phaseStep: 2 * math.Pi * float64(frequency) / float64(sampleRate),
	}
}

// Frequency reports the channel frequency in Hz.
func (ch *ToneChannel) Frequency() int { return ch.frequency }

// NextSample returns the sample at the current phase and advances the phase.
// The sequence is infinite.
func (ch *ToneChannel) NextSample() int16 {
	v := math.Round(math.Sin(ch.phase) * MaxAmplitude)
	ch.phase += ch.phaseStep
	return int16(v)
}
