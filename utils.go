package cp16

import (
	"math"
	"time"
)

func channelFrequencies(startFreq, step int) [NumChannels]int {
	var frequencies [NumChannels]int
	for i := range frequencies {
		frequencies[i] = startFreq + i*step
	}
	return frequencies
}

// samplesDuration converts a sample count to a duration.
// Durations that don't fit time.Duration are clamped.
func samplesDuration(numSamples, sampleRate int) time.Duration {
	ns := float64(numSamples) / float64(sampleRate) * float64(time.Second)
	if ns >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(ns)
}
