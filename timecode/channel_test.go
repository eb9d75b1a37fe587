package timecode

import (
	"math"
	"testing"
)

func sineSamples(n int, freq, sampleRateHz, amplitude float64) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRateHz))
	}
	return out
}

func TestTimecodeChannelDetectsCrossings(t *testing.T) {
	c := newTimecodeChannel(0.05, 44100)
	samples := sineSamples(4410, 1000, 44100, 1<<20)

	crossings := 0
	for _, s := range samples {
		if c.ProcessSample(s) {
			crossings++
		}
	}

	// A 1kHz tone sampled for 0.1s crosses its own baseline roughly 200
	// times (two per cycle, ~100 cycles); settling takes a few cycles so
	// allow a wide band either side.
	if crossings < 150 || crossings > 250 {
		t.Fatalf("crossings = %d, want roughly 200", crossings)
	}
}

func TestTimecodeChannelRatchetNeverDecreases(t *testing.T) {
	c := newTimecodeChannel(0.05, 44100)
	c.BitFromSample(100)
	afterFirst := c.peakThreshold
	c.BitFromSample(10)
	if c.peakThreshold < afterFirst {
		t.Fatalf("default ratchet policy decreased: %d -> %d", afterFirst, c.peakThreshold)
	}
}

func TestTimecodeChannelAdaptiveThresholdCanDecay(t *testing.T) {
	c := newTimecodeChannel(0.05, 44100, WithAdaptiveThreshold())
	for i := 0; i < 200; i++ {
		c.BitFromSample(10000)
	}
	afterLoud := c.peakThreshold
	for i := 0; i < 200; i++ {
		c.BitFromSample(100)
	}
	if c.peakThreshold >= afterLoud {
		t.Fatalf("adaptive policy did not decay toward quieter amplitude: %d -> %d", afterLoud, c.peakThreshold)
	}
}

func TestTimecodeChannelBitFromSampleAboveAndBelowThreshold(t *testing.T) {
	c := newTimecodeChannel(0.05, 44100)
	// Establish a steady-state peak around 1000.
	for i := 0; i < 100; i++ {
		c.BitFromSample(1000)
	}
	if !c.BitFromSample(1000) {
		t.Fatal("amplitude at peak should exceed 90% of peak threshold")
	}
	if c.BitFromSample(10) {
		t.Fatal("amplitude far below peak threshold should not register a bit")
	}
}
