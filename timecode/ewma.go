package timecode

import "math"

// ewma is a first-order exponential moving average over int32 samples,
// used as the DC/baseline estimate a channel's zero crossings and bit
// amplitudes are measured against.
type ewma struct {
	lastOutput int32
	alpha      float64
}

// newEWMA builds an ewma with time constant tau seconds at sample rate
// sampleRateHz: alpha = (1/fs) / (tau + 1/fs).
func newEWMA(tau, sampleRateHz float64) ewma {
	period := 1 / sampleRateHz
	return ewma{alpha: period / (tau + period)}
}

// smoothen computes the next output without storing it.
func (e ewma) smoothen(x int32) int32 {
	delta := float64(x-e.lastOutput) * e.alpha
	return e.lastOutput + int32(math.Round(delta))
}

// process advances the filter and returns the new output.
func (e *ewma) process(x int32) int32 {
	e.lastOutput = e.smoothen(x)
	return e.lastOutput
}

// differenceTo returns x minus the last computed output.
func (e ewma) differenceTo(x int32) int32 {
	return x - e.lastOutput
}
