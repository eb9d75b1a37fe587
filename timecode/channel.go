package timecode

import "github.com/dvstimecode/timecode/internal/bitutil"

// WaveCycleStatus is which half of the carrier cycle a channel currently
// sits in, relative to its own EWMA baseline.
type WaveCycleStatus int

const (
	Negative WaveCycleStatus = iota
	Positive
)

func (s WaveCycleStatus) String() string {
	if s == Positive {
		return "Positive"
	}
	return "Negative"
}

// thresholdPolicy selects how a TimecodeChannel ratchets its amplitude
// threshold over time.
type thresholdPolicy int

const (
	// thresholdRatchet never lowers the running peak: peakThreshold =
	// max(peakThreshold, a). This is the default.
	thresholdRatchet thresholdPolicy = iota
	// thresholdAdaptive lets the running peak decay toward recent
	// amplitude: peakThreshold += (a - peakThreshold) >> 6.
	thresholdAdaptive
)

// TimecodeChannel is the zero-crossing detector and bit decider for one
// of the two stereo channels of a timecode signal.
type TimecodeChannel struct {
	ewma          ewma
	cycleStatus   WaveCycleStatus
	peakThreshold int32
	policy        thresholdPolicy
}

// ChannelOption configures a TimecodeChannel at construction time.
type ChannelOption func(*TimecodeChannel)

// WithAdaptiveThreshold selects the decay-based peak-threshold rule
// instead of the default monotone ratchet. Prefer it for source
// material whose amplitude envelope drifts over the recording, at the
// cost of slower settling after a loud transient.
func WithAdaptiveThreshold() ChannelOption {
	return func(c *TimecodeChannel) {
		c.policy = thresholdAdaptive
	}
}

func newTimecodeChannel(tau, sampleRateHz float64, opts ...ChannelOption) TimecodeChannel {
	c := TimecodeChannel{
		ewma:        newEWMA(tau, sampleRateHz),
		cycleStatus: Negative,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ProcessSample updates the baseline and cycle status for one promoted
// sample, reporting whether this sample crossed the baseline.
func (c *TimecodeChannel) ProcessSample(x int32) bool {
	crossed := (c.cycleStatus == Negative && x > c.ewma.lastOutput) ||
		(c.cycleStatus == Positive && x < c.ewma.lastOutput)
	if crossed {
		c.cycleStatus = 1 - c.cycleStatus
	}
	c.ewma.process(x)
	return crossed
}

// BitFromSample decides the bit encoded by the current amplitude,
// updating the running peak threshold in the process.
func (c *TimecodeChannel) BitFromSample(x int32) bool {
	a := bitutil.Abs32(c.ewma.differenceTo(x))

	switch c.policy {
	case thresholdAdaptive:
		c.peakThreshold += (a - c.peakThreshold) >> 6
	default:
		if a > c.peakThreshold {
			c.peakThreshold = a
		}
	}

	threshold := int32(float64(c.peakThreshold) * 0.9)
	return a > threshold
}

// Status returns the channel's current wave-cycle half.
func (c TimecodeChannel) Status() WaveCycleStatus {
	return c.cycleStatus
}
