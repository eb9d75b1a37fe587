package timecode

import "github.com/dvstimecode/timecode/internal/bitutil"

// PitchDetector converts the spacing between zero crossings on the two
// stereo channels into an instantaneous pitch ratio, using sub-sample
// interpolation so it need not wait a full cycle to react.
type PitchDetector struct {
	samplesPerQuarterCycle  float64
	samplesSinceLastQuarter float64
	lastPrimarySample       int32
	lastSecondarySample     int32
}

// newPitchDetector derives samplesPerQuarterCycle from the carrier
// frequency and sample rate: a full cycle is fs/fsig samples, a quarter
// cycle is a fourth of that.
func newPitchDetector(signalFrequencyHz, sampleRateHz float64) PitchDetector {
	return PitchDetector{
		samplesPerQuarterCycle: sampleRateHz / signalFrequencyHz / 4,
	}
}

// Update advances bookkeeping for a sample that did not cross either
// channel's baseline.
func (p *PitchDetector) Update(primary, secondary int32) {
	p.samplesSinceLastQuarter++
	p.lastPrimarySample = primary
	p.lastSecondarySample = secondary
}

// UpdateAfterZeroCrossing computes the pitch ratio implied by a zero
// crossing on this sample, interpolating between the pre- and
// post-crossing samples to find the fractional crossing point.
func (p *PitchDetector) UpdateAfterZeroCrossing(primary, secondary int32, primaryCrossed bool) float64 {
	var a, b int32
	if primaryCrossed {
		a, b = bitutil.Abs32(p.lastPrimarySample), bitutil.Abs32(primary)
	} else {
		a, b = bitutil.Abs32(p.lastSecondarySample), bitutil.Abs32(secondary)
	}

	fractional := 0.5
	if sum := a + b; sum != 0 {
		fractional = float64(b) / float64(sum)
	}

	effective := p.samplesSinceLastQuarter + 1 - fractional
	pitch := p.samplesPerQuarterCycle / effective

	p.samplesSinceLastQuarter = fractional
	p.lastPrimarySample = primary
	p.lastSecondarySample = secondary

	return pitch
}
