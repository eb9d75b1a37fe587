package timecode

import "math"

// Generator synthesizes the stereo timecode signal matching a
// TimecodeFormat: the inverse of Timecode.
type Generator struct {
	format       TimecodeFormat
	lfsr         LFSR
	sampleRateHz float64

	index          uint64
	cachedCycleIdx int64
	previousBit    bool
}

// NewGenerator constructs a Generator for format at the given sample
// rate. It returns an error wrapping ErrInvalidFormat for the same
// reasons as New.
func NewGenerator(format TimecodeFormat, sampleRateHz float64) (*Generator, error) {
	if err := format.validate(); err != nil {
		return nil, err
	}

	l := NewLFSR(format.Size, format.Seed, format.Taps)
	// Extract the bit that would have preceded the seed, then restore
	// state to seed so the first sample encodes it honestly.
	prevState := l.Revert()
	previousBit := (prevState >> (format.Size - 1)) == 1
	l.Advance()

	return &Generator{
		format:         format,
		lfsr:           l,
		sampleRateHz:   sampleRateHz,
		cachedCycleIdx: -1,
		previousBit:    previousBit,
	}, nil
}

// State returns the generator's raw LFSR state.
func (g *Generator) State() uint32 {
	return g.lfsr.State()
}

// NextSample produces the next stereo sample pair.
func (g *Generator) NextSample() (int16, int16) {
	cycle := float64(g.index) * g.format.SignalFrequencyHz / g.sampleRateHz
	cycleIdx := int64(math.Floor(cycle))
	cyclePos := cycle - float64(cycleIdx)

	if cycleIdx != g.cachedCycleIdx && cyclePos >= 0.75 {
		g.previousBit = (g.lfsr.State() >> (g.format.Size - 1)) == 1
		g.lfsr.Advance()
		g.cachedCycleIdx = cycleIdx
	}

	secondaryBit := (g.lfsr.State() >> (g.format.Size - 1)) == 1
	primaryBit := secondaryBit
	if cyclePos >= 0.75 {
		primaryBit = g.previousBit
	}

	angle := 2 * math.Pi * cycle
	primary := math.Sin(angle)
	secondary := math.Cos(angle)

	if !primaryBit {
		primary *= 0.75
	}
	if !secondaryBit {
		secondary *= 0.75
	}

	if cycle < 1.0 {
		primary *= cycle
		secondary *= cycle
	}

	g.index++
	return scaleToInt16(primary), scaleToInt16(secondary)
}

func scaleToInt16(sample float64) int16 {
	scaled := math.Round(sample * math.MaxInt16 * 0.5)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}
