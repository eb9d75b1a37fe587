package timecode

import "fmt"

// Direction is the detected playback direction of a timecode signal.
type Direction int

const (
	Backwards Direction = iota
	Forwards
)

func (d Direction) String() string {
	if d == Forwards {
		return "Forwards"
	}
	return "Backwards"
}

// Event is emitted once per decoded bit: the bit itself and, once the
// bitstream has re-locked, the absolute position it decodes to.
type Event struct {
	Bit         bool
	Position    uint32
	HasPosition bool
}

// Timecode decodes a stereo timecode signal sample by sample into
// position, direction and pitch.
type Timecode struct {
	format    TimecodeFormat
	primary   TimecodeChannel
	secondary TimecodeChannel
	pitch     PitchDetector
	bitstream Bitstream
	direction Direction
	lastPitch float64
}

// New constructs a Timecode decoder for format at the given sample
// rate. It returns an error wrapping ErrInvalidFormat if format cannot
// back an LFSR/bitstream of its declared size.
func New(format TimecodeFormat, sampleRateHz float64, opts ...ChannelOption) (*Timecode, error) {
	if err := format.validate(); err != nil {
		return nil, err
	}

	const channelTau = 0.001 // seconds; ~1ms baseline smoothing

	return &Timecode{
		format:    format,
		primary:   newTimecodeChannel(channelTau, sampleRateHz, opts...),
		secondary: newTimecodeChannel(channelTau, sampleRateHz, opts...),
		pitch:     newPitchDetector(format.SignalFrequencyHz, sampleRateHz),
		bitstream: newBitstream(format.Size, format.Seed, format.Taps),
		direction: Forwards,
		lastPitch: 1.0,
	}, nil
}

// ProcessChannels feeds one stereo sample pair through the decoder. It
// reports an Event and true whenever a bit is decoded this sample,
// false otherwise.
func (t *Timecode) ProcessChannels(left, right int16) (Event, bool) {
	x := int32(left) << 16
	y := int32(right) << 16

	pz := t.primary.ProcessSample(x)
	sz := t.secondary.ProcessSample(y)

	if pz {
		if t.primary.Status() == t.secondary.Status() {
			t.direction = Forwards
		} else {
			t.direction = Backwards
		}
	}
	if sz {
		if t.primary.Status() != t.secondary.Status() {
			t.direction = Forwards
		} else {
			t.direction = Backwards
		}
	}

	if pz || sz {
		t.lastPitch = t.pitch.UpdateAfterZeroCrossing(x, y, pz)
	} else {
		t.pitch.Update(x, y)
	}

	if sz && t.primary.Status() == Positive {
		bit := t.primary.BitFromSample(x)

		var pos uint32
		var ok bool
		if t.direction == Forwards {
			pos, ok = t.bitstream.ProcessBit(bit)
		} else {
			pos, ok = t.bitstream.ProcessBitBackward(bit)
		}

		return Event{Bit: bit, Position: pos, HasPosition: ok}, true
	}

	return Event{}, false
}

// State returns the bitstream's raw rolling window.
func (t *Timecode) State() uint32 {
	return t.bitstream.State()
}

// SetState overwrites the bitstream's rolling window, for resyncing
// against a known-good position after warm-up.
func (t *Timecode) SetState(s uint32) {
	t.bitstream.SetState(s)
}

// Pitch returns the most recently estimated pitch ratio; 1.0 is nominal
// speed.
func (t *Timecode) Pitch() float64 {
	return t.lastPitch
}

// Direction returns the most recently detected playback direction.
func (t *Timecode) Direction() Direction {
	return t.direction
}

// Format returns the TimecodeFormat this decoder was constructed with.
func (t *Timecode) Format() TimecodeFormat {
	return t.format
}

func (t *Timecode) String() string {
	return fmt.Sprintf("Timecode(format=%dbit, direction=%s, pitch=%.3f)", t.format.Size, t.direction, t.lastPitch)
}
