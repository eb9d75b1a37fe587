package timecode

import "github.com/dvstimecode/timecode/internal/bitutil"

// LFSR is a Fibonacci linear feedback shift register over an n-bit state.
// With a primitive (maximum-length) tap polynomial it visits every one of
// its 2^n-1 nonzero states exactly once per period.
type LFSR struct {
	size  uint8
	state uint32
	taps  uint32
}

// NewLFSR creates an LFSR of the given width, seeded at state, feeding
// back through taps.
func NewLFSR(size uint8, state, taps uint32) LFSR {
	return LFSR{size: size, state: state, taps: taps}
}

// State returns the current n-bit state.
func (l LFSR) State() uint32 {
	return l.state
}

// Advance steps the LFSR forward by one bit, MSB-inserting, and returns
// the new state.
func (l *LFSR) Advance() uint32 {
	l.state = nextState(l.size, l.state, l.taps)
	return l.state
}

// Revert steps the LFSR backward by one bit, exactly inverting Advance,
// and returns the new state.
func (l *LFSR) Revert() uint32 {
	l.state = previousState(l.size, l.state, l.taps)
	return l.state
}

// nextState computes the feedback bit b = popcount(state & taps) mod 2,
// then shifts it into the MSB: state' = (b << (size-1)) | (state >> 1).
// The LSB of state is the output bit discarded by the shift.
func nextState(size uint8, state, taps uint32) uint32 {
	b := bitutil.PopCountParity32(state & taps)
	return (b << (size - 1)) | (state >> 1)
}

// previousState inverts nextState using the tap mask rotated right by
// size bits: taps' = rotateRight(taps, size), b' = popcount(state &
// taps') mod 2, state' = ((state << 1) & mask(size)) | b'.
func previousState(size uint8, state, taps uint32) uint32 {
	rtaps := bitutil.RotateRight32(taps, size)
	b := bitutil.PopCountParity32(state & rtaps)
	return ((state << 1) & bitutil.Mask32(size)) | b
}
