package timecode

import "github.com/dvstimecode/timecode/internal/bitutil"

// Bitstream maps a rolling window of recently decoded bits to a position
// within a maximum-length pseudo-random sequence. Because every n-bit
// window of a maximum-length sequence is unique, n consecutive correctly
// decoded bits unambiguously identify a position.
type Bitstream struct {
	size      uint8
	lookup    []uint32 // dense: state -> position, index 0 unused (state is never 0)
	window    uint32
	validBits uint32
}

// newBitstream allocates the lookup table by iterating an LFSR for 2^size-1
// steps starting from seed, then initializes the rolling window at seed.
func newBitstream(size uint8, seed, taps uint32) Bitstream {
	capacity := uint32(1)<<size - 1
	lookup := make([]uint32, uint32(1)<<size)
	l := NewLFSR(size, seed, taps)
	state := l.State()
	for i := uint32(0); i < capacity; i++ {
		lookup[state] = i
		state = l.Advance()
	}

	return Bitstream{
		size:      size,
		lookup:    lookup,
		window:    seed,
		validBits: uint32(size),
	}
}

// Position returns the decoded position and whether it is currently
// valid. It is valid once at least `size` consecutive bits have been
// pushed without a discontinuity.
func (b *Bitstream) Position() (uint32, bool) {
	if b.validBits < uint32(b.size) {
		return 0, false
	}
	return b.lookup[b.window], true
}

// State returns the raw rolling window, for tests and resync.
func (b *Bitstream) State() uint32 {
	return b.window
}

// SetState overwrites the rolling window and marks it immediately valid,
// for resyncing against a known-good state (e.g. during warm-up).
func (b *Bitstream) SetState(s uint32) {
	b.window = s & bitutil.Mask32(b.size)
	b.validBits = uint32(b.size)
}

// ProcessBit pushes a bit decoded while playing forwards. The bit enters
// at the MSB, matching the LFSR's own advance direction, so a correctly
// decoded forward bitstream always lands on the position following the
// one before it.
func (b *Bitstream) ProcessBit(bit bool) (uint32, bool) {
	prev, prevOK := b.Position()
	b.window = (boolBit(bit) << (b.size - 1)) | (b.window >> 1)

	if prevOK {
		if next, nextOK := b.lookupIfValid(); nextOK && next != prev+1 {
			b.validBits = 0
		}
	}
	b.validBits++

	return b.Position()
}

// ProcessBitBackward pushes a bit decoded while playing in reverse. The
// bit enters at the LSB, mirroring ProcessBit.
func (b *Bitstream) ProcessBitBackward(bit bool) (uint32, bool) {
	prev, prevOK := b.Position()
	b.window = ((b.window << 1) & bitutil.Mask32(b.size)) | boolBit(bit)

	if prevOK {
		if next, nextOK := b.lookupIfValid(); nextOK && prev != next+1 {
			b.validBits = 0
		}
	}
	b.validBits++

	return b.Position()
}

// lookupIfValid computes the position for the current window using the
// validBits count as it stood before this push's increment, matching the
// "old valid_bits" used by the discontinuity check in ProcessBit*.
func (b *Bitstream) lookupIfValid() (uint32, bool) {
	if b.validBits < uint32(b.size) {
		return 0, false
	}
	return b.lookup[b.window], true
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
