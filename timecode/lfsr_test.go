package timecode

import "testing"

// maximumLengthTaps lists one primitive tap polynomial per width from 2 to
// 12, used to check full-period coverage and invertibility.
var maximumLengthTaps = map[uint8]uint32{
	2:  0b11,
	3:  0b101,
	4:  0b1001,
	5:  0b00101,
	6:  0b000011,
	7:  0b0000011,
	8:  0b00011101,
	9:  0b000010001,
	10: 0b0000001001,
	11: 0b00000000101,
	12: 0b000001010011,
}

func TestLFSRVisitsFullPeriod(t *testing.T) {
	for size, taps := range maximumLengthTaps {
		period := int(1)<<size - 1
		seed := uint32(1)

		seen := make(map[uint32]bool, period)
		l := NewLFSR(size, seed, taps)
		for i := 0; i < period; i++ {
			s := l.Advance()
			if s == 0 {
				t.Fatalf("size %d: LFSR reached the all-zero state after %d steps", size, i)
			}
			if seen[s] {
				t.Fatalf("size %d: state %#x repeated after %d steps, before completing the %d-state period", size, s, i, period)
			}
			seen[s] = true
		}

		if l.State() != seed {
			t.Fatalf("size %d: LFSR did not return to seed %#x after %d steps, got %#x", size, seed, period, l.State())
		}
		if len(seen) != period {
			t.Fatalf("size %d: visited %d distinct states, want %d", size, len(seen), period)
		}
	}
}

func TestLFSRRevertInvertsAdvance(t *testing.T) {
	for size, taps := range maximumLengthTaps {
		l := NewLFSR(size, 1, taps)
		var states []uint32
		states = append(states, l.State())
		for i := 0; i < 50 && i < (1<<size)-1; i++ {
			states = append(states, l.Advance())
		}

		for i := len(states) - 1; i > 0; i-- {
			got := l.Revert()
			want := states[i-1]
			if got != want {
				t.Fatalf("size %d: Revert at step %d = %#x, want %#x", size, i, got, want)
			}
		}
	}
}

func TestLFSRScenario5Bit(t *testing.T) {
	l := NewLFSR(5, 0b10101, 0b00101)

	var forward []uint32
	cur := l
	forward = append(forward, cur.State())
	for i := 0; i < 31; i++ {
		forward = append(forward, cur.Advance())
	}

	if forward[1] != 0b01010 {
		t.Fatalf("first advance = %#05b, want %#05b", forward[1], 0b01010)
	}
	if forward[2] != 0b00101 {
		t.Fatalf("second advance = %#05b, want %#05b", forward[2], 0b00101)
	}
	if cur.State() != 0b10101 {
		t.Fatalf("after 31 advances, state = %#05b, want seed %#05b", cur.State(), 0b10101)
	}

	seen := make(map[uint32]bool)
	for _, s := range forward[1:] {
		seen[s] = true
	}
	if len(seen) != 31 {
		t.Fatalf("visited %d distinct nonzero states, want 31", len(seen))
	}

	for i := len(forward) - 1; i > 0; i-- {
		got := cur.Revert()
		want := forward[i-1]
		if got != want {
			t.Fatalf("revert at step %d = %#05b, want %#05b", i, got, want)
		}
	}
}
