package bitutil

import "testing"

func TestMask32(t *testing.T) {
	tests := []struct {
		n        uint8
		expected uint32
	}{
		{0, 0x0},
		{1, 0x1},
		{5, 0x1F},
		{8, 0xFF},
		{20, 0xFFFFF},
		{32, 0xFFFFFFFF},
		{40, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		result := Mask32(tt.n)
		if result != tt.expected {
			t.Errorf("Mask32(%d) = %#x; want %#x", tt.n, result, tt.expected)
		}
	}
}

func TestPopCountParity32(t *testing.T) {
	tests := []struct {
		v        uint32
		expected uint32
	}{
		{0b0000, 0},
		{0b0001, 1},
		{0b0011, 0},
		{0b0111, 1},
		{0b1111, 0},
		{0x34D55, 0}, // canonical Serato taps, even bit count (10)
	}

	for _, tt := range tests {
		result := PopCountParity32(tt.v)
		if result != tt.expected {
			t.Errorf("PopCountParity32(%#b) = %d; want %d", tt.v, result, tt.expected)
		}
	}
}

func TestRotateRight32(t *testing.T) {
	tests := []struct {
		v        uint32
		n        uint8
		expected uint32
	}{
		{0b00101, 5, 0b10010},
		{0b00001, 5, 0b10000},
		{0b10000, 5, 0b01000},
		{0b1, 1, 0b1},
		{0b10, 2, 0b01},
	}

	for _, tt := range tests {
		result := RotateRight32(tt.v, tt.n)
		if result != tt.expected {
			t.Errorf("RotateRight32(%#05b, %d) = %#05b; want %#05b", tt.v, tt.n, result, tt.expected)
		}
	}
}

func TestAbs32(t *testing.T) {
	tests := []struct {
		v, expected int32
	}{
		{5, 5},
		{-5, 5},
		{0, 0},
		{-1, 1},
	}

	for _, tt := range tests {
		result := Abs32(tt.v)
		if result != tt.expected {
			t.Errorf("Abs32(%d) = %d; want %d", tt.v, result, tt.expected)
		}
	}
}
