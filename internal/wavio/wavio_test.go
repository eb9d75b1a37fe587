package wavio

import (
	"bytes"
	"fmt"
	"io"
	"testing"
)

// memSeeker is a minimal in-memory io.WriteSeeker for testing, since
// bytes.Buffer alone does not implement Seek. Tests read the written
// bytes back through bytes.NewReader(buf).
type memSeeker struct {
	buf []byte
	pos int64
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("unsupported whence %d", whence)
	}
	return m.pos, nil
}

func TestWriterThenReaderRoundTrip(t *testing.T) {
	dst := &memSeeker{}
	w, err := NewWriter(dst, 44100)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	frames := [][2]int16{{100, -100}, {200, -200}, {0, 0}, {32767, -32768}}
	for _, f := range frames {
		if err := w.Write(f[0], f[1]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(bytes.NewReader(dst.buf))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.SampleRate() != 44100 {
		t.Fatalf("SampleRate() = %d, want 44100", r.SampleRate())
	}

	for i, want := range frames {
		left, right, ok := r.Next()
		if !ok {
			t.Fatalf("frame %d: Next() reported end of stream early", i)
		}
		if left != want[0] || right != want[1] {
			t.Fatalf("frame %d = (%d, %d), want (%d, %d)", i, left, right, want[0], want[1])
		}
	}

	if _, _, ok := r.Next(); ok {
		t.Fatal("expected end of stream after reading all frames")
	}
}

func TestNewReaderRejectsNonRIFF(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not a wav file at all....")))
	if err == nil {
		t.Fatal("expected an error for a non-RIFF stream")
	}
}

func TestNewReaderRejectsMonoFormat(t *testing.T) {
	dst := &memSeeker{}
	w, err := NewWriter(dst, 44100)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	w.Write(1, 2)
	w.Close()

	// Corrupt the channel count field (offset 22) to claim mono.
	dst.buf[22] = 1
	dst.buf[23] = 0

	if _, err := NewReader(bytes.NewReader(dst.buf)); err == nil {
		t.Fatal("expected an error for a mono fmt chunk")
	}
}
