// Package wavio reads and writes the stereo 16-bit PCM WAV files used to
// store and play back timecode signals. No codec in the retrieved
// example pack covers WAV, so this package is the one place SPEC_FULL.md
// accepts a standard-library-only implementation; see DESIGN.md.
package wavio

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	bitsPerSample = 16
	numChannels   = 2
	bytesPerFrame = numChannels * bitsPerSample / 8
)

// Reader parses a RIFF/WAVE container and yields PCM16 stereo frames.
type Reader struct {
	r          io.Reader
	sampleRate uint32
}

// NewReader parses the RIFF header and the fmt chunk, validating that
// the stream is 16-bit stereo PCM, then positions r at the start of the
// data chunk.
func NewReader(r io.Reader) (*Reader, error) {
	var riffHeader [12]byte
	if _, err := io.ReadFull(r, riffHeader[:]); err != nil {
		return nil, fmt.Errorf("wavio: reading RIFF header: %w", err)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wavio: not a RIFF/WAVE stream")
	}

	var sampleRate uint32
	var sawFmt, sawData bool

	for !sawData {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			return nil, fmt.Errorf("wavio: reading chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wavio: reading fmt chunk: %w", err)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			channels := binary.LittleEndian.Uint16(body[2:4])
			sampleRate = binary.LittleEndian.Uint32(body[4:8])
			bits := binary.LittleEndian.Uint16(body[14:16])

			if format != 1 {
				return nil, fmt.Errorf("wavio: unsupported format tag %d, want PCM (1)", format)
			}
			if channels != numChannels {
				return nil, fmt.Errorf("wavio: unsupported channel count %d, want %d", channels, numChannels)
			}
			if bits != bitsPerSample {
				return nil, fmt.Errorf("wavio: unsupported bit depth %d, want %d", bits, bitsPerSample)
			}
			sawFmt = true
		case "data":
			if !sawFmt {
				return nil, fmt.Errorf("wavio: data chunk precedes fmt chunk")
			}
			sawData = true
		default:
			if _, err := io.CopyN(io.Discard, r, int64(chunkSize)); err != nil {
				return nil, fmt.Errorf("wavio: skipping chunk %q: %w", chunkID, err)
			}
			if chunkSize%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return nil, fmt.Errorf("wavio: skipping chunk %q pad byte: %w", chunkID, err)
				}
			}
		}
	}

	return &Reader{r: r, sampleRate: sampleRate}, nil
}

// SampleRate returns the sample rate declared in the fmt chunk.
func (rd *Reader) SampleRate() uint32 {
	return rd.sampleRate
}

// Next reads one stereo frame. ok is false at end of stream.
func (rd *Reader) Next() (left, right int16, ok bool) {
	var frame [bytesPerFrame]byte
	if _, err := io.ReadFull(rd.r, frame[:]); err != nil {
		return 0, 0, false
	}
	left = int16(binary.LittleEndian.Uint16(frame[0:2]))
	right = int16(binary.LittleEndian.Uint16(frame[2:4]))
	return left, right, true
}

// Writer writes a RIFF/WAVE PCM16 stereo stream, patching the RIFF and
// data chunk sizes on Close once the frame count is known.
type Writer struct {
	w           io.WriteSeeker
	sampleRate  uint32
	framesCount uint32
}

// NewWriter writes a placeholder RIFF/WAVE/fmt header at the current
// position of w and returns a Writer ready to accept frames.
func NewWriter(w io.WriteSeeker, sampleRateHz uint32) (*Writer, error) {
	byteRate := sampleRateHz * bytesPerFrame

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	// RIFF size patched in Close.
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], sampleRateHz)
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], bytesPerFrame)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	// data size patched in Close.

	if _, err := w.Write(header); err != nil {
		return nil, fmt.Errorf("wavio: writing header: %w", err)
	}

	return &Writer{w: w, sampleRate: sampleRateHz}, nil
}

// Write appends one stereo frame.
func (wr *Writer) Write(left, right int16) error {
	var frame [bytesPerFrame]byte
	binary.LittleEndian.PutUint16(frame[0:2], uint16(left))
	binary.LittleEndian.PutUint16(frame[2:4], uint16(right))
	if _, err := wr.w.Write(frame[:]); err != nil {
		return fmt.Errorf("wavio: writing frame: %w", err)
	}
	wr.framesCount++
	return nil
}

// Close patches the RIFF and data chunk sizes now that the frame count
// is known. It does not close the underlying writer.
func (wr *Writer) Close() error {
	dataSize := wr.framesCount * bytesPerFrame
	riffSize := 36 + dataSize

	if _, err := wr.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("wavio: seeking to RIFF size: %w", err)
	}
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], riffSize)
	if _, err := wr.w.Write(sizeBuf[:]); err != nil {
		return fmt.Errorf("wavio: patching RIFF size: %w", err)
	}

	if _, err := wr.w.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("wavio: seeking to data size: %w", err)
	}
	binary.LittleEndian.PutUint32(sizeBuf[:], dataSize)
	if _, err := wr.w.Write(sizeBuf[:]); err != nil {
		return fmt.Errorf("wavio: patching data size: %w", err)
	}

	return nil
}
