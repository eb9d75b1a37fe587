// Package main, built with `go build -buildmode=c-shared`, exports a
// small C ABI around the timecode decoder for embedding into DVS host
// applications written in C or C++. Go values are never passed across
// the boundary directly — cgo's pointer-passing rules forbid a C caller
// from holding a Go pointer, so each decoder lives in a package-level
// handle table and callers deal only in opaque integer handles.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"log/slog"
	"sync"

	"github.com/dvstimecode/timecode"
)

var (
	handlesMu sync.Mutex
	handles   = make(map[C.uint64_t]*timecode.Timecode)
	nextID    C.uint64_t
)

func register(t *timecode.Timecode) C.uint64_t {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	nextID++
	id := nextID
	handles[id] = t
	return id
}

func lookup(handle C.uint64_t) *timecode.Timecode {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return handles[handle]
}

func release(handle C.uint64_t) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, handle)
}

// timecode_new constructs a decoder for the given format and returns an
// opaque, nonzero handle. It returns 0 if the format is invalid.
//
//export timecode_new
func timecode_new(sizeBits C.uint8_t, seed, taps C.uint32_t, signalFreqHz, sampleRateHz C.double) C.uint64_t {
	format := timecode.TimecodeFormat{
		Size:              uint8(sizeBits),
		Seed:              uint32(seed),
		Taps:              uint32(taps),
		SignalFrequencyHz: float64(signalFreqHz),
	}

	t, err := timecode.New(format, float64(sampleRateHz))
	if err != nil {
		slog.Error("ffi: timecode_new failed", "error", err)
		return 0
	}

	return register(t)
}

// timecode_process feeds one stereo sample pair through the decoder
// named by handle. It returns the decoded position as a non-negative
// int64, or -1 if no bit event occurred this sample, the bit event had
// no valid position (the bitstream is re-locking), or handle is unknown.
//
//export timecode_process
func timecode_process(handle C.uint64_t, left, right C.int16_t) C.int64_t {
	t := lookup(handle)
	if t == nil {
		return -1
	}

	ev, ok := t.ProcessChannels(int16(left), int16(right))
	if !ok || !ev.HasPosition {
		return -1
	}
	return C.int64_t(ev.Position)
}

// timecode_pitch returns the latest pitch estimate for handle, or 0 if
// handle is unknown.
//
//export timecode_pitch
func timecode_pitch(handle C.uint64_t) C.double {
	t := lookup(handle)
	if t == nil {
		return 0
	}
	return C.double(t.Pitch())
}

// timecode_free releases the decoder named by handle. Callers own the
// handle returned by timecode_new and must free it exactly once.
//
//export timecode_free
func timecode_free(handle C.uint64_t) {
	release(handle)
}

func main() {}
