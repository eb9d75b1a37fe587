// Package pacing throttles sample-block production to real time, the way
// a live "decode --scope" run needs to stay in lockstep with a human
// watching the goniometer, without affecting an offline batch run such
// as "generate" writing straight to a WAV file.
package pacing

import (
	"log/slog"
	"time"
)

// Limiter paces successive blocks of samples.
type Limiter interface {
	// WaitForNextBlock blocks until the next block is due, or returns
	// immediately if timing has fallen behind.
	WaitForNextBlock()
	// Reset clears accumulated drift, for use after a pause.
	Reset()
}

// NewNoOpLimiter returns a Limiter that never waits, for offline
// (file-to-file) runs where pacing to real time would only slow things
// down.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextBlock() {}
func (noOpLimiter) Reset()            {}

// BlockDuration returns the wall-clock time a block of blockSamples
// frames represents at sampleRateHz.
func BlockDuration(blockSamples int, sampleRateHz float64) time.Duration {
	return time.Duration(float64(blockSamples) / sampleRateHz * float64(time.Second))
}

// AdaptiveLimiter paces blocks to a target duration using sleep for the
// bulk of the wait and a short busy-wait for the final slice, with
// periodic drift correction against the wall clock.
type AdaptiveLimiter struct {
	targetBlockTime time.Duration
	nextBlockTime   time.Time
	blockCounter    int64
}

// NewAdaptiveLimiter builds a limiter that paces blocks to targetBlockTime.
func NewAdaptiveLimiter(targetBlockTime time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetBlockTime: targetBlockTime,
		nextBlockTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextBlock() {
	now := time.Now()
	sleepTime := a.nextBlockTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextBlockTime) {
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextBlockTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextBlockTime = now
	}

	a.nextBlockTime = a.nextBlockTime.Add(a.targetBlockTime)
	a.blockCounter++

	if a.blockCounter%100 == 0 {
		drift := time.Now().Sub(a.nextBlockTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextBlockTime = a.nextBlockTime.Add(drift / 10)
			slog.Debug("block timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"blocks", a.blockCounter)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextBlockTime = time.Now()
	a.blockCounter = 0
}
