// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc

import (
	"runtime"

	"code.hybscloud.com/spin"
)

// spinLimit bounds the busy-spinning phase of Backoff.
// yieldLimit bounds the OS-yield phase that follows it.
const (
	spinLimit  = 6
	yieldLimit = 10
)

// Backoff is a two-phase spin/yield cursor for callers contending on a
// full or empty Ring.
//
// Steps 0 through spinLimit busy-spin with a doubling run of CPU pause
// hints, covering the short windows where the producer is briefly ahead
// of the consumer (or vice versa). Once that window has clearly passed,
// Backoff switches to yielding the thread to the OS scheduler so it
// doesn't burn CPU while the other side is genuinely slow. Past
// yieldLimit, IsCompleted reports true and the caller decides whether
// to retry, close, or give up — Backoff never blocks on its own.
//
// Backoff holds no atomics and does no I/O; it is safe to keep one
// per goroutine and Reset it between waits.
type Backoff struct {
	step int
}

// Spin executes 1<<min(step, spinLimit) CPU pause hints and advances
// step while still within the spin phase.
func (b *Backoff) Spin() {
	n := 1 << min(b.step, spinLimit)
	sw := spin.Wait{}
	for i := 0; i < n; i++ {
		sw.Once()
	}
	if b.step <= spinLimit {
		b.step++
	}
}

// Snooze behaves like Spin while step is within the spin phase;
// beyond it, Snooze yields the thread to the OS scheduler instead and
// advances step while still within the yield phase.
func (b *Backoff) Snooze() {
	if b.step <= spinLimit {
		b.Spin()
		return
	}
	runtime.Gosched()
	if b.step <= yieldLimit {
		b.step++
	}
}

// IsCompleted reports whether the backoff has exhausted both the spin
// and yield phases. Callers typically stop retrying once this is true.
func (b *Backoff) IsCompleted() bool {
	return b.step > yieldLimit
}

// Reset returns the cursor to its initial state for reuse.
func (b *Backoff) Reset() {
	b.step = 0
}
