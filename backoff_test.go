// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc_test

import (
	"testing"

	"github.com/Arcxelys/ringmpsc"
)

// TestBackoffNotCompletedInitially verifies a fresh Backoff hasn't
// given up.
func TestBackoffNotCompletedInitially(t *testing.T) {
	var b ringmpsc.Backoff
	if b.IsCompleted() {
		t.Fatal("fresh Backoff reports completed")
	}
}

// TestBackoffSnoozeCompletesDeterministically verifies the spin phase
// (spinLimit=6) followed by the yield phase (yieldLimit=10) exhausts
// after exactly 11 Snooze calls: one step increment per call, from 0
// to 11, at which point step > yieldLimit.
func TestBackoffSnoozeCompletesDeterministically(t *testing.T) {
	var b ringmpsc.Backoff
	calls := 0
	for !b.IsCompleted() {
		if calls > 100 {
			t.Fatal("backoff never completed")
		}
		b.Snooze()
		calls++
	}
	if calls != 11 {
		t.Fatalf("Snooze calls to completion: got %d, want 11", calls)
	}
}

// TestBackoffSpinAlone verifies Spin alone never completes the
// backoff — only Snooze's yield phase does, since Spin always takes
// the spin branch regardless of how many times it's called.
func TestBackoffSpinAlone(t *testing.T) {
	var b ringmpsc.Backoff
	for range 1000 {
		b.Spin()
	}
	if b.IsCompleted() {
		t.Fatal("Spin alone should never complete the backoff")
	}
}

// TestBackoffReset verifies Reset returns the cursor to its initial
// state so it can be reused across independent wait episodes.
func TestBackoffReset(t *testing.T) {
	var b ringmpsc.Backoff
	for !b.IsCompleted() {
		b.Snooze()
	}
	b.Reset()
	if b.IsCompleted() {
		t.Fatal("Backoff still reports completed after Reset")
	}

	calls := 0
	for !b.IsCompleted() {
		b.Snooze()
		calls++
	}
	if calls != 11 {
		t.Fatalf("Snooze calls to completion after Reset: got %d, want 11", calls)
	}
}
