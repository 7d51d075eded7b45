// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc

import "errors"

// ErrNoCapacity indicates a reserve failed because the ring is full,
// or because the requested length was zero or exceeded capacity.
//
// ErrNoCapacity is a control flow signal, not a failure. The caller
// should retry later (with Backoff) or give up.
var ErrNoCapacity = errors.New("ringmpsc: no capacity")

// ErrClosed indicates Register was called on an already-closed
// Channel, or that ReserveWithBackoff found its Ring closed after a
// failed Reserve. Permanent for that channel or ring.
var ErrClosed = errors.New("ringmpsc: channel closed")

// ErrTooManyProducers indicates Register was called past the
// channel's max producer count. Permanent for that channel.
var ErrTooManyProducers = errors.New("ringmpsc: too many producers")

// ErrBackoffExhausted indicates ReserveWithBackoff gave up after its
// Backoff reported IsCompleted. Equivalent to ErrNoCapacity with the
// added hint that the consumer has been lagging for a sustained
// period rather than a single contended instant.
var ErrBackoffExhausted = errors.New("ringmpsc: backoff exhausted")

// IsWouldBlock reports whether err is one of the transient "try
// later" kinds: ErrNoCapacity or ErrBackoffExhausted.
//
// Example:
//
//	var b Backoff
//	for {
//	    _, err := ring.Reserve(1)
//	    if err == nil {
//	        b.Reset()
//	        break
//	    }
//	    if !IsWouldBlock(err) {
//	        return err
//	    }
//	    b.Snooze()
//	}
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrNoCapacity) || errors.Is(err, ErrBackoffExhausted)
}

// IsClosed reports whether err is ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsTooManyProducers reports whether err is ErrTooManyProducers.
func IsTooManyProducers(err error) bool {
	return errors.Is(err, ErrTooManyProducers)
}
