// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc

import "code.hybscloud.com/atomix"

// Ring is a fixed-capacity single-producer single-consumer ring buffer.
//
// Based on Lamport's ring buffer with cached-opposing-index
// optimization: the producer caches the consumer's head so it rarely
// has to load the consumer's cache line, and vice versa. Unlike the
// copy-in-place Enqueue/Dequeue pair, Ring offers a zero-copy
// reserve/commit producer path and a matching
// readable/advance consumer path, plus batch consumption that
// publishes an entire visible run with a single atomic store.
//
// head and tail are unbounded 64-bit counters; indexing always masks
// with (capacity-1). Subtraction between them is wrapping, so
// occupancy (tail-head) stays correct across a 64-bit counter wrap.
//
// Exactly one producer goroutine may call Reserve/Commit/Send, and
// exactly one consumer goroutine may call Readable/Advance/
// ConsumeBatch/ConsumeUpTo/Recv. Ring does not enforce this at
// runtime; it is a documented contract only.
type Ring[T any] struct {
	_          pad
	head       atomix.Uint64 // consumer-owned: items consumed so far
	cachedTail uint64        // consumer's stale view of tail
	_          pad
	tail       atomix.Uint64 // producer-owned: items committed so far
	cachedHead uint64        // producer's stale view of head
	_          pad
	active     atomix.Bool
	closed     atomix.Bool
	metrics    ringMetrics
	_          pad
	buffer        []T
	mask          uint64
	ringBits      uint8
	enableMetrics bool
}

// NewRing creates a Ring with capacity 1<<ringBits. Panics if ringBits
// is 0 or greater than 62 (head/tail counter headroom).
func NewRing[T any](ringBits uint8, enableMetrics bool) *Ring[T] {
	if ringBits == 0 || ringBits > 62 {
		panic("ringmpsc: ring_bits must be in [1, 62]")
	}
	capacity := uint64(1) << ringBits
	return &Ring[T]{
		buffer:        make([]T, capacity),
		mask:          capacity - 1,
		ringBits:      ringBits,
		enableMetrics: enableMetrics,
	}
}

// Capacity returns the ring's fixed slot count, 1<<ringBits.
func (r *Ring[T]) Capacity() uint64 {
	return r.mask + 1
}

// Mask returns capacity-1, used to index head/tail into buffer.
func (r *Ring[T]) Mask() uint64 {
	return r.mask
}

// Len returns an advisory, non-synchronizing snapshot of occupancy.
func (r *Ring[T]) Len() uint64 {
	return r.tail.LoadRelaxed() - r.head.LoadRelaxed()
}

// IsEmpty is an advisory snapshot; real correctness comes from the
// reserve/commit and readable/advance protocols.
func (r *Ring[T]) IsEmpty() bool {
	return r.tail.LoadRelaxed() == r.head.LoadRelaxed()
}

// IsFull is an advisory snapshot.
func (r *Ring[T]) IsFull() bool {
	return r.Len() >= r.Capacity()
}

// IsClosed reports whether Close has been called. Once true, it never
// reverts.
func (r *Ring[T]) IsClosed() bool {
	return r.closed.LoadAcquire()
}

// Close marks the ring closed. Irrevocable. A closed ring may still
// hold un-drained items; the consumer should keep draining until
// IsEmpty() && IsClosed().
func (r *Ring[T]) Close() {
	r.closed.StoreRelease(true)
}

// Metrics returns a snapshot of the ring's relaxed-RMW counters. Zero
// when the ring was constructed with enableMetrics false.
func (r *Ring[T]) Metrics() RingMetrics {
	return r.metrics.snapshot()
}

// Reservation is a capability granting exclusive write access to a
// contiguous run of a Ring's buffer, returned by Reserve. Its
// lifetime must not outlive the producer's next Commit call on the
// same ring.
type Reservation[T any] struct {
	// View is the writable slice. len(View) may be less than the n
	// requested from Reserve when the reservation would otherwise
	// wrap past the physical end of the buffer — callers either use
	// what they got and Commit that many, or Commit and Reserve again
	// for the remainder.
	View []T
	// Pos is the logical tail position at the time of reservation.
	Pos uint64
}

// Reserve requests a contiguous writable region of up to n slots.
// Producer-only. Returns ErrNoCapacity if n is zero, exceeds Capacity,
// or the ring does not currently have n free slots.
//
// The returned View is clipped at the physical end of the backing
// array — it never wraps mid-reservation — so it may be shorter than
// n even when the ring has enough total free space; issue a second
// Reserve after Commit to pick up the rest.
func (r *Ring[T]) Reserve(n uint64) (Reservation[T], error) {
	capacity := r.Capacity()
	if n == 0 || n > capacity {
		return Reservation[T]{}, ErrNoCapacity
	}

	tail := r.tail.LoadRelaxed()
	space := r.freeSpace(tail, r.cachedHead, capacity)
	if space < n {
		r.cachedHead = r.head.LoadAcquire()
		space = r.freeSpace(tail, r.cachedHead, capacity)
		if space < n {
			return Reservation[T]{}, ErrNoCapacity
		}
	}

	start := tail & r.mask
	length := n
	if toEnd := capacity - start; toEnd < length {
		length = toEnd
	}
	return Reservation[T]{View: r.buffer[start : start+length], Pos: tail}, nil
}

// freeSpace computes capacity-(tail-head), saturating at 0: if
// tail-head (wrapping) is already >= capacity the ring reports no
// free space instead of underflowing.
func (r *Ring[T]) freeSpace(tail, head, capacity uint64) uint64 {
	occupied := tail - head
	if occupied >= capacity {
		return 0
	}
	return capacity - occupied
}

// ReserveWithBackoff retries Reserve(n), spinning/yielding via a
// fresh Backoff between attempts. It fails fast with ErrClosed as
// soon as the ring is observed closed, and gives up with
// ErrBackoffExhausted once the backoff completes without success.
func (r *Ring[T]) ReserveWithBackoff(n uint64) (Reservation[T], error) {
	var b Backoff
	for {
		res, err := r.Reserve(n)
		if err == nil {
			return res, nil
		}
		if r.IsClosed() {
			return Reservation[T]{}, ErrClosed
		}
		if b.IsCompleted() {
			return Reservation[T]{}, ErrBackoffExhausted
		}
		b.Snooze()
	}
}

// Commit publishes the first n slots of the most recent Reservation.
// n must not exceed that reservation's length; over-committing or
// double-committing is caller error and is not checked on this path.
func (r *Ring[T]) Commit(n uint64) {
	tail := r.tail.LoadRelaxed()
	r.tail.StoreRelease(tail + n)
	r.metrics.recordSend(n, r.enableMetrics)
}

// Send is a convenience producer path: one Reserve sized to len(items),
// copying min(len(items), reservation length) elements in and
// committing that many. Returns the copied count.
func (r *Ring[T]) Send(items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res, err := r.Reserve(uint64(len(items)))
	if err != nil {
		return 0, err
	}
	n := copy(res.View, items)
	r.Commit(uint64(n))
	return n, nil
}

// Readable requests a zero-copy view of currently available items.
// Consumer-only. Returns (nil, false) when the ring is empty at the
// time of the call; there is nothing exceptional about that — the
// caller simply has nothing to read yet.
//
// The returned slice is clipped at the physical end of the buffer and
// may therefore be shorter than the full occupancy; a second Readable
// after Advance picks up the rest.
func (r *Ring[T]) Readable() ([]T, bool) {
	head := r.head.LoadRelaxed()
	// ConsumeBatch and ConsumeUpTo advance head without touching
	// cachedTail; a cachedTail behind head wraps to more than capacity
	// and is refreshed just like an empty one.
	avail := r.cachedTail - head
	if avail == 0 || avail > r.Capacity() {
		r.cachedTail = r.tail.LoadAcquire()
		avail = r.cachedTail - head
		if avail == 0 {
			return nil, false
		}
	}

	start := head & r.mask
	length := avail
	if toEnd := r.Capacity() - start; toEnd < length {
		length = toEnd
	}
	return r.buffer[start : start+length], true
}

// Advance releases n consumed slots, making them reusable by the
// producer. n must not exceed the length of the last Readable view.
func (r *Ring[T]) Advance(n uint64) {
	head := r.head.LoadRelaxed()
	r.head.StoreRelease(head + n)
}

// ConsumeBatch drains every item currently visible to the consumer,
// invoking handler once per item in FIFO order, then publishes the
// whole batch with a single release-store on head. Returns the number
// of items visited (0 if the ring was empty).
//
// Amortizing one release-store (and the resulting cache-line
// invalidation of the producer's cachedHead) over a large batch is
// the single biggest throughput lever in the ring: ConsumeBatch is
// observationally equivalent to looping Readable/Advance(1) except
// for how many atomic stores to head it performs.
func (r *Ring[T]) ConsumeBatch(handler func(*T)) uint64 {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	if tail == head {
		return 0
	}
	for p := head; p != tail; p++ {
		handler(&r.buffer[p&r.mask])
	}
	r.head.StoreRelease(tail)
	count := tail - head
	r.metrics.recordReceive(count, r.enableMetrics)
	return count
}

// ConsumeUpTo behaves like ConsumeBatch but visits at most max items,
// publishing head+count at the end. A later call picks up where this
// one left off.
func (r *Ring[T]) ConsumeUpTo(max uint64, handler func(*T)) uint64 {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	avail := tail - head
	if avail == 0 {
		return 0
	}
	count := avail
	if count > max {
		count = max
	}
	end := head + count
	for p := head; p != end; p++ {
		handler(&r.buffer[p&r.mask])
	}
	r.head.StoreRelease(end)
	r.metrics.recordReceive(count, r.enableMetrics)
	return count
}

// Recv is a non-batched convenience consumer path: one Readable,
// copying into out, then Advance by the copied count. Returns the
// copied count.
func (r *Ring[T]) Recv(out []T) int {
	if len(out) == 0 {
		return 0
	}
	view, ok := r.Readable()
	if !ok {
		return 0
	}
	n := copy(out, view)
	r.Advance(uint64(n))
	return n
}

// isActive reports whether a producer is currently bound to this ring.
func (r *Ring[T]) isActive() bool {
	return r.active.LoadAcquire()
}

// bind marks the ring as having a producer bound to it. Called once,
// by Channel.Register.
func (r *Ring[T]) bind() {
	r.active.StoreRelease(true)
}
