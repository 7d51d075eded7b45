// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc

import "code.hybscloud.com/atomix"

// Channel is a ring-decomposed multi-producer single-consumer queue:
// a fixed array of independent Ring buffers, one dedicated to each
// registered producer, drained by a single consumer.
//
// Rather than arbitrating producers against a shared FAA tail, Channel
// eliminates producer-producer contention by construction — each
// producer writes to its own Ring with no cross-producer coordination
// on the hot path. The cost is O(producer_count) drain work and no
// ordering guarantee between producers' streams (each producer's own
// stream stays FIFO); that trade is acceptable because a single
// consumer thread drains every ring in microseconds.
type Channel[T any] struct {
	_             pad
	producerCount atomix.Uint64
	_             pad
	closed        atomix.Bool
	_             pad
	rings         []*Ring[T]
	maxProducers  int
	ringBits      uint8
	enableMetrics bool
}

// NewChannel creates a Channel with maxProducers rings, each of
// capacity 1<<ringBits. The rings are allocated up front — Channel
// never grows or shrinks its ring array after construction.
func NewChannel[T any](ringBits uint8, maxProducers int, enableMetrics bool) *Channel[T] {
	return newChannel[T](Options{ringBits: ringBits, maxProducers: maxProducers, enableMetrics: enableMetrics})
}

func newChannel[T any](opts Options) *Channel[T] {
	ringBits := opts.ringBits
	if ringBits == 0 {
		ringBits = DefaultRingBits
	}
	maxProducers := opts.maxProducers
	if maxProducers == 0 {
		maxProducers = DefaultMaxProducers
	}
	rings := make([]*Ring[T], maxProducers)
	for i := range rings {
		rings[i] = NewRing[T](ringBits, opts.enableMetrics)
	}
	return &Channel[T]{
		rings:         rings,
		maxProducers:  maxProducers,
		ringBits:      ringBits,
		enableMetrics: opts.enableMetrics,
	}
}

// ProducerHandle is a stable reference to one producer's bound Ring,
// obtained from Channel.Register. Its operations forward directly to
// that ring; a handle's producer is the only goroutine that should
// ever call them.
type ProducerHandle[T any] struct {
	ring *Ring[T]
	id   int
}

// ID returns the handle's registration index — the slot it occupies
// in the channel's ring array, and the order ConsumeAll visits it in
// relative to other producers.
func (h *ProducerHandle[T]) ID() int {
	return h.id
}

// Reserve forwards to the bound ring's Reserve.
func (h *ProducerHandle[T]) Reserve(n uint64) (Reservation[T], error) {
	return h.ring.Reserve(n)
}

// ReserveWithBackoff forwards to the bound ring's ReserveWithBackoff.
func (h *ProducerHandle[T]) ReserveWithBackoff(n uint64) (Reservation[T], error) {
	return h.ring.ReserveWithBackoff(n)
}

// Commit forwards to the bound ring's Commit.
func (h *ProducerHandle[T]) Commit(n uint64) {
	h.ring.Commit(n)
}

// Send forwards to the bound ring's Send.
func (h *ProducerHandle[T]) Send(items []T) (int, error) {
	return h.ring.Send(items)
}

// Register binds a new producer to the next free ring and returns a
// handle to it. Fails with ErrClosed if the channel is already
// closed, or ErrTooManyProducers once maxProducers handles have been
// issued.
//
// Register may be called concurrently with ConsumeAll: producerCount
// is atomic, so a producer registered mid-sweep is simply picked up
// on the channel's next ConsumeAll/ConsumeAllUpTo/Recv call rather
// than the one in flight. No additional synchronization is needed for
// that to be safe — it is documented behavior, not a race.
func (c *Channel[T]) Register() (*ProducerHandle[T], error) {
	if c.closed.LoadAcquire() {
		return nil, ErrClosed
	}

	prev := c.producerCount.AddAcqRel(1) - 1
	if prev >= uint64(c.maxProducers) {
		c.producerCount.AddAcqRel(^uint64(0)) // roll back the reservation
		return nil, ErrTooManyProducers
	}

	ring := c.rings[prev]
	ring.bind()
	return &ProducerHandle[T]{ring: ring, id: int(prev)}, nil
}

// ConsumeAll drains every currently-active ring once, in registration
// order, via ConsumeBatch. Returns the total items visited across all
// rings.
func (c *Channel[T]) ConsumeAll(handler func(*T)) uint64 {
	var total uint64
	n := c.producerCount.LoadAcquire()
	for i := uint64(0); i < n; i++ {
		total += c.rings[i].ConsumeBatch(handler)
	}
	return total
}

// ConsumeAllUpTo drains active rings in registration order with a
// shared budget of maxTotal items; lower-id rings are served first.
// Stops once the budget is exhausted or every ring has been visited.
func (c *Channel[T]) ConsumeAllUpTo(maxTotal uint64, handler func(*T)) uint64 {
	var total uint64
	budget := maxTotal
	n := c.producerCount.LoadAcquire()
	for i := uint64(0); i < n && budget > 0; i++ {
		got := c.rings[i].ConsumeUpTo(budget, handler)
		total += got
		budget -= got
	}
	return total
}

// Recv is the non-batched fallback drain: it fills out by calling
// each active ring's Recv in registration order until out is full or
// every ring has been visited. Returns the total items copied.
func (c *Channel[T]) Recv(out []T) int {
	total := 0
	n := c.producerCount.LoadAcquire()
	for i := uint64(0); i < n && total < len(out); i++ {
		total += c.rings[i].Recv(out[total:])
	}
	return total
}

// Close marks the channel closed, then closes every active ring.
// Idempotent: calling Close repeatedly has the same effect as calling
// it once, since the underlying flags never revert.
func (c *Channel[T]) Close() {
	c.closed.StoreRelease(true)
	n := c.producerCount.LoadAcquire()
	for i := uint64(0); i < n; i++ {
		c.rings[i].Close()
	}
}

// Drain is a hint that no further producers will register and no
// further sends will occur, letting a consumer finish draining
// without worrying about new writes. Ring carries no
// livelock-prevention threshold for Drain to skip, so Drain is
// equivalent to Close here; it exists as a named operation for
// callers migrating from Drainer-based queue APIs.
func (c *Channel[T]) Drain() {
	c.Close()
}

// ProducerCount returns the number of producers registered so far.
func (c *Channel[T]) ProducerCount() int {
	return int(c.producerCount.LoadAcquire())
}

// MaxProducers returns the channel's fixed producer capacity.
func (c *Channel[T]) MaxProducers() int {
	return c.maxProducers
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	return c.closed.LoadAcquire()
}

// Metrics returns a snapshot of every registered ring's counters plus
// their aggregate total, in registration order.
func (c *Channel[T]) Metrics() ChannelMetrics {
	n := c.producerCount.LoadAcquire()
	rings := make([]RingMetrics, n)
	var total RingMetrics
	for i := uint64(0); i < n; i++ {
		m := c.rings[i].Metrics()
		rings[i] = m
		total.MessagesSent += m.MessagesSent
		total.MessagesReceived += m.MessagesReceived
		total.BatchesSent += m.BatchesSent
		total.BatchesReceived += m.BatchesReceived
	}
	return ChannelMetrics{Rings: rings, Total: total}
}
