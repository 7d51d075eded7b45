// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc

// Preset ring-bits/max-producers profiles.
const (
	// LowLatencyRingBits keeps the ring L1-resident (4K slots).
	LowLatencyRingBits = 12
	// DefaultRingBits is the general-purpose profile (64K slots).
	DefaultRingBits = 16
	// HighThroughputRingBits trades memory for fewer cache refreshes
	// on the slow path (256K slots).
	HighThroughputRingBits = 18

	// DefaultMaxProducers is the general-purpose producer cap.
	DefaultMaxProducers = 16
	// HighThroughputMaxProducers is the high-throughput producer cap.
	HighThroughputMaxProducers = 32
)

// Options configures Channel construction.
type Options struct {
	ringBits      uint8
	maxProducers  int
	enableMetrics bool
}

// Builder creates a Channel with fluent configuration.
//
// Builder mirrors the three construction parameters this package
// exposes: ring_bits, max_producers and enable_metrics. Named presets
// are provided as plain functions
// (LowLatency, Default, HighThroughput) rather than builder methods,
// since they set two fields (ring bits and producer cap) together.
//
// Example:
//
//	ch := ringmpsc.Build[Event](ringmpsc.HighThroughput().EnableMetrics())
//	ch := ringmpsc.Build[Event](ringmpsc.New().RingBits(ringmpsc.LowLatencyRingBits))
type Builder struct {
	opts Options
}

// New creates a Builder preconfigured with the default profile:
// DefaultRingBits slots, DefaultMaxProducers producers, metrics off.
func New() *Builder {
	return &Builder{opts: Options{
		ringBits:     DefaultRingBits,
		maxProducers: DefaultMaxProducers,
	}}
}

// Default creates a Builder preconfigured for the default preset:
// DefaultRingBits slots, DefaultMaxProducers producers. Same as New.
func Default() *Builder {
	return New()
}

// LowLatency creates a Builder preconfigured for the low_latency
// preset: LowLatencyRingBits slots, DefaultMaxProducers producers.
func LowLatency() *Builder {
	return &Builder{opts: Options{
		ringBits:     LowLatencyRingBits,
		maxProducers: DefaultMaxProducers,
	}}
}

// HighThroughput creates a Builder preconfigured for the
// high_throughput preset: HighThroughputRingBits slots,
// HighThroughputMaxProducers producers.
func HighThroughput() *Builder {
	return &Builder{opts: Options{
		ringBits:     HighThroughputRingBits,
		maxProducers: HighThroughputMaxProducers,
	}}
}

// RingBits overrides the log2 ring capacity. Panics if bits is 0 or
// would overflow a 64-bit counter's addressable range (bits > 62).
func (b *Builder) RingBits(bits uint8) *Builder {
	if bits == 0 || bits > 62 {
		panic("ringmpsc: ring_bits must be in [1, 62]")
	}
	b.opts.ringBits = bits
	return b
}

// MaxProducers overrides the per-channel producer cap. Panics if n < 1.
func (b *Builder) MaxProducers(n int) *Builder {
	if n < 1 {
		panic("ringmpsc: max_producers must be >= 1")
	}
	b.opts.maxProducers = n
	return b
}

// EnableMetrics turns on the relaxed-RMW message/batch counters on
// every ring the resulting Channel owns.
func (b *Builder) EnableMetrics() *Builder {
	b.opts.enableMetrics = true
	return b
}

// Build constructs a Channel[T] from the builder's configuration.
func Build[T any](b *Builder) *Channel[T] {
	return newChannel[T](b.opts)
}

// pad is cache-line-pair padding. 128-byte isolation is required
// between the producer-owned (tail, cachedHead) region and
// the consumer-owned (head, cachedTail) region — wider than a single
// 64-byte cache line — to defeat adjacent-line hardware prefetchers
// that would otherwise drag one side's line into the other's cache.
type pad [128]byte
