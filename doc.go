// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringmpsc provides a lock-free, ring-decomposed
// multi-producer single-consumer message queue.
//
// Rather than arbitrating every producer against one shared tail, a
// Channel hands each registered producer its own dedicated Ring — a
// single-producer single-consumer buffer — and a single consumer
// drains them in registration order. Producer-producer contention is
// eliminated by construction instead of resolved with CAS retries.
//
// # Quick Start
//
//	ch := ringmpsc.NewChannel[Event](ringmpsc.DefaultRingBits, ringmpsc.DefaultMaxProducers, false)
//
//	producer, err := ch.Register()
//	if err != nil {
//	    // ErrClosed or ErrTooManyProducers
//	}
//
//	ev := Event{ID: 1}
//	if _, err := producer.Send([]Event{ev}); ringmpsc.IsWouldBlock(err) {
//	    // ring full — retry later
//	}
//
//	n := ch.ConsumeAll(func(e *Event) {
//	    process(*e)
//	})
//
// Presets mirror the three construction parameters in this package's
// external interface — ring_bits, max_producers, enable_metrics:
//
//	ch := ringmpsc.Build[Event](ringmpsc.LowLatency())                    // 4K slots/ring, 16 producers
//	ch := ringmpsc.Build[Event](ringmpsc.HighThroughput().EnableMetrics()) // 256K slots/ring, 32 producers
//
// # Zero-copy producer path
//
// Reserve/Commit avoids the copy Send performs when the caller can
// write values directly into the ring's backing array:
//
//	res, err := producer.Reserve(4)
//	if err != nil {
//	    // ErrNoCapacity: ring full
//	}
//	for i := range res.View {
//	    res.View[i] = Event{ID: i}
//	}
//	producer.Commit(uint64(len(res.View)))
//
// res.View may be shorter than requested when the reservation would
// wrap past the physical end of the ring's buffer; commit what you
// got and Reserve again for the remainder.
//
// # Bounded backoff on the producer side
//
// ReserveWithBackoff spins, then yields, then gives up, mirroring the
// Backoff state machine used internally:
//
//	res, err := producer.ReserveWithBackoff(1)
//	switch {
//	case err == nil:
//	    // use res.View, then producer.Commit(...)
//	case ringmpsc.IsClosed(err):
//	    return // channel closed, stop producing
//	default:
//	    // ErrBackoffExhausted — consumer has been lagging
//	}
//
// # Pipeline stage (single producer/consumer, bypassing Channel)
//
// A bare Ring is useful on its own wherever a Channel's multi-producer
// bookkeeping isn't needed:
//
//	stage := ringmpsc.NewRing[Data](ringmpsc.DefaultRingBits, false)
//
//	go func() { // producer
//	    var b ringmpsc.Backoff
//	    for data := range input {
//	        for {
//	            if _, err := stage.Send([]Data{data}); err == nil {
//	                b.Reset()
//	                break
//	            }
//	            b.Snooze()
//	        }
//	    }
//	    stage.Close()
//	}()
//
//	go func() { // consumer
//	    var b ringmpsc.Backoff
//	    for !stage.IsClosed() || !stage.IsEmpty() {
//	        if stage.ConsumeBatch(func(d *Data) { process(*d) }) == 0 {
//	            b.Snooze()
//	            continue
//	        }
//	        b.Reset()
//	    }
//	}()
//
// # Scope
//
// The core performs no logging, retries, allocation, or blocking
// syscalls on the hot path; errors are always returned, never
// panicked or logged. Multi-consumer fan-out, dynamic ring resizing,
// a dynamic producer count, cross-process operation, and
// cross-producer ordering are explicitly out of scope and not
// addressed by this package.
package ringmpsc
