// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringmpsc

import "code.hybscloud.com/atomix"

// RingMetrics is a point-in-time snapshot of a Ring's counters.
//
// Values are read with relaxed loads and are therefore consistent
// only at quiescence (no concurrent Commit or consume in
// flight). Zero when the Ring was constructed with metrics disabled.
type RingMetrics struct {
	MessagesSent     uint64
	MessagesReceived uint64
	BatchesSent      uint64
	BatchesReceived  uint64
}

// ChannelMetrics aggregates RingMetrics across every ring registered
// to a Channel, in registration order.
type ChannelMetrics struct {
	Rings []RingMetrics
	Total RingMetrics
}

// ringMetrics holds the optional relaxed-RMW counters for a Ring.
// Embedded by value so a metrics-disabled Ring pays no allocation for
// it; the fields simply stay at zero when enableMetrics is false.
type ringMetrics struct {
	_                pad
	messagesSent     atomix.Uint64
	messagesReceived atomix.Uint64
	batchesSent      atomix.Uint64
	batchesReceived  atomix.Uint64
}

func (m *ringMetrics) recordSend(n uint64, enabled bool) {
	if !enabled {
		return
	}
	m.messagesSent.AddRelaxed(n)
	m.batchesSent.AddRelaxed(1)
}

func (m *ringMetrics) recordReceive(n uint64, enabled bool) {
	if !enabled || n == 0 {
		return
	}
	m.messagesReceived.AddRelaxed(n)
	m.batchesReceived.AddRelaxed(1)
}

func (m *ringMetrics) snapshot() RingMetrics {
	return RingMetrics{
		MessagesSent:     m.messagesSent.LoadRelaxed(),
		MessagesReceived: m.messagesReceived.LoadRelaxed(),
		BatchesSent:      m.batchesSent.LoadRelaxed(),
		BatchesReceived:  m.batchesReceived.LoadRelaxed(),
	}
}
