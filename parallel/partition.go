// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parallel

import (
	"github.com/cpmech/gosl/chk"
)

// Message tags for neighbour exchanges along the decomposition axis
const (
	HydroMsg  = 1 // ghost-layer fluid state
	ThermoMsg = 2 // column densities for the causal sweep
)

// PartitionManager holds the typed scalar queues for the synchronous point-to-point
// exchanges between a rank and its neighbours along the split axis. A matched (send,recv)
// pair delivers exactly the items in the order they were added.
type PartitionManager struct {
	world   *MPIW
	send    []float64
	recv    []float64
	recvPos int
}

// NewPartitionManager returns a partition manager bound to the given world
func NewPartitionManager(world *MPIW) *PartitionManager {
	return &PartitionManager{world: world}
}

// AddSendItem appends v to the send queue
func (o *PartitionManager) AddSendItem(v float64) {
	o.send = append(o.send, v)
}

// GetRecvItem pops the next value from the receive queue
func (o *PartitionManager) GetRecvItem() float64 {
	if o.recvPos >= len(o.recv) {
		chk.Panic("partition: receive queue exhausted (pos=%d, len=%d)", o.recvPos, len(o.recv))
	}
	v := o.recv[o.recvPos]
	o.recvPos++
	return v
}

// NRecvItems returns the number of values still unread in the receive queue
func (o *PartitionManager) NRecvItems() int {
	return len(o.recv) - o.recvPos
}

// ResetBuffer clears both queues
func (o *PartitionManager) ResetBuffer() {
	o.send = o.send[:0]
	o.recv = o.recv[:0]
	o.recvPos = 0
}

// SendData sends the queued payload to rank dest, blocking until delivery. The payload is
// framed with the tag and item count so the receiver can verify the protocol and size the
// receive queue.
func (o *PartitionManager) SendData(dest, tag int) {
	header := []float64{float64(tag), float64(len(o.send))}
	o.world.sendFloats(header, dest)
	if len(o.send) > 0 {
		o.world.sendFloats(o.send, dest)
	}
	o.send = o.send[:0]
}

// RecvData receives a payload from rank src into the receive queue, blocking until it
// arrives. The frame tag must match the expected tag.
func (o *PartitionManager) RecvData(src, tag int) {
	header := make([]float64, 2)
	o.world.recvFloats(header, src)
	if int(header[0]) != tag {
		chk.Panic("partition: message tag mismatch: expected %d, got %d", tag, int(header[0]))
	}
	n := int(header[1])
	o.recv = make([]float64, n)
	o.recvPos = 0
	if n > 0 {
		o.world.recvFloats(o.recv, src)
	}
}

// LoadRecvItems fills the receive queue directly, bypassing the network. Used by
// single-rank tests of consumers that normally read exchanged data.
func (o *PartitionManager) LoadRecvItems(vals []float64) {
	o.recv = append(o.recv[:0], vals...)
	o.recvPos = 0
}

// DrainSendItems removes and returns the queued send payload without sending it. The
// counterpart of LoadRecvItems for tests.
func (o *PartitionManager) DrainSendItems() []float64 {
	vals := o.send
	o.send = nil
	return vals
}
