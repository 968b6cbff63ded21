// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package parallel wraps the message-passing layer: world information, collective
// reductions and the neighbour exchange used by the domain decomposition
package parallel

import (
	"github.com/cpmech/gosl/mpi"
)

// MPIW is the handle to the parallel world. It is created once in main and passed to the
// components that need it; a run without MPI behaves as a single-rank world.
type MPIW struct {
	rank  int  // this processor number
	nproc int  // number of processors
	distr bool // distributed run (MPI on and more than one processor)
}

// NewMPIW returns the world handle. MPI must have been started already (mpi.Start in main)
// for a distributed run; otherwise a serial single-rank world is returned.
func NewMPIW() (o *MPIW) {
	o = new(MPIW)
	o.nproc = 1
	if mpi.IsOn() {
		o.rank = mpi.Rank()
		o.nproc = mpi.Size()
		o.distr = o.nproc > 1
	}
	return
}

// Rank returns this processor number
func (o *MPIW) Rank() int { return o.rank }

// NProc returns the number of processors
func (o *MPIW) NProc() int { return o.nproc }

// Distributed tells whether this is a multi-rank run
func (o *MPIW) Distributed() bool { return o.distr }

// Barrier blocks until all ranks arrive
func (o *MPIW) Barrier() {
	if o.distr {
		mpi.Barrier()
	}
}

// Minimum returns the minimum of x across all ranks
func (o *MPIW) Minimum(x float64) float64 {
	if !o.distr {
		return x
	}
	res := []float64{x}
	w := make([]float64, 1)
	mpi.AllReduceMin(res, w)
	return res[0]
}

// Sum returns the sum of x across all ranks
func (o *MPIW) Sum(x float64) float64 {
	if !o.distr {
		return x
	}
	res := []float64{x}
	w := make([]float64, 1)
	mpi.AllReduceSum(res, w)
	return res[0]
}

// Serial executes f on each rank in rank order, with barriers in between. Used for IO on
// shared files during initialisation.
func (o *MPIW) Serial(f func()) {
	if !o.distr {
		f()
		return
	}
	for p := 0; p < o.nproc; p++ {
		if p == o.rank {
			f()
		}
		mpi.Barrier()
	}
}

// sendFloats performs a blocking send of vals to rank toID
func (o *MPIW) sendFloats(vals []float64, toID int) {
	mpi.DblSend(vals, toID)
}

// recvFloats performs a blocking receive of len(vals) values from rank fromID
func (o *MPIW) recvFloats(vals []float64, fromID int) {
	mpi.DblRecv(vals, fromID)
}
