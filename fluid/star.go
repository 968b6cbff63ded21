// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

// Location tells where the radiation source lives relative to this rank's slab
type Location int

const (
	Here  Location = iota // source is in this rank's slab
	Left                  // source is on a lower-rank slab
	Right                 // source is on a higher-rank slab
	None                  // no source, or source off the decomposition axis
)

// Star is the radiation source
type Star struct {
	On             bool       // source active
	XC             [3]float64 // position in grid coordinates (global)
	MassLossRate   float64    // wind mass loss rate [code units]
	WindVelocity   float64    // terminal wind velocity [code units]
	PhotonRate     float64    // ionising photon rate [code units]
	PhotonEnergy   float64    // excess photon energy per ionisation [code units]
	WindCellRadius int        // wind injection region radius [cells]
	Core           Location   // where the source resides relative to this rank
}

// SetLocation classifies the source position against this rank's owned index range
// [start, end) along the decomposition axis.
func (o *Star) SetLocation(start, end int) {
	if !o.On {
		o.Core = None
		return
	}
	i := int(o.XC[0])
	switch {
	case i < start:
		o.Core = Left
	case i >= end:
		o.Core = Right
	default:
		o.Core = Here
	}
}
