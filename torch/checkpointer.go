// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package torch

// Checkpointer tracks the n evenly spaced output times in (0, tmax] and signals when the
// simulation time crosses the next one
type Checkpointer struct {
	tmax  float64
	n     int
	count int
}

// NewCheckpointer returns a checkpointer for n outputs up to tmax
func NewCheckpointer(tmax float64, n int) *Checkpointer {
	return &Checkpointer{tmax: tmax, n: n}
}

// Count returns the number of output times passed so far
func (o *Checkpointer) Count() int { return o.count }

// Update advances the checkpoint counter past time t and reports whether an output time
// was crossed. When dtNext is non-nil it is capped so the next step does not overshoot
// the following output time.
func (o *Checkpointer) Update(t float64, dtNext *float64) (crossed bool) {
	if o.n <= 0 {
		return false
	}
	interval := o.tmax / float64(o.n)
	for o.count < o.n && t >= float64(o.count+1)*interval {
		o.count++
		crossed = true
	}
	if dtNext != nil && o.count < o.n {
		remaining := float64(o.count+1)*interval - t
		if remaining > 0 && remaining < *dtNext {
			*dtNext = remaining
		}
	}
	return
}
