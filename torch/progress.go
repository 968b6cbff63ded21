// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package torch

import (
	"time"

	"github.com/cpmech/gosl/io"
)

// ProgressBar reports the fraction of simulation time completed, rate-limited so the log
// is not flooded by short steps
type ProgressBar struct {
	total     float64
	done      float64
	start     time.Time
	lastPrint time.Time
	minPeriod time.Duration
}

// NewProgressBar returns a progress bar over total simulation time, printing at most once
// per periodMsec milliseconds
func NewProgressBar(total float64, periodMsec int) *ProgressBar {
	now := time.Now()
	return &ProgressBar{
		total:     total,
		start:     now,
		lastPrint: now.Add(-time.Hour),
		minPeriod: time.Duration(periodMsec) * time.Millisecond,
	}
}

// TimeToUpdate reports whether enough wall-clock time has passed for another print
func (o *ProgressBar) TimeToUpdate() bool {
	return time.Since(o.lastPrint) >= o.minPeriod
}

// Update records the completed simulation time
func (o *ProgressBar) Update(done float64) {
	o.done = done
	o.lastPrint = time.Now()
}

// FullString returns the progress line with percentage, elapsed time and ETA
func (o *ProgressBar) FullString() string {
	frac := 0.0
	if o.total > 0 {
		frac = o.done / o.total
	}
	if frac > 1 {
		frac = 1
	}
	elapsed := time.Since(o.start)
	eta := time.Duration(0)
	if frac > 0 {
		eta = time.Duration(float64(elapsed) * (1 - frac) / frac)
	}
	return io.Sf("progress: %6.2f%%  elapsed: %v  eta: %v", 100*frac, elapsed.Round(time.Second), eta.Round(time.Second))
}

// FinalString returns the closing summary line
func (o *ProgressBar) FinalString() string {
	return io.Sf("completed in %v", time.Since(o.start).Round(time.Millisecond))
}

// End marks the bar complete
func (o *ProgressBar) End() {
	o.done = o.total
}
