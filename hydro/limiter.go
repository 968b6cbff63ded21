// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hydro implements the predictor-corrector Godunov hydrodynamics integrator with
// pluggable Riemann solvers and slope limiters
package hydro

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// SlopeLimiter limits the slope of the linear reconstruction given the backward and
// forward differences of a variable
type SlopeLimiter interface {
	Name() string
	Limit(da, db float64) float64
}

// limiterallocators holds all available slope limiters
var limiterallocators = make(map[string]func() SlopeLimiter)

// SetLimiterAllocator registers a slope limiter under name
func SetLimiterAllocator(name string, fcn func() SlopeLimiter) {
	if _, ok := limiterallocators[name]; ok {
		chk.Panic("cannot register slope limiter %q because the name exists already", name)
	}
	limiterallocators[name] = fcn
}

// NewSlopeLimiter returns the slope limiter registered under name
func NewSlopeLimiter(name string) (lim SlopeLimiter, err error) {
	if fcn, ok := limiterallocators[name]; ok {
		return fcn(), nil
	}
	return nil, chk.Err("cannot find slope limiter named %q", name)
}

// MinMod is the most diffusive TVD limiter
type MinMod struct{}

func (o MinMod) Name() string { return "minmod" }

func (o MinMod) Limit(da, db float64) float64 {
	if da*db <= 0 {
		return 0
	}
	if math.Abs(da) < math.Abs(db) {
		return da
	}
	return db
}

// Superbee is the least diffusive TVD limiter
type Superbee struct{}

func (o Superbee) Name() string { return "superbee" }

func (o Superbee) Limit(da, db float64) float64 {
	if da*db <= 0 {
		return 0
	}
	s := 1.0
	if da < 0 {
		s = -1.0
	}
	ada, adb := math.Abs(da), math.Abs(db)
	return s * math.Max(math.Min(2*ada, adb), math.Min(ada, 2*adb))
}

// VanLeer is the smooth harmonic-mean limiter
type VanLeer struct{}

func (o VanLeer) Name() string { return "vanleer" }

func (o VanLeer) Limit(da, db float64) float64 {
	if da*db <= 0 {
		return 0
	}
	return 2 * da * db / (da + db)
}

// MonotonisedCentral limits the central difference against twice the one-sided ones
type MonotonisedCentral struct{}

func (o MonotonisedCentral) Name() string { return "monotonised_central" }

func (o MonotonisedCentral) Limit(da, db float64) float64 {
	if da*db <= 0 {
		return 0
	}
	s := 1.0
	if da < 0 {
		s = -1.0
	}
	ada, adb := math.Abs(da), math.Abs(db)
	return s * math.Min(0.5*(ada+adb), 2*math.Min(ada, adb))
}

func init() {
	SetLimiterAllocator("minmod", func() SlopeLimiter { return MinMod{} })
	SetLimiterAllocator("superbee", func() SlopeLimiter { return Superbee{} })
	SetLimiterAllocator("vanleer", func() SlopeLimiter { return VanLeer{} })
	SetLimiterAllocator("monotonised_central", func() SlopeLimiter { return MonotonisedCentral{} })
}
