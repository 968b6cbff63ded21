// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package torch implements the operator-splitting composite stepper that advances the
// hydrodynamics, radiation and thermodynamics sub-problems under a shared time step
package torch

import (
	"github.com/ridoncules/Torch/fluid"
)

// Integrator is the capability every physics component must implement. Components do not
// own the fluid; it is passed per call.
type Integrator interface {

	// ComponentName returns the diagnostic label
	ComponentName() string

	// PreTimeStepCalculations mutates cell fields derived from the current primitives;
	// it must be idempotent
	PreTimeStepCalculations(f *fluid.Fluid)

	// CalculateTimeStep returns a stability-limited time step, strictly positive and
	// bounded by dtMax
	CalculateTimeStep(dtMax float64, f *fluid.Fluid) float64

	// Integrate writes the source-term accumulator UDOT (and possibly other transient
	// cell fields) for an advance by dt
	Integrate(dt float64, f *fluid.Fluid)

	// UpdateSourceTerms folds any deferred contributions into UDOT
	UpdateSourceTerms(dt float64, f *fluid.Fluid)
}

// ComponentID identifies the physics components in the splitting order
type ComponentID int

const (
	HydroID ComponentID = iota
	ThermoID
	RadID
)
