// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements the grid of cells holding the gas state, the radiation source,
// and the whole-grid state operations
package fluid

// Indices into the primitive (Q) and conservative (U) state vectors
const (
	DEN  = iota // density / mass
	PRE         // pressure / total energy
	VEL0        // velocity / momentum along axis 0
	VEL1        // velocity / momentum along axis 1
	VEL2        // velocity / momentum along axis 2
	HII         // ionised hydrogen fraction / ion mass
	ADV         // passive tracer used as ionisation-switch marker
	NU          // arity of the state vectors
)

// Indices into the ray-tracing/thermodynamics workspace T
const (
	ColDen  = iota // column density from the source to this cell
	DColDen        // column density through this cell
	Rate           // composite heating-minus-cooling rate
	Heat           // pure heating term
	NT
)

// Indices into the per-mechanism heating/cooling diagnostic snapshot H
const (
	HTot  = iota // net rate
	HFUV         // FUV dust heating
	HIR          // IR reprocessed heating
	HCR          // cosmic ray heating
	HIML         // ionised metal line cooling
	HNML         // neutral metal line cooling
	HCEHI        // collisional excitation of HI cooling
	HCIE         // collisional ionisation equilibrium cooling
	HNMC         // neutral/molecular cooling
	HRHII        // HII recombination cooling
	HEUV         // EUV photo-heating
	NH
)

// GridCell holds the state of one cell. Cells reference their neighbours by integer index
// into the grid's cell store, never by pointer.
type GridCell struct {

	// geometry
	ID      int        // index into the cell store
	I, J, K int        // global position index
	XC      [3]float64 // cell centre in grid coordinates
	DS      float64    // ray path length through this cell

	// state
	Q    [NU]float64 // primitive variables
	U    [NU]float64 // conservative variables
	W    [NU]float64 // snapshot of U at the start of the predictor step
	UDOT [NU]float64 // source-term accumulator
	GRAV [3]float64  // external gravity acceleration

	// ray tracing and thermodynamics
	T [NT]float64 // column densities and rates
	H [NH]float64 // per-mechanism heating/cooling snapshot

	// upwind stencil toward the radiation source (Raga method)
	NeighbourIDs     [4]int     // up to four upwind neighbours; -1 when absent
	NeighbourWeights [4]float64 // geometric weights, summing to 1

	// thermodynamic floors
	TMin              float64 // lower temperature bound
	HeatCapacityRatio float64 // ratio of specific heats
}
