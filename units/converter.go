// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package units implements the conversion between physical (cgs) and code units
package units

import "math"

// cgs values of physical constants
const (
	HydrogenMassCGS   = 1.6735326e-24 // hydrogen atom mass [g]
	BoltzmannCGS      = 1.3806485e-16 // Boltzmann constant [erg/K]
	SpecificGasCGS    = 8.3144598e7   // specific gas constant [erg/(K.g)]
	ElectronVoltCGS   = 1.6021766e-12 // 1 eV [erg]
	DustExtinctionCGS = 5.0e-22       // dust extinction cross-section [cm2]
	Pi                = math.Pi
)

// Converter holds the mass, length and time scales that map physical (cgs) quantities to
// code units. Scalings are applied at IO boundaries only; inside the solver everything is
// in code units.
type Converter struct {
	M float64 // mass scale [g]
	L float64 // length scale [cm]
	T float64 // time scale [s]
}

// InitialiseDPT sets the scales from a density, pressure and time scale.
// The velocity scale is sqrt(pscale/dscale); length and mass follow.
func (o *Converter) InitialiseDPT(dscale, pscale, tscale float64) {
	vscale := math.Sqrt(pscale / dscale)
	o.T = tscale
	o.L = vscale * tscale
	o.M = dscale * o.L * o.L * o.L
}

// ToCodeUnits converts a physical (cgs) value with dimensions M^m L^l T^t to code units
func (o *Converter) ToCodeUnits(val, massExp, lengthExp, timeExp float64) float64 {
	return val / o.scale(massExp, lengthExp, timeExp)
}

// FromCodeUnits converts a code-unit value with dimensions M^m L^l T^t back to cgs
func (o *Converter) FromCodeUnits(val, massExp, lengthExp, timeExp float64) float64 {
	return val * o.scale(massExp, lengthExp, timeExp)
}

// EVtoErgs converts an energy in electron-volts to erg
func (o *Converter) EVtoErgs(ev float64) float64 {
	return ev * ElectronVoltCGS
}

func (o *Converter) scale(massExp, lengthExp, timeExp float64) float64 {
	s := 1.0
	if massExp != 0 {
		s *= math.Pow(o.M, massExp)
	}
	if lengthExp != 0 {
		s *= math.Pow(o.L, lengthExp)
	}
	if timeExp != 0 {
		s *= math.Pow(o.T, timeExp)
	}
	return s
}

// Constants holds problem-wide constants in code units plus the unit converter.
// One instance is created at initialisation and shared by all components.
type Constants struct {

	// input
	Nd     int     // number of spatial dimensions (1 to 3)
	Dfloor float64 // density floor [code units]
	Pfloor float64 // pressure floor [code units]
	Tfloor float64 // temperature floor [K]

	// derived: physical constants in code units
	HydrogenMass       float64 // hydrogen atom mass
	SpecificGasConst   float64 // specific gas constant
	BoltzmannConst     float64 // Boltzmann constant
	DustExtinctionXSec float64 // dust extinction cross-section

	// converter
	Conv Converter
}

// NewConstants builds the constants set from the density/pressure/time scalings
func NewConstants(dscale, pscale, tscale float64) (o *Constants) {
	o = new(Constants)
	o.Conv.InitialiseDPT(dscale, pscale, tscale)
	o.HydrogenMass = o.Conv.ToCodeUnits(HydrogenMassCGS, 1, 0, 0)
	o.SpecificGasConst = o.Conv.ToCodeUnits(SpecificGasCGS, 0, 2, -2)
	o.BoltzmannConst = o.Conv.ToCodeUnits(BoltzmannCGS, 1, 2, -2)
	o.DustExtinctionXSec = o.Conv.ToCodeUnits(DustExtinctionCGS, 0, 2, 0)
	return
}
