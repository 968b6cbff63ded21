// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a parameters JSON file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for simulations
type Data struct {
	Desc   string  `json:"desc"`   // description of simulation
	DirOut string  `json:"dirout"` // directory for output; e.g. /tmp/torch
	Dscale float64 `json:"dscale"` // density scale [g/cm3]
	Pscale float64 `json:"pscale"` // pressure scale [dyne/cm2]
	Tscale float64 `json:"tscale"` // time scale [s]
	Debug  bool    `json:"debug"`  // debug run: enables the small-delta integration guard
}

// GridData holds the grid geometry and the state floors
type GridData struct {
	Nd         int     `json:"nd"`         // number of dimensions (1 to 3)
	Ncells     [3]int  `json:"ncells"`     // number of cells along each axis
	SideLength float64 `json:"sidelength"` // physical length of axis 0 [cm]
	Dfloor     float64 `json:"dfloor"`     // density floor [code units]
	Pfloor     float64 `json:"pfloor"`     // pressure floor [code units]
	Tfloor     float64 `json:"tfloor"`     // temperature floor [K]
}

// IntegrationData holds the time integration controls
type IntegrationData struct {
	Tmax          float64 `json:"tmax"`          // final time [code units]
	DtMax         float64 `json:"dtmax"`         // ceiling on the time step [code units]
	DtMaxFcn      string  `json:"dtmaxfcn"`      // optional time-step ceiling function name
	Ncheckpoints  int     `json:"ncheckpoints"`  // number of snapshot outputs in (0, tmax]
	RadiationOn   bool    `json:"radiation"`     // enable the radiation integrator
	CoolingOn     bool    `json:"cooling"`       // enable the thermodynamics integrator
	SpatialOrder  int     `json:"spatialorder"`  // 0: piecewise constant; 1: linear reconstruction
	TemporalOrder int     `json:"temporalorder"` // read but not used: the hydro step is always predictor-corrector
	RiemannSolver string  `json:"riemann"`       // Riemann solver name; e.g. "hllc", "hll"
	SlopeLimiter  string  `json:"limiter"`       // slope limiter name; e.g. "minmod", "superbee"
	CourantFactor float64 `json:"courant"`       // Courant factor (<= 0.5)
}

// StarData holds the radiation source parameters (physical units)
type StarData struct {
	On             bool       `json:"on"`             // star present
	Position       [3]float64 `json:"position"`       // position in grid coordinates
	MassLossRate   float64    `json:"mdot"`           // wind mass loss rate [g/s]
	WindVelocity   float64    `json:"windvelocity"`   // terminal wind velocity [cm/s]
	PhotonRate     float64    `json:"photonrate"`     // ionising photon rate [1/s]
	PhotonEnergy   float64    `json:"photonenergy"`   // mean photon energy above threshold [eV]
	WindCellRadius int        `json:"windcellradius"` // wind injection region radius [cells]
}

// ThermoData holds the thermodynamics controls
type ThermoData struct {
	Subcycling           bool    `json:"subcycling"`           // sub-cycle the heating/cooling source term
	HIISwitch            float64 `json:"hiiswitch"`            // ADV tracer threshold enabling rate evaluation
	HeatingAmplification float64 `json:"heatingamplification"` // multiplier on the net rate
	MassFractionH        float64 `json:"massfractionh"`        // hydrogen mass fraction X_H
	MinTempInitialState  bool    `json:"mintempinitialstate"`  // per-cell T_min from the initial state
}

// ICData holds the initial condition sources
type ICData struct {
	InitialConditions string  `json:"initialconditions"` // snapshot file to restart from
	SetupFunc         string  `json:"setupfunc"`         // registered setup function name
	PatchFilename     string  `json:"patchfilename"`     // optional overlay snapshot
	PatchOffset       [3]int  `json:"patchoffset"`       // overlay offset [cells]
	CompressSnapshots bool    `json:"compress"`          // zstd-compress snapshot output
	HeatCapacityRatio float64 `json:"gamma"`             // ratio of specific heats
}

// Parameters holds all input data
type Parameters struct {

	// input
	Data        Data            `json:"data"`        // global data
	Grid        GridData        `json:"grid"`        // grid geometry and floors
	Integration IntegrationData `json:"integration"` // time integration controls
	Star        StarData        `json:"star"`        // radiation source
	Thermo      ThermoData      `json:"thermo"`      // heating/cooling controls
	IC          ICData          `json:"ic"`          // initial conditions
	Functions   FuncsData       `json:"functions"`   // functions database

	// derived
	Key      string        // simulation key from the file name
	DtMaxFcn fun.TimeSpace // time-step ceiling function (nil when DtMax is a plain constant)
}

// SetDefault sets default values
func (o *Parameters) SetDefault() {
	o.Data.Dscale = 1
	o.Data.Pscale = 1
	o.Data.Tscale = 1
	o.Grid.Nd = 1
	o.Grid.Ncells = [3]int{1, 1, 1}
	o.Grid.SideLength = 1
	o.Grid.Dfloor = 1e-15
	o.Grid.Pfloor = 1e-15
	o.Grid.Tfloor = 0.1
	o.Integration.DtMax = 1
	o.Integration.Ncheckpoints = 1
	o.Integration.SpatialOrder = 1
	o.Integration.TemporalOrder = 2
	o.Integration.RiemannSolver = "hllc"
	o.Integration.SlopeLimiter = "minmod"
	o.Integration.CourantFactor = 0.5
	o.Star.PhotonEnergy = 5
	o.Thermo.HIISwitch = 1e-2
	o.Thermo.HeatingAmplification = 1
	o.Thermo.MassFractionH = 1.0
	o.IC.HeatCapacityRatio = 5.0 / 3.0
}

// PostProcess computes derived quantities
func (o *Parameters) PostProcess() {
	if o.Integration.DtMaxFcn != "" {
		fcn, err := o.Functions.Get(o.Integration.DtMaxFcn)
		if err != nil {
			chk.Panic("parameters: cannot get dtmax function:\n%v", err)
		}
		o.DtMaxFcn = fcn
	}
	if o.Integration.CourantFactor > 0.5 {
		o.Integration.CourantFactor = 0.5
	}
}

// ReadParams reads all simulation parameters from a JSON file
func ReadParams(path string) (o *Parameters) {

	// new parameters with defaults
	o = new(Parameters)
	o.SetDefault()

	// read file
	b, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("ReadParams: cannot read parameters file %q", path)
	}

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		chk.Panic("ReadParams: cannot unmarshal parameters file %q:\n%v", path, err)
	}

	// simulation key and output directory
	o.Key = io.FnKey(filepath.Base(path))
	if o.Data.DirOut == "" {
		o.Data.DirOut = "/tmp/torch/" + o.Key
	}
	err = os.MkdirAll(o.Data.DirOut, 0777)
	if err != nil {
		chk.Panic("ReadParams: cannot create output directory %q: %v", o.Data.DirOut, err)
	}

	o.PostProcess()
	return
}

// SetupFunc initialises one cell from its physical centre coordinates and the star's
// physical position. It returns the primitive state and the gravity vector:
// (DEN, PRE, HII, VEL0, VEL1, VEL2, GRAV0, GRAV1, GRAV2), all in physical (cgs) units.
type SetupFunc func(xc, starXC [3]float64) (den, pre, hii, v0, v1, v2, g0, g1, g2 float64)

// setupallocators holds all registered setup functions
var setupallocators = make(map[string]SetupFunc)

// SetSetupFunc registers a setup function under name
func SetSetupFunc(name string, fcn SetupFunc) {
	if _, ok := setupallocators[name]; ok {
		chk.Panic("cannot register setup function %q because the name exists already", name)
	}
	setupallocators[name] = fcn
}

// GetSetupFunc returns a setup function from the registry
func GetSetupFunc(name string) (fcn SetupFunc, err error) {
	if fcn, ok := setupallocators[name]; ok {
		return fcn, nil
	}
	return nil, chk.Err("cannot find setup function named %q", name)
}
