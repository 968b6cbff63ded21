// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_params01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("params01. read parameters file")

	p := ReadParams("data/params01.json")

	chk.StrAssert(p.Key, "params01")
	chk.StrAssert(p.Data.Desc, "spitzer expansion test")
	chk.IntAssert(p.Grid.Nd, 2)
	chk.Ints(tst, "ncells", p.Grid.Ncells[:], []int{128, 64, 1})
	chk.Float64(tst, "tmax", 1e-17, p.Integration.Tmax, 2.0)
	chk.Float64(tst, "dtmax", 1e-17, p.Integration.DtMax, 0.01)
	chk.StrAssert(p.Integration.RiemannSolver, "hll")
	chk.StrAssert(p.Integration.SlopeLimiter, "superbee")
	if !p.Integration.RadiationOn || !p.Integration.CoolingOn {
		tst.Errorf("radiation/cooling flags not read")
	}
	chk.Float64(tst, "photonrate", 1e30, p.Star.PhotonRate, 1.0e49)
	chk.IntAssert(p.Star.WindCellRadius, 10)
	chk.Float64(tst, "massfractionh", 1e-17, p.Thermo.MassFractionH, 0.7)
	chk.StrAssert(p.IC.SetupFunc, "uniform")

	// the default survives for a field absent from the file
	chk.Float64(tst, "gamma default", 1e-17, p.IC.HeatCapacityRatio, 5.0/3.0)
	// the file sets the photon energy to the same value as the default
	chk.Float64(tst, "photon energy", 1e-17, p.Star.PhotonEnergy, 5)
}

func Test_params02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("params02. courant factor is capped")

	p := new(Parameters)
	p.SetDefault()
	p.Integration.CourantFactor = 0.9
	p.PostProcess()
	chk.Float64(tst, "courant", 1e-17, p.Integration.CourantFactor, 0.5)
}

func Test_params03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("params03. setup function registry")

	called := false
	SetSetupFunc("t_params03", func(xc, starXC [3]float64) (den, pre, hii, v0, v1, v2, g0, g1, g2 float64) {
		called = true
		return 1, 1, 0, 0, 0, 0, 0, 0, 0
	})
	fcn, err := GetSetupFunc("t_params03")
	if err != nil {
		tst.Errorf("registered setup function not found:\n%v", err)
		return
	}
	fcn([3]float64{}, [3]float64{})
	if !called {
		tst.Errorf("setup function was not invoked")
	}

	_, err = GetSetupFunc("no-such-setup")
	if err == nil {
		tst.Errorf("expected error for unknown setup function")
	}
}

func Test_stepid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stepid01. step id from snapshot filename")

	chk.IntAssert(StepIDFromFilename("data2D_000012.txt"), 12)
	chk.IntAssert(StepIDFromFilename("/some/dir/run_3_000145.txt"), 145)
	chk.IntAssert(StepIDFromFilename("snapshot.txt"), -1)
	chk.IntAssert(StepIDFromFilename("data2D_abc.txt"), -1)
}
