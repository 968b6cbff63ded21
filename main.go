// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/ridoncules/Torch/inp"
	"github.com/ridoncules/Torch/parallel"
	"github.com/ridoncules/Torch/torch"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("\nERROR: %v\n", err)
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
			mpi.Stop(false)
			os.Exit(1)
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".json", true)
	verbose := io.ArgToBool(1, true)

	world := parallel.NewMPIW()

	// message
	if world.Rank() == 0 && verbose {
		io.PfWhite("\nTorch -- radiation hydrodynamics of ionised gas\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"parameters file path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	params := inp.ReadParams(fnamepath)

	sim := torch.NewTorch(params, world, verbose)

	// a SIGTERM raises the quit flag; the outer loop stops before the next full step
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigs
		sim.Quit()
	}()

	sim.Run()
}
