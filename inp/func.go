// Copyright 2016 The Torch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
)

// FuncData holds the definition of one named time function
type FuncData struct {
	Name string     `json:"name"` // key other sections refer to; e.g. "dtceiling"
	Type string     `json:"type"` // gosl function kind; e.g. "cte", "rmp"
	Prms dbf.Params `json:"prms"` // parameters of the chosen kind
}

// FuncsData is the database of named time functions declared in the parameters file
type FuncsData []*FuncData

// find returns the definition stored under name, or nil
func (o FuncsData) find(name string) *FuncData {
	for _, f := range o {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Get builds the time function stored under name. "zero" and "none" are aliases for the
// identically-zero function and need no database entry.
func (o FuncsData) Get(name string) (fun.TimeSpace, error) {
	if name == "zero" || name == "none" {
		return &fun.Zero, nil
	}
	def := o.find(name)
	if def == nil {
		return nil, chk.Err("functions database has no entry named %q", name)
	}
	fcn, err := fun.New(def.Type, def.Prms)
	if err != nil {
		return nil, chk.Err("functions database entry %q (type %q) is invalid:\n%v", name, def.Type, err)
	}
	return fcn, nil
}
