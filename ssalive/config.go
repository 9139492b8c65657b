// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

// config holds the settings of a run. It can be read from a TOML file
// and every field has a matching command-line flag.
type config struct {
	Mode              string `toml:"mode"`
	Workers           int    `toml:"workers"`
	Order             string `toml:"order"`
	RejectIrreducible bool   `toml:"reject-irreducible"`
	Stats             bool   `toml:"stats"`
	Runs              int    `toml:"runs"`
	CSV               string `toml:"csv"`
	Dot               string `toml:"dot"`
	Plot              string `toml:"plot"`
	Quiet             bool   `toml:"quiet"`
	Debug             bool   `toml:"debug"`
}

var defaultConfig = config{
	Mode:  "dynamic",
	Order: "backward",
	Runs:  1,
}

// loadConfig reads a config from the TOML file at path. Settings
// missing from the file keep their defaults.
func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	return parseConfig(data, path)
}

func parseConfig(data []byte, path string) (config, error) {
	conf := defaultConfig
	if err := toml.Unmarshal(data, &conf); err != nil {
		return config{}, errors.Wrapf(err, "parsing %s", path)
	}
	return conf, nil
}

// override replaces the settings in c with those in f whose flags
// were set on the command line.
func (c *config) override(fs *flag.FlagSet, f *config) {
	set := func(name string, dst, src interface{}) {
		if !fs.Changed(name) {
			return
		}
		switch dst := dst.(type) {
		case *string:
			*dst = *src.(*string)
		case *int:
			*dst = *src.(*int)
		case *bool:
			*dst = *src.(*bool)
		}
	}
	set("mode", &c.Mode, &f.Mode)
	set("workers", &c.Workers, &f.Workers)
	set("order", &c.Order, &f.Order)
	set("reject-irreducible", &c.RejectIrreducible, &f.RejectIrreducible)
	set("stats", &c.Stats, &f.Stats)
	set("runs", &c.Runs, &f.Runs)
	set("csv", &c.CSV, &f.CSV)
	set("dot", &c.Dot, &f.Dot)
	set("plot", &c.Plot, &f.Plot)
	set("quiet", &c.Quiet, &f.Quiet)
	set("debug", &c.Debug, &f.Debug)
}
