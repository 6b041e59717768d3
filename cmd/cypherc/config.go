// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/cypherlang/go-cypher/lang/codegen"
)

var configFileFlag = cli.StringFlag{
	Name:  "config",
	Usage: "TOML configuration file",
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// compileConfig holds the compile command's persistent settings.
type compileConfig struct {
	Target      string `toml:",omitempty"` // evm, wasm, or all
	OutputDir   string `toml:",omitempty"`
	StrictTypes bool   `toml:",omitempty"`
}

// mpcConfig holds parameters of the generated MPC harness.
type mpcConfig struct {
	Parties int `toml:",omitempty"`
}

type cypherConfig struct {
	Compile compileConfig
	MPC     mpcConfig
}

func defaultConfig() cypherConfig {
	return cypherConfig{
		Compile: compileConfig{
			Target:    "evm",
			OutputDir: ".",
		},
		MPC: mpcConfig{Parties: codegen.DefaultMPCParties},
	}
}

func loadConfig(file string, cfg *cypherConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the config file named by --config (if any) over the
// defaults, then lets command-line flags override the result.
func makeConfig(ctx *cli.Context) (cypherConfig, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet(targetFlag.Name) {
		cfg.Compile.Target = ctx.String(targetFlag.Name)
	}
	if ctx.IsSet(outputDirFlag.Name) {
		cfg.Compile.OutputDir = ctx.String(outputDirFlag.Name)
	}
	if ctx.IsSet(strictTypesFlag.Name) {
		cfg.Compile.StrictTypes = ctx.Bool(strictTypesFlag.Name)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command: it prints the effective configuration
// as TOML, suitable for use with --config.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
