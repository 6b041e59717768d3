// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package codegen translates a CypherLang program AST into target source
// code. Two backends exist: an EVM backend emitting Solidity-compatible
// contract source plus a shared pairing-verification library, and a WASM
// backend emitting a bytecode-module skeleton with a JavaScript host
// interface and an MPC harness.
//
// Generators hold only invocation-scoped state (an output buffer and an
// indentation counter). A fresh generator value must be constructed per
// compile call; concurrent compiles of different programs must use
// independent instances.
package codegen

import (
	"fmt"

	"github.com/cypherlang/go-cypher/lang/ast"
)

// Target selects the backend.
type Target string

const (
	// TargetEVM emits Solidity-compatible contract source.
	TargetEVM Target = "evm"
	// TargetWASM emits a WASM module skeleton with a JS host interface.
	TargetWASM Target = "wasm"
)

// LibFileName is the fixed name of the shared verification library emitted
// alongside every EVM compile.
const LibFileName = "CypherLib.sol"

// Config carries the backend options shared by both generators.
type Config struct {
	// StrictTypes makes an unmapped type name a compile error instead of
	// silently defaulting to uint256. The default (false) preserves the
	// historical fallback; see UnmappedTypeError.
	StrictTypes bool

	// MPCParties is the party count baked into the generated MPC harness as
	// the default when the caller passes none. Zero means DefaultMPCParties.
	MPCParties int
}

// DefaultMPCParties is the MPC party count used when Config.MPCParties is
// unset.
const DefaultMPCParties = 3

// UnmappedTypeError is returned in strict mode when a type name has no
// backend mapping. In the default lenient mode the EVM backend maps unknown
// names to uint256. That fallback is a known gap kept for compatibility.
type UnmappedTypeError struct {
	Name string
}

func (e *UnmappedTypeError) Error() string {
	return fmt.Sprintf("no backend type mapping for %q", e.Name)
}

// PublicInputError is returned by the EVM backend when a circuit declares a
// public input whose type does not reduce to a single field element. Each
// public input must occupy exactly one uint256 slot in the verifier call,
// matching one vk.ic point.
type PublicInputError struct {
	Circuit  string
	Input    string
	TypeName string
}

func (e *PublicInputError) Error() string {
	return fmt.Sprintf("circuit %s: public input %s has type %s, which does not reduce to a single field element",
		e.Circuit, e.Input, e.TypeName)
}

// File is one generated output file.
type File struct {
	Name   string
	Source string
}

// Compile runs the backend selected by target over prog and returns the
// generated files. The EVM target yields <basename>.sol plus the constant
// CypherLib.sol; the WASM target yields <basename>.js.
func Compile(prog *ast.Program, target Target, basename string, cfg Config) ([]File, error) {
	switch target {
	case TargetEVM:
		src, err := NewEVM(cfg).Compile(prog)
		if err != nil {
			return nil, err
		}
		return []File{
			{Name: basename + ".sol", Source: src},
			{Name: LibFileName, Source: CypherLibSource()},
		}, nil
	case TargetWASM:
		src, err := NewWASM(cfg).Compile(prog)
		if err != nil {
			return nil, err
		}
		return []File{{Name: basename + ".js", Source: src}}, nil
	default:
		return nil, fmt.Errorf("unknown compilation target: %q", target)
	}
}
