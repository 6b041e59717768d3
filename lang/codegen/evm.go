// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

package codegen

import (
	"fmt"
	"strings"

	"github.com/cypherlang/go-cypher/crypto"
	"github.com/cypherlang/go-cypher/lang/ast"
)

// EVMGenerator walks a program AST and emits Solidity-compatible contract
// source. Zero-knowledge circuits become on-chain verifier functions that
// delegate the Groth16 pairing check to the shared CypherLib library.
//
// The generator assumes a well-formed AST. It holds only per-compile state;
// construct a fresh one per Compile call.
type EVMGenerator struct {
	cfg Config
	e   *emitter
}

// NewEVM creates an EVM backend generator.
func NewEVM(cfg Config) *EVMGenerator {
	return &EVMGenerator{cfg: cfg}
}

// Compile emits the Solidity source for every contract in prog. The output
// is deterministic: the same AST always yields byte-identical source.
func (g *EVMGenerator) Compile(prog *ast.Program) (string, error) {
	g.e = newEmitter("    ")

	g.e.line("// SPDX-License-Identifier: MIT")
	g.e.line("// Generated by the CypherLang compiler. Do not edit.")
	g.e.line("pragma solidity ^0.8.19;")
	g.e.line("")
	g.e.line(`import "./CypherLib.sol";`)

	for _, c := range prog.Contracts {
		g.e.line("")
		if err := g.contract(c); err != nil {
			return "", err
		}
	}
	return g.e.String(), nil
}

func (g *EVMGenerator) contract(c *ast.Contract) error {
	g.e.line("contract %s {", c.Name)
	g.e.in()

	// State variables.
	for _, sv := range c.StateVars {
		solType, err := g.solidityType(sv.Type)
		if err != nil {
			return err
		}
		g.e.line("%s %s %s;", solType, solidityVisibility(sv.Visibility), sv.Name)
	}

	// One verifying-key slot and one circuit-ID constant per circuit. The ID
	// binds the slot to its circuit across key rotations.
	if len(c.Circuits) > 0 {
		if len(c.StateVars) > 0 {
			g.e.line("")
		}
		for _, circ := range c.Circuits {
			g.e.line("CypherLib.VerifyingKey internal %sVK;", lowerFirst(circ.Name))
			g.e.line("bytes32 internal constant %s_CIRCUIT_ID = %s;",
				strings.ToUpper(circ.Name), crypto.CircuitID(circ.Name))
		}
	}

	// Constructor loads each circuit's verifying key by name.
	if len(c.Circuits) > 0 {
		g.e.line("")
		g.e.line("constructor() {")
		g.e.in()
		for _, circ := range c.Circuits {
			g.e.line("%sVK = CypherLib.loadVerifyingKey(%q);", lowerFirst(circ.Name), circ.Name)
		}
		g.e.out()
		g.e.line("}")
	}

	for _, fn := range c.Functions {
		g.e.line("")
		if err := g.function(fn); err != nil {
			return err
		}
	}

	for _, circ := range c.Circuits {
		g.e.line("")
		if err := g.verifier(circ); err != nil {
			return err
		}
	}

	g.e.out()
	g.e.line("}")
	return nil
}

// function emits one Solidity function for a FunctionDecl.
//
// MPC functions compile to an unconditional revert: multi-party computation
// cannot run on-chain, it must go through the off-chain protocol exposed by
// the WASM target's host interface.
func (g *EVMGenerator) function(fn *ast.FunctionDecl) error {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		t, err := g.parameterType(p.Type)
		if err != nil {
			return err
		}
		params[i] = t + " " + p.Name
	}

	sig := fmt.Sprintf("function %s(%s) %s", fn.Name, strings.Join(params, ", "),
		solidityVisibility(fn.Visibility))
	switch fn.Mutability {
	case ast.Pure:
		sig += " pure"
	case ast.View:
		sig += " view"
	}
	for _, m := range fn.Modifiers {
		sig += " " + m
	}
	if fn.ReturnType != nil {
		ret, err := g.parameterType(fn.ReturnType)
		if err != nil {
			return err
		}
		sig += fmt.Sprintf(" returns (%s)", ret)
	}

	g.e.line("%s {", sig)
	g.e.in()

	if fn.Mutability == ast.MPC {
		g.e.line(`revert("MPC functions must execute off-chain via the secure multi-party computation protocol");`)
	} else {
		// Statement bodies are not structurally lowered yet; the source
		// statements are carried through as comments so the generated
		// contract stays auditable against its CypherLang origin.
		for _, stmt := range fn.Body {
			g.e.line("// %s", stmt.String())
		}
	}

	g.e.out()
	g.e.line("}")
	return nil
}

// verifier emits the verify<Name> function for a circuit. Its parameter list
// is the circuit's public inputs in declaration order, followed by the proof.
// Each public input must reduce to a single field element: aggregate types
// (arrays, signature, proof) have no one-slot uint256 conversion and would
// break the input/vk.ic arity contract, so they are rejected up front.
func (g *EVMGenerator) verifier(circ *ast.Circuit) error {
	pub := circ.PublicInputs()

	params := make([]string, 0, len(pub)+1)
	casts := make([]string, 0, len(pub))
	for _, in := range pub {
		solType, err := g.solidityType(in.Type)
		if err != nil {
			return err
		}
		if !scalarPublicInput(solType) {
			return &PublicInputError{Circuit: circ.Name, Input: in.Name, TypeName: in.Type.String()}
		}
		params = append(params, solType+" "+in.Name)
		casts = append(casts, publicInputCast(solType, in.Name))
	}
	params = append(params, "CypherLib.Proof memory proof")

	g.e.line("function verify%s(%s) public view returns (bool) {",
		upperFirst(circ.Name), strings.Join(params, ", "))
	g.e.in()
	g.e.line("uint256[] memory publicInputs = new uint256[](%d);", len(pub))
	for i, cast := range casts {
		g.e.line("publicInputs[%d] = %s;", i, cast)
	}
	g.e.line("return CypherLib.verifyProof(%sVK, proof, publicInputs);", lowerFirst(circ.Name))
	g.e.out()
	g.e.line("}")
	return nil
}

// ---------------------------------------------------------------------------
// Type mapping
// ---------------------------------------------------------------------------

// evmTypeMap is the deterministic CypherLang → Solidity mapping.
var evmTypeMap = map[string]string{
	"field":      "uint256",
	"commitment": "uint256",
	"uint256":    "uint256",
	"bytes32":    "bytes32",
	"hash":       "bytes32",
	"bool":       "bool",
	"address":    "address",
	"signature":  "bytes",
	"proof":      "CypherLib.Proof",
}

// solidityType maps a TypeNode to its Solidity type. Unknown primitive names
// default to uint256 unless StrictTypes is set; see UnmappedTypeError.
func (g *EVMGenerator) solidityType(t ast.TypeNode) (string, error) {
	switch n := t.(type) {
	case *ast.PrimitiveType:
		if mapped, ok := evmTypeMap[n.Name]; ok {
			return mapped, nil
		}
		if g.cfg.StrictTypes {
			return "", &UnmappedTypeError{Name: n.Name}
		}
		return "uint256", nil
	case *ast.SecretType:
		// Secret values never live on-chain in the clear; the wrapper maps
		// to the inner representation and confidentiality is enforced by
		// circuits/MPC, not by the EVM type.
		return g.solidityType(n.Inner)
	case *ast.ArrayType:
		elem, err := g.solidityType(n.Elem)
		if err != nil {
			return "", err
		}
		if n.Size < 0 {
			return elem + "[]", nil
		}
		return fmt.Sprintf("%s[%d]", elem, n.Size), nil
	}
	if g.cfg.StrictTypes {
		return "", &UnmappedTypeError{Name: t.String()}
	}
	return "uint256", nil
}

// parameterType maps a TypeNode for use in a parameter list, adding the
// memory data location where Solidity requires one.
func (g *EVMGenerator) parameterType(t ast.TypeNode) (string, error) {
	solType, err := g.solidityType(t)
	if err != nil {
		return "", err
	}
	switch {
	case solType == "bytes", solType == "CypherLib.Proof",
		strings.HasSuffix(solType, "[]"), strings.HasSuffix(solType, "]"):
		return solType + " memory", nil
	}
	return solType, nil
}

func solidityVisibility(v ast.Visibility) string {
	if v == ast.Private {
		return "internal"
	}
	return "public"
}

// scalarPublicInput reports whether a Solidity type occupies exactly one
// uint256 slot in the verifier calldata.
func scalarPublicInput(solType string) bool {
	switch solType {
	case "uint256", "bytes32", "address", "bool":
		return true
	}
	return false
}

// publicInputCast renders the expression converting a scalar public input to
// the uint256 element the pairing check consumes. Non-scalar types are
// filtered out by the verifier emitter before this runs.
func publicInputCast(solType, name string) string {
	switch solType {
	case "bytes32":
		return fmt.Sprintf("uint256(%s)", name)
	case "address":
		return fmt.Sprintf("uint256(uint160(%s))", name)
	case "bool":
		return fmt.Sprintf("%s ? 1 : 0", name)
	default:
		return name
	}
}
