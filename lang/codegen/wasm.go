// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

package codegen

import (
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/cypherlang/go-cypher/lang/ast"
)

// WASMGenerator emits the off-chain half of a compiled contract: a WASM
// module skeleton embedded in a JavaScript host file, one wrapper class per
// contract, snarkjs-backed prove/verify helpers per circuit, and a Shamir
// secret-sharing harness for MPC functions.
//
// Like the EVM generator it carries only per-compile state.
type WASMGenerator struct {
	cfg Config
	e   *emitter
}

// NewWASM creates a WASM backend generator.
func NewWASM(cfg Config) *WASMGenerator {
	return &WASMGenerator{cfg: cfg}
}

// Compile emits the JavaScript host source for every contract in prog. The
// output is deterministic for a given AST.
func (g *WASMGenerator) Compile(prog *ast.Program) (string, error) {
	g.e = newEmitter("  ")

	g.e.line("// Generated by the CypherLang compiler. Do not edit.")
	g.e.line("// Off-chain execution host: WASM field arithmetic, snarkjs proving,")
	g.e.line("// and a Shamir secret-sharing harness for MPC functions.")
	g.e.line("")
	g.e.line("'use strict';")
	g.e.line("")
	g.e.line("const snarkjs = require('snarkjs');")
	g.e.line("")
	g.e.line("// BN254 scalar field modulus. All circuit values live below this bound.")
	g.e.line("const FIELD_PRIME = %sn;", fr.Modulus().String())
	g.e.line("")
	g.e.line("// WASM module skeleton. Field arithmetic runs inside the sandbox;")
	g.e.line("// signature verification crosses the import boundary to the host.")
	g.e.line("const WASM_MODULE_WAT = `%s`;", watSkeleton)

	g.e.line("")
	g.emitMPCHarness()

	for _, c := range prog.Contracts {
		g.e.line("")
		g.contract(c)
	}

	g.e.line("")
	g.emitExports(prog)
	return g.e.String(), nil
}

func (g *WASMGenerator) contract(c *ast.Contract) {
	g.e.line("class %s {", c.Name)
	g.e.in()

	// Constructor initializes state variables and the runtime hooks.
	g.e.line("constructor(options = {}) {")
	g.e.in()
	for _, sv := range c.StateVars {
		g.e.line("this.%s = %s;", sv.Name, jsZeroValue(sv.Type))
	}
	g.e.line("this.enclave = options.enclave || null;")
	g.e.line("this.mpc = options.mpc || new MPCProtocol(options.parties || %d);", g.defaultParties())
	g.e.line("this.artifactDir = options.artifactDir || '.';")
	g.e.out()
	g.e.line("}")

	for _, fn := range c.Functions {
		g.e.line("")
		g.function(fn)
	}

	for _, circ := range c.Circuits {
		g.e.line("")
		g.prover(circ)
		g.e.line("")
		g.jsVerifier(circ)
	}

	g.e.out()
	g.e.line("}")
}

// function emits one host method. Routing depends on the declaration:
// mpc functions go through the secret-sharing protocol, private functions
// through the secure-enclave hook, everything else runs inline.
func (g *WASMGenerator) function(fn *ast.FunctionDecl) {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	args := strings.Join(names, ", ")

	switch {
	case fn.Mutability == ast.MPC:
		g.e.line("async %s(%s) {", fn.Name, args)
		g.e.in()
		g.e.line("return this.mpc.executeMPCFunction('%s', [%s]);", fn.Name, args)
		g.e.out()
		g.e.line("}")
	case fn.Visibility == ast.Private:
		g.e.line("async %s(%s) {", fn.Name, args)
		g.e.in()
		g.e.line("if (!this.enclave) {")
		g.e.in()
		g.e.line("throw new Error('%s is private and requires a secure enclave');", fn.Name)
		g.e.out()
		g.e.line("}")
		g.e.line("return this.enclave.execute('%s', [%s]);", fn.Name, args)
		g.e.out()
		g.e.line("}")
	default:
		g.e.line("%s(%s) {", fn.Name, args)
		g.e.in()
		// Statement lowering is pending; the source statements are carried
		// through as comments, mirroring the EVM backend.
		for _, stmt := range fn.Body {
			g.e.line("// %s", stmt.String())
		}
		g.e.line("throw new Error('%s: body lowering not implemented');", fn.Name)
		g.e.out()
		g.e.line("}")
	}
}

// prover emits the async prove<Name> method. Witness inputs are supplied by
// the caller alongside the public ones; snarkjs resolves them by name.
func (g *WASMGenerator) prover(circ *ast.Circuit) {
	g.e.line("async prove%s(inputs) {", upperFirst(circ.Name))
	g.e.in()
	g.e.line("const { proof, publicSignals } = await snarkjs.groth16.fullProve(")
	g.e.in()
	g.e.line("inputs,")
	g.e.line("`${this.artifactDir}/%s.wasm`,", circ.Name)
	g.e.line("`${this.artifactDir}/%s.zkey`", circ.Name)
	g.e.out()
	g.e.line(");")
	g.e.line("return { proof, publicSignals };")
	g.e.out()
	g.e.line("}")
}

// jsVerifier emits the async verify<Name> method delegating to snarkjs.
func (g *WASMGenerator) jsVerifier(circ *ast.Circuit) {
	g.e.line("async verify%s(proof, publicSignals) {", upperFirst(circ.Name))
	g.e.in()
	g.e.line("const vk = require(`${this.artifactDir}/%s_vk.json`);", circ.Name)
	g.e.line("return snarkjs.groth16.verify(vk, publicSignals, proof);")
	g.e.out()
	g.e.line("}")
}

// emitMPCHarness writes the Shamir secret-sharing protocol class. Share
// generation is real; the distributed computation and reconstruction steps
// are placeholders until the party transport exists.
func (g *WASMGenerator) emitMPCHarness() {
	g.e.line("class MPCProtocol {")
	g.e.in()

	g.e.line("constructor(parties) {")
	g.e.in()
	g.e.line("this.parties = parties;")
	g.e.line("this.threshold = Math.floor(parties / 2) + 1;")
	g.e.out()
	g.e.line("}")
	g.e.line("")

	g.e.line("// shareInputs splits value into this.parties Shamir shares over the")
	g.e.line("// scalar field, using a random polynomial of degree threshold - 1.")
	g.e.line("shareInputs(value) {")
	g.e.in()
	g.e.raw("const coeffs = [BigInt(value) % FIELD_PRIME];")
	g.e.line("for (let i = 1; i < this.threshold; i++) {")
	g.e.in()
	g.e.line("coeffs.push(randomFieldElement());")
	g.e.out()
	g.e.line("}")
	g.e.line("const shares = [];")
	g.e.line("for (let x = 1n; x <= BigInt(this.parties); x++) {")
	g.e.in()
	g.e.line("let y = 0n;")
	g.e.line("let xPow = 1n;")
	g.e.line("for (const c of coeffs) {")
	g.e.in()
	g.e.raw("y = (y + c * xPow) % FIELD_PRIME;")
	g.e.raw("xPow = (xPow * x) % FIELD_PRIME;")
	g.e.out()
	g.e.line("}")
	g.e.line("shares.push({ x, y });")
	g.e.out()
	g.e.line("}")
	g.e.line("return shares;")
	g.e.out()
	g.e.line("}")
	g.e.line("")

	g.e.line("// computeOnShares runs fn over the shared inputs at each party.")
	g.e.line("// Placeholder: the party transport and share-multiplication rounds")
	g.e.line("// are not wired up yet.")
	g.e.line("async computeOnShares(fn, sharedInputs) {")
	g.e.in()
	g.e.line("throw new Error(`MPC computation for ${fn} is not implemented`);")
	g.e.out()
	g.e.line("}")
	g.e.line("")

	g.e.line("// reconstructResult interpolates the secret from threshold shares.")
	g.e.line("// Placeholder pending computeOnShares.")
	g.e.line("reconstructResult(shares) {")
	g.e.in()
	g.e.line("throw new Error('MPC reconstruction is not implemented');")
	g.e.out()
	g.e.line("}")
	g.e.line("")

	g.e.line("async executeMPCFunction(name, args) {")
	g.e.in()
	g.e.line("const sharedInputs = args.map((a) => this.shareInputs(a));")
	g.e.line("const resultShares = await this.computeOnShares(name, sharedInputs);")
	g.e.line("return this.reconstructResult(resultShares);")
	g.e.out()
	g.e.line("}")

	g.e.out()
	g.e.line("}")
	g.e.line("")

	g.e.line("function randomFieldElement() {")
	g.e.in()
	g.e.line("const bytes = require('crypto').randomBytes(32);")
	g.e.raw("return BigInt('0x' + bytes.toString('hex')) % FIELD_PRIME;")
	g.e.out()
	g.e.line("}")
}

func (g *WASMGenerator) emitExports(prog *ast.Program) {
	names := make([]string, 0, len(prog.Contracts)+3)
	for _, c := range prog.Contracts {
		names = append(names, c.Name)
	}
	names = append(names, "MPCProtocol", "FIELD_PRIME", "WASM_MODULE_WAT")
	g.e.line("module.exports = { %s };", strings.Join(names, ", "))
}

// defaultParties resolves the configured MPC party count.
func (g *WASMGenerator) defaultParties() int {
	if g.cfg.MPCParties > 0 {
		return g.cfg.MPCParties
	}
	return DefaultMPCParties
}

// jsZeroValue is the JS initializer for a state variable of the given type.
func jsZeroValue(t ast.TypeNode) string {
	switch n := t.(type) {
	case *ast.PrimitiveType:
		switch n.Name {
		case "bool":
			return "false"
		case "address", "bytes32", "hash", "signature":
			return "null"
		default:
			return "0n"
		}
	case *ast.SecretType:
		return jsZeroValue(n.Inner)
	case *ast.ArrayType:
		return "[]"
	}
	return "null"
}

// watSkeleton is the embedded WASM text-format module. Field arithmetic is
// stubbed with i64 operations; a production build swaps these for 256-bit
// limb arithmetic. Signature verification is declared as a host import
// because curve operations stay outside the sandbox.
const watSkeleton = `
(module
  ;; Host import boundary. Signature checks run on the host side.
  (import "env" "verify_signature"
    (func $verify_signature (param i32 i32 i32) (result i32)))
  (import "env" "hash_to_field"
    (func $hash_to_field (param i32 i32) (result i64)))

  (memory (export "memory") 1)

  ;; Field addition stub. Production code reduces modulo the BN254 scalar
  ;; field over four 64-bit limbs.
  (func (export "field_add") (param $a i64) (param $b i64) (result i64)
    local.get $a
    local.get $b
    i64.add)

  ;; Field multiplication stub, same caveat as field_add.
  (func (export "field_mul") (param $a i64) (param $b i64) (result i64)
    local.get $a
    local.get $b
    i64.mul)

  ;; Hash primitive: forwards to the host's algebraic hash.
  (func (export "hash") (param $ptr i32) (param $len i32) (result i64)
    local.get $ptr
    local.get $len
    call $hash_to_field)
)
`
