// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package templates provides ready-made CypherLang circuit templates. Each
// template expands, given its parameters, into contract source that
// round-trips through the compiler, so `cypherc new` projects start from
// circuits the toolchain is known to accept.
package templates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/cypherlang/go-cypher/lang/codegen"
	"github.com/cypherlang/go-cypher/lang/lexer"
	"github.com/cypherlang/go-cypher/lang/parser"
)

// Param describes one tunable parameter of a template.
type Param struct {
	Name        string
	Description string
	Default     string
}

// Template is one registered circuit template.
type Template struct {
	Name        string
	Description string
	Params      []Param
}

// maxMerkleDepth bounds the path arrays a merkle template may declare.
const maxMerkleDepth = 32

// maxRangeBits keeps range bounds representable in the BN254 scalar field.
const maxRangeBits = 253

var registry = map[string]Template{
	"merkle-proof": {
		Name:        "merkle-proof",
		Description: "Prove membership of a secret leaf in a public Merkle root",
		Params: []Param{
			{Name: "depth", Description: "tree depth (1-32)", Default: "8"},
		},
	},
	"range-proof": {
		Name:        "range-proof",
		Description: "Prove a secret value lies within a public range",
		Params: []Param{
			{Name: "bits", Description: "bit width of the range (1-253)", Default: "64"},
		},
	},
	"private-voting": {
		Name:        "private-voting",
		Description: "Cast a vote without revealing voter identity, with nullifier replay protection",
		Params: []Param{
			{Name: "depth", Description: "voter registry tree depth (1-32)", Default: "16"},
			{Name: "choices", Description: "number of ballot choices (2-256)", Default: "2"},
		},
	},
}

// ListTemplates returns all registered templates sorted by name.
func ListTemplates() []Template {
	out := make([]Template, 0, len(registry))
	for _, tmpl := range registry {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the template registered under name.
func Lookup(name string) (Template, bool) {
	tmpl, ok := registry[name]
	return tmpl, ok
}

// GenerateCircuit expands the named template into CypherLang contract source.
// Missing parameters take their defaults; unknown parameters are an error.
func GenerateCircuit(name string, params map[string]string) (string, error) {
	tmpl, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q (run 'cypherc templates' for the list)", name)
	}
	resolved, err := resolveParams(tmpl, params)
	if err != nil {
		return "", err
	}

	switch name {
	case "merkle-proof":
		return merkleProofSource(resolved)
	case "range-proof":
		return rangeProofSource(resolved)
	case "private-voting":
		return privateVotingSource(resolved)
	}
	return "", fmt.Errorf("template %q has no generator", name)
}

// GenerateVerifier expands the named template and compiles it for the EVM
// target, returning the verifier contract plus the shared library. The
// template source going through the real pipeline keeps the two from
// drifting apart.
func GenerateVerifier(name string, params map[string]string) ([]codegen.File, error) {
	source, err := GenerateCircuit(name, params)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Tokenize(name+".cypher", source)
	if err != nil {
		return nil, fmt.Errorf("template %q does not lex: %v", name, err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, fmt.Errorf("template %q does not parse: %v", name, err)
	}
	return codegen.Compile(prog, codegen.TargetEVM, name, codegen.Config{})
}

// resolveParams merges caller params over defaults, rejecting names the
// template does not declare.
func resolveParams(tmpl Template, params map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(tmpl.Params))
	for _, p := range tmpl.Params {
		resolved[p.Name] = p.Default
	}
	for k, v := range params {
		if _, ok := resolved[k]; !ok {
			return nil, fmt.Errorf("template %q has no parameter %q", tmpl.Name, k)
		}
		resolved[k] = v
	}
	return resolved, nil
}

// intParam parses a bounded integer parameter.
func intParam(params map[string]string, name string, min, max int) (int, error) {
	raw := params[name]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %q is not an integer", name, raw)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("parameter %q: %d out of range [%d, %d]", name, n, min, max)
	}
	return n, nil
}

// fieldBound returns 2^bits - 1 as a decimal string after checking it fits
// the BN254 scalar field.
func fieldBound(bits int) (string, error) {
	bound := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bits))
	bound.SubUint64(bound, 1)

	modulus, overflow := uint256.FromBig(fr.Modulus())
	if overflow {
		return "", fmt.Errorf("scalar field modulus does not fit uint256")
	}
	if bound.Cmp(modulus) >= 0 {
		return "", fmt.Errorf("2^%d - 1 exceeds the scalar field", bits)
	}
	return bound.ToBig().String(), nil
}

// ---------------------------------------------------------------------------
// Template bodies
// ---------------------------------------------------------------------------

func merkleProofSource(params map[string]string) (string, error) {
	depth, err := intParam(params, "depth", 1, maxMerkleDepth)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "contract MerkleMembership {\n")
	fmt.Fprintf(&b, "    circuit MerkleProof {\n")
	fmt.Fprintf(&b, "        public field root;\n")
	fmt.Fprintf(&b, "        private witness field leaf;\n")
	fmt.Fprintf(&b, "        private witness field[%d] siblings;\n", depth)
	fmt.Fprintf(&b, "        private witness field[%d] pathBits;\n", depth)
	fmt.Fprintf(&b, "        constraint computeMerkleRoot(leaf, siblings, pathBits) == root;\n")
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")
	return b.String(), nil
}

func rangeProofSource(params map[string]string) (string, error) {
	bits, err := intParam(params, "bits", 1, maxRangeBits)
	if err != nil {
		return "", err
	}
	bound, err := fieldBound(bits)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "contract RangeBound {\n")
	fmt.Fprintf(&b, "    circuit RangeProof {\n")
	fmt.Fprintf(&b, "        public field min;\n")
	fmt.Fprintf(&b, "        public field max;\n")
	fmt.Fprintf(&b, "        private witness field value;\n")
	fmt.Fprintf(&b, "        constraint value >= min;\n")
	fmt.Fprintf(&b, "        constraint value <= max;\n")
	fmt.Fprintf(&b, "        constraint max <= %s;\n", bound)
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")
	return b.String(), nil
}

func privateVotingSource(params map[string]string) (string, error) {
	depth, err := intParam(params, "depth", 1, maxMerkleDepth)
	if err != nil {
		return "", err
	}
	choices, err := intParam(params, "choices", 2, 256)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "contract PrivateBallot {\n")
	fmt.Fprintf(&b, "    circuit PrivateVote {\n")
	fmt.Fprintf(&b, "        public field registryRoot;\n")
	fmt.Fprintf(&b, "        public field nullifier;\n")
	fmt.Fprintf(&b, "        public field vote;\n")
	fmt.Fprintf(&b, "        private witness field voterSecret;\n")
	fmt.Fprintf(&b, "        private witness field[%d] siblings;\n", depth)
	fmt.Fprintf(&b, "        private witness field[%d] pathBits;\n", depth)
	fmt.Fprintf(&b, "        constraint computeMerkleRoot(hashField(voterSecret), siblings, pathBits) == registryRoot;\n")
	fmt.Fprintf(&b, "        constraint nullifier == hashField(voterSecret);\n")
	fmt.Fprintf(&b, "        constraint vote < %d;\n", choices)
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")
	return b.String(), nil
}
