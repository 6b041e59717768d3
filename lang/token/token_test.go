// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

package token

import "testing"

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		ident string
		want  Type
	}{
		{"contract", CONTRACT},
		{"circuit", CIRCUIT},
		{"secret", SECRET},
		{"witness", WITNESS},
		{"constraint", CONSTRAINT},
		{"mpc", MPC},
		{"foo", IDENT},
		{"Contract", IDENT}, // keywords are case-sensitive
		{"contracts", IDENT},
	}
	for _, c := range cases {
		if got := LookupIdent(c.ident); got != c.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", c.ident, got, c.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	if !CONTRACT.IsKeyword() || !FALSE.IsKeyword() {
		t.Error("keyword range endpoints not recognized as keywords")
	}
	if IDENT.IsKeyword() || LBRACE.IsKeyword() || EOF.IsKeyword() {
		t.Error("non-keyword recognized as keyword")
	}
}

func TestIsType(t *testing.T) {
	typeKeywords := []Type{FIELD, UINT256, BYTES32, BOOL, ADDRESS, HASH, SIGNATURE, PROOF, COMMITMENT, SECRET, WITNESS}
	for _, typ := range typeKeywords {
		if !typ.IsType() {
			t.Errorf("%s.IsType() = false, want true", typ)
		}
	}
	nonTypes := []Type{CONTRACT, FUNCTION, CONSTRAINT, IF, IDENT, PUBLIC}
	for _, typ := range nonTypes {
		if typ.IsType() {
			t.Errorf("%s.IsType() = true, want false", typ)
		}
	}
}

func TestPositionString(t *testing.T) {
	p := Position{File: "vault.cypher", Line: 3, Column: 14}
	if got := p.String(); got != "vault.cypher:3:14" {
		t.Errorf("Position.String() = %q", got)
	}
	anon := Position{Line: 1, Column: 1}
	if got := anon.String(); got != "1:1" {
		t.Errorf("anonymous Position.String() = %q", got)
	}
}
