// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

package parser_test

import (
	"strings"
	"testing"

	"github.com/cypherlang/go-cypher/lang/ast"
	"github.com/cypherlang/go-cypher/lang/lexer"
	"github.com/cypherlang/go-cypher/lang/parser"
)

// parse lexes and parses source, failing the test on any error.
func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize("test.cypher", source)
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

// parseError lexes and parses source expecting a syntax error whose message
// contains wantSub.
func parseError(t *testing.T, source, wantSub string) {
	t.Helper()
	toks, err := lexer.Tokenize("test.cypher", source)
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err == nil {
		t.Fatalf("expected syntax error, got program with %d contracts", len(prog.Contracts))
	}
	synErr, ok := err.(*parser.SyntaxError)
	if !ok {
		t.Fatalf("error type = %T, want *parser.SyntaxError", err)
	}
	if !strings.Contains(synErr.Error(), wantSub) {
		t.Errorf("error %q does not contain %q", synErr.Error(), wantSub)
	}
}

// ---------------------------------------------------------------------------
// Contracts
// ---------------------------------------------------------------------------

func TestEmptyContract(t *testing.T) {
	prog := parse(t, `contract Empty { }`)
	if len(prog.Contracts) != 1 {
		t.Fatalf("got %d contracts, want 1", len(prog.Contracts))
	}
	c := prog.Contracts[0]
	if c.Name != "Empty" {
		t.Errorf("name = %q, want %q", c.Name, "Empty")
	}
	if len(c.StateVars) != 0 || len(c.Functions) != 0 || len(c.Circuits) != 0 {
		t.Errorf("expected empty contract, got %d vars, %d functions, %d circuits",
			len(c.StateVars), len(c.Functions), len(c.Circuits))
	}
}

func TestMultipleContracts(t *testing.T) {
	prog := parse(t, `contract A { } contract B { }`)
	if len(prog.Contracts) != 2 {
		t.Fatalf("got %d contracts, want 2", len(prog.Contracts))
	}
	if prog.Contracts[0].Name != "A" || prog.Contracts[1].Name != "B" {
		t.Errorf("names = %q, %q; want A, B", prog.Contracts[0].Name, prog.Contracts[1].Name)
	}
}

func TestEmptyInputYieldsEmptyProgram(t *testing.T) {
	prog := parse(t, "")
	if len(prog.Contracts) != 0 {
		t.Errorf("got %d contracts, want 0", len(prog.Contracts))
	}
}

// ---------------------------------------------------------------------------
// State variables
// ---------------------------------------------------------------------------

func TestStateVariables(t *testing.T) {
	prog := parse(t, `contract Vault {
    secret<field> balance;
    address owner public;
    uint256 total public;
    hash root;
}`)
	c := prog.Contracts[0]
	if len(c.StateVars) != 4 {
		t.Fatalf("got %d state vars, want 4", len(c.StateVars))
	}

	cases := []struct {
		name string
		typ  string
		vis  ast.Visibility
	}{
		{"balance", "secret<field>", ast.Private},
		{"owner", "address", ast.Public},
		{"total", "uint256", ast.Public},
		{"root", "hash", ast.Private},
	}
	for i, want := range cases {
		sv := c.StateVars[i]
		if sv.Name != want.name {
			t.Errorf("var[%d]: name = %q, want %q", i, sv.Name, want.name)
		}
		if got := sv.Type.String(); got != want.typ {
			t.Errorf("var[%d]: type = %q, want %q", i, got, want.typ)
		}
		if sv.Visibility != want.vis {
			t.Errorf("var[%d]: visibility = %s, want %s", i, sv.Visibility, want.vis)
		}
	}
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

func TestTypeParsing(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"primitive", "field x;", "field"},
		{"secret", "secret<uint256> x;", "secret<uint256>"},
		{"nested_secret", "secret<secret<field>> x;", "secret<secret<field>>"},
		{"sized_array", "field[8] x;", "field[8]"},
		{"unbounded_array", "bytes32[] x;", "bytes32[]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog := parse(t, "contract T { "+c.src+" }")
			sv := prog.Contracts[0].StateVars[0]
			if got := sv.Type.String(); got != c.want {
				t.Errorf("type = %q, want %q", got, c.want)
			}
		})
	}
}

func TestTypeErrors(t *testing.T) {
	parseError(t, `contract T { secret field x; }`, "'<' after 'secret'")
	parseError(t, `contract T { secret<field x; }`, "'>' closing secret type")
	parseError(t, `contract T { field[3 x; }`, "']' closing array type")
}

// ---------------------------------------------------------------------------
// Functions
// ---------------------------------------------------------------------------

func TestFunctionSignature(t *testing.T) {
	prog := parse(t, `contract Math {
    function add(field x, field y) -> field pure {
        return x + y;
    }
}`)
	fn := prog.Contracts[0].Functions[0]
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if fn.Params[0].Name != "x" || fn.Params[1].Name != "y" {
		t.Errorf("param names = %q, %q; want x, y", fn.Params[0].Name, fn.Params[1].Name)
	}
	if fn.ReturnType == nil || fn.ReturnType.String() != "field" {
		t.Errorf("return type = %v, want field", fn.ReturnType)
	}
	if fn.Mutability != ast.Pure {
		t.Errorf("mutability = %s, want pure", fn.Mutability)
	}
	if fn.Visibility != ast.Public {
		t.Errorf("visibility = %s, want public (default)", fn.Visibility)
	}
	if len(fn.Body) != 1 {
		t.Errorf("got %d statements, want 1", len(fn.Body))
	}
}

func TestFunctionModifiers(t *testing.T) {
	prog := parse(t, `contract C {
    function a() public view { }
    function b() private { }
    function c() mpc { }
    function d() onlyOwner { }
}`)
	fns := prog.Contracts[0].Functions
	if fns[0].Visibility != ast.Public || fns[0].Mutability != ast.View {
		t.Errorf("a: got %s %s, want public view", fns[0].Visibility, fns[0].Mutability)
	}
	if fns[1].Visibility != ast.Private {
		t.Errorf("b: visibility = %s, want private", fns[1].Visibility)
	}
	if fns[2].Mutability != ast.MPC {
		t.Errorf("c: mutability = %s, want mpc", fns[2].Mutability)
	}
	if !fns[3].HasModifier("onlyOwner") {
		t.Errorf("d: missing onlyOwner modifier, got %v", fns[3].Modifiers)
	}
}

func TestFunctionNoReturnType(t *testing.T) {
	prog := parse(t, `contract C { function noop() { } }`)
	if rt := prog.Contracts[0].Functions[0].ReturnType; rt != nil {
		t.Errorf("return type = %v, want nil", rt)
	}
}

func TestRawStatementBody(t *testing.T) {
	prog := parse(t, `contract C {
    function f(field x) {
        require(x > 0);
        balance = balance + x;
    }
}`)
	body := prog.Contracts[0].Functions[0].Body
	if len(body) != 2 {
		t.Fatalf("got %d statements, want 2", len(body))
	}
	raw, ok := body[0].(*ast.RawStatement)
	if !ok {
		t.Fatalf("statement type = %T, want *ast.RawStatement", body[0])
	}
	if raw.TokenLiteral() != "require" {
		t.Errorf("first statement starts with %q, want require", raw.TokenLiteral())
	}
}

// ---------------------------------------------------------------------------
// Circuits
// ---------------------------------------------------------------------------

func TestCircuitParsing(t *testing.T) {
	prog := parse(t, `contract ZK {
    circuit Knowledge {
        public field commitment;
        private witness field preimage;
        constraint hash(preimage) == commitment;
    }
}`)
	circ := prog.Contracts[0].Circuits[0]
	if circ.Name != "Knowledge" {
		t.Errorf("name = %q, want Knowledge", circ.Name)
	}
	if len(circ.Inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(circ.Inputs))
	}

	pub := circ.Inputs[0]
	if pub.Name != "commitment" || pub.Visibility != ast.Public || pub.Witness {
		t.Errorf("input[0] = %s, want public field commitment", pub)
	}
	priv := circ.Inputs[1]
	if priv.Name != "preimage" || priv.Visibility != ast.Private || !priv.Witness {
		t.Errorf("input[1] = %s, want private witness field preimage", priv)
	}

	if len(circ.Constraints) != 1 {
		t.Fatalf("got %d constraints, want 1", len(circ.Constraints))
	}
}

func TestPublicInputsOrder(t *testing.T) {
	prog := parse(t, `contract ZK {
    circuit Multi {
        public field a;
        private witness field w1;
        public bytes32 b;
        private witness field w2;
        public address c;
        constraint a == b;
    }
}`)
	pub := prog.Contracts[0].Circuits[0].PublicInputs()
	if len(pub) != 3 {
		t.Fatalf("got %d public inputs, want 3", len(pub))
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if pub[i].Name != w {
			t.Errorf("public input[%d] = %q, want %q", i, pub[i].Name, w)
		}
	}
}

// Type keywords are reserved only in type positions. Names like commitment
// or hash, common in circuit code, must stay usable for declarations.
func TestTypeKeywordsAsNames(t *testing.T) {
	prog := parse(t, `contract Pedersen {
    field commitment;

    function hash(field proof) -> field pure {
        return proof;
    }

    circuit Opening {
        public field commitment;
        private witness field witness;
        constraint pedersen(witness) == commitment;
    }
}`)
	c := prog.Contracts[0]

	if len(c.StateVars) != 1 || c.StateVars[0].Name != "commitment" {
		t.Fatalf("state vars = %v, want one named commitment", c.StateVars)
	}
	fn := c.Functions[0]
	if fn.Name != "hash" {
		t.Errorf("function name = %q, want hash", fn.Name)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "proof" {
		t.Fatalf("params = %v, want one named proof", fn.Params)
	}
	circ := c.Circuits[0]
	if len(circ.Inputs) != 2 {
		t.Fatalf("got %d circuit inputs, want 2", len(circ.Inputs))
	}
	if circ.Inputs[0].Name != "commitment" || circ.Inputs[1].Name != "witness" {
		t.Errorf("input names = %q, %q; want commitment, witness",
			circ.Inputs[0].Name, circ.Inputs[1].Name)
	}
	pub := circ.PublicInputs()
	if len(pub) != 1 || pub[0].Name != "commitment" {
		t.Errorf("public inputs = %v, want [commitment]", pub)
	}
}

func TestCircuitErrors(t *testing.T) {
	parseError(t, `contract C { circuit X { field a; } }`, "circuit input or constraint")
	parseError(t, `contract C { circuit X { constraint ; } }`, "constraint expression")
}

// ---------------------------------------------------------------------------
// Fail-fast error behavior
// ---------------------------------------------------------------------------

func TestSyntaxErrors(t *testing.T) {
	parseError(t, `function f() { }`, "contract declaration")
	parseError(t, `contract { }`, "contract name")
	parseError(t, `contract C`, "{")
	parseError(t, `contract C { function () { } }`, "function name")
	parseError(t, `contract C { field ; }`, "state variable name")
	parseError(t, `contract C { function f(field) { } }`, "parameter name")
	parseError(t, `contract C { function f() { return x }`, "';' terminating statement")
}

func TestErrorCarriesLocation(t *testing.T) {
	toks, err := lexer.Tokenize("loc.cypher", "contract C {\n  field ;\n}")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	_, err = parser.Parse(toks)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	synErr := err.(*parser.SyntaxError)
	if synErr.Got.Pos.File != "loc.cypher" {
		t.Errorf("file = %q, want loc.cypher", synErr.Got.Pos.File)
	}
	if synErr.Got.Pos.Line != 2 {
		t.Errorf("line = %d, want 2", synErr.Got.Pos.Line)
	}
}

// The first error aborts the parse; nothing after it is consumed.
func TestFailFastStopsAtFirstError(t *testing.T) {
	parseError(t, `contract A { field ; } contract B { uint256 ; }`, "state variable name")
}

// ---------------------------------------------------------------------------
// Full program
// ---------------------------------------------------------------------------

func TestCompleteProgram(t *testing.T) {
	prog := parse(t, `
contract PrivateVault {
    secret<field> balance;
    address owner public;

    function deposit(field amount) public {
        balance = balance + amount;
    }

    function computeShared(secret<field> a, secret<field> b) -> field mpc {
        return a * b;
    }

    circuit Solvency {
        public field threshold;
        private witness field actual;
        constraint actual >= threshold;
    }
}
`)
	c := prog.Contracts[0]
	if c.Name != "PrivateVault" {
		t.Errorf("name = %q, want PrivateVault", c.Name)
	}
	if len(c.StateVars) != 2 {
		t.Errorf("got %d state vars, want 2", len(c.StateVars))
	}
	if len(c.Functions) != 2 {
		t.Errorf("got %d functions, want 2", len(c.Functions))
	}
	if len(c.Circuits) != 1 {
		t.Errorf("got %d circuits, want 1", len(c.Circuits))
	}
	if c.Functions[1].Mutability != ast.MPC {
		t.Errorf("computeShared mutability = %s, want mpc", c.Functions[1].Mutability)
	}
	if got := c.Functions[1].Params[0].Type.String(); got != "secret<field>" {
		t.Errorf("param type = %q, want secret<field>", got)
	}
}
