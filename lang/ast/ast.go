// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package ast defines the Abstract Syntax Tree for the CypherLang language.
//
// Design overview:
//
//   - All AST nodes implement the Node interface via TokenLiteral and String.
//   - TypeNode, Statement, and Expression are closed marker interfaces; the
//     code generators dispatch over them with exhaustive type switches rather
//     than an open visitor interface, so a new node kind cannot silently slip
//     past a backend.
//   - The tree is position-annotated via token.Token so error messages can
//     reference source locations.
//   - Nodes are immutable once the parser returns; the code generators treat
//     the tree as read-only input.
//
// Statement bodies and constraint expressions are intentionally shallow:
// RawStatement holds the token run up to its terminating semicolon and
// RawExpr holds a single token. Structural statement/expression parsing is a
// known extension point, not an oversight; see the parser package.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cypherlang/go-cypher/lang/token"
)

// ---------------------------------------------------------------------------
// Core interfaces
// ---------------------------------------------------------------------------

// Node is the base interface that every AST node must implement.
type Node interface {
	// TokenLiteral returns the literal value of the token that originated this
	// node. Used primarily for debugging and testing.
	TokenLiteral() string

	// String returns a human-readable representation of the node suitable for
	// unit tests and debug output.
	String() string
}

// TypeNode is a marker interface for all type annotation nodes.
type TypeNode interface {
	Node
	typeNode()
}

// Statement is a marker interface for all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is a marker interface for all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// Visibility is the access level of a state variable, function, or circuit
// input.
type Visibility int

const (
	Public Visibility = iota
	Private
)

func (v Visibility) String() string {
	if v == Private {
		return "private"
	}
	return "public"
}

// Mutability is the optional state-mutability annotation on a function.
type Mutability int

const (
	// NonPayable is the default: the function may read and write state.
	NonPayable Mutability = iota
	// Pure functions touch no state.
	Pure
	// View functions read but never write state.
	View
	// MPC functions execute off-chain through a multi-party computation
	// protocol and are never directly invocable on-chain.
	MPC
)

func (m Mutability) String() string {
	switch m {
	case Pure:
		return "pure"
	case View:
		return "view"
	case MPC:
		return "mpc"
	}
	return ""
}

// ---------------------------------------------------------------------------
// Program, the root of every parse tree
// ---------------------------------------------------------------------------

// Program is the top-level AST node. It holds all contracts found in a
// source file, in declaration order.
type Program struct {
	Contracts []*Contract
}

func (p *Program) TokenLiteral() string {
	if len(p.Contracts) > 0 {
		return p.Contracts[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, c := range p.Contracts {
		out.WriteString(c.String())
		out.WriteByte('\n')
	}
	return out.String()
}

// ---------------------------------------------------------------------------
// Type nodes
// ---------------------------------------------------------------------------

// PrimitiveType is a built-in named type: field, uint256, bytes32, bool,
// address, hash, signature, proof, commitment, witness.
type PrimitiveType struct {
	Token token.Token // the type keyword token
	Name  string
}

func (t *PrimitiveType) typeNode()            {}
func (t *PrimitiveType) TokenLiteral() string { return t.Token.Literal }
func (t *PrimitiveType) String() string       { return t.Name }

// SecretType wraps another type as confidential: secret<T>.
// Secret values exist only inside circuits and MPC functions; backends map
// the wrapper away and track confidentiality out of band.
type SecretType struct {
	Token token.Token // 'secret'
	Inner TypeNode
}

func (t *SecretType) typeNode()            {}
func (t *SecretType) TokenLiteral() string { return t.Token.Literal }
func (t *SecretType) String() string       { return "secret<" + t.Inner.String() + ">" }

// ArrayType is an array of a primitive element type: T[N] or T[].
// Size is -1 for unbounded arrays.
type ArrayType struct {
	Token token.Token // '['
	Elem  TypeNode
	Size  int // -1 when unbounded
}

func (t *ArrayType) typeNode()            {}
func (t *ArrayType) TokenLiteral() string { return t.Token.Literal }
func (t *ArrayType) String() string {
	if t.Size < 0 {
		return t.Elem.String() + "[]"
	}
	return t.Elem.String() + "[" + strconv.Itoa(t.Size) + "]"
}

// ---------------------------------------------------------------------------
// Placeholder statement / expression nodes
// ---------------------------------------------------------------------------

// RawStatement is the deliberately coarse statement representation: the
// ordered run of tokens from the statement's first token up to (but not
// including) its terminating semicolon. Function bodies are not structurally
// parsed; a real statement grammar is the documented extension point.
type RawStatement struct {
	Tokens []token.Token
}

func (s *RawStatement) statementNode() {}
func (s *RawStatement) TokenLiteral() string {
	if len(s.Tokens) > 0 {
		return s.Tokens[0].Literal
	}
	return ""
}
func (s *RawStatement) String() string {
	parts := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		parts[i] = t.Literal
	}
	return strings.Join(parts, " ") + ";"
}

// RawExpr is the single-token expression placeholder used for constraint
// expressions. Constraint bodies are recorded, not evaluated; a
// precedence-climbing expression grammar is the documented extension point.
type RawExpr struct {
	Token token.Token
}

func (e *RawExpr) expressionNode()      {}
func (e *RawExpr) TokenLiteral() string { return e.Token.Literal }
func (e *RawExpr) String() string       { return e.Token.Literal }

// ---------------------------------------------------------------------------
// Contract members
// ---------------------------------------------------------------------------

// Parameter is a single "type name" pair in a function signature.
type Parameter struct {
	Token token.Token // the IDENT token of the name
	Name  string
	Type  TypeNode
}

func (p *Parameter) String() string { return p.Type.String() + " " + p.Name }

// StateVariable is a contract-level variable declaration: type NAME [public];
type StateVariable struct {
	Token      token.Token // first token of the type
	Name       string
	Type       TypeNode
	Visibility Visibility
}

func (v *StateVariable) TokenLiteral() string { return v.Token.Literal }
func (v *StateVariable) String() string {
	s := v.Type.String() + " " + v.Name
	if v.Visibility == Public {
		s += " public"
	}
	return s + ";"
}

// FunctionDecl is a contract function:
//
//	function name(type a, type b) -> retType modifier* { body }
type FunctionDecl struct {
	Token      token.Token // 'function'
	Name       string
	Params     []*Parameter
	ReturnType TypeNode // nil when the function returns nothing
	Modifiers  []string // raw modifier keywords in source order
	Visibility Visibility
	Mutability Mutability
	Body       []Statement
}

func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) String() string {
	var out bytes.Buffer
	out.WriteString("function ")
	out.WriteString(f.Name)
	out.WriteString("(")
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if f.ReturnType != nil {
		out.WriteString(" -> ")
		out.WriteString(f.ReturnType.String())
	}
	for _, m := range f.Modifiers {
		out.WriteString(" ")
		out.WriteString(m)
	}
	return out.String()
}

// HasModifier reports whether the function carries the given modifier keyword.
func (f *FunctionDecl) HasModifier(name string) bool {
	for _, m := range f.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// CircuitInput is a typed input declaration inside a circuit:
//
//	public field root;
//	private witness field leaf;
type CircuitInput struct {
	Token      token.Token // visibility keyword token
	Name       string
	Type       TypeNode
	Visibility Visibility
	Witness    bool // true when declared with the 'witness' keyword
}

func (i *CircuitInput) TokenLiteral() string { return i.Token.Literal }
func (i *CircuitInput) String() string {
	s := i.Visibility.String()
	if i.Witness {
		s += " witness"
	}
	return s + " " + i.Type.String() + " " + i.Name + ";"
}

// Constraint wraps one parsed constraint expression inside a circuit.
type Constraint struct {
	Token token.Token // 'constraint'
	Expr  Expression
}

func (c *Constraint) TokenLiteral() string { return c.Token.Literal }
func (c *Constraint) String() string       { return "constraint " + c.Expr.String() + ";" }

// Circuit is a named zero-knowledge circuit: a set of typed public/private
// inputs plus the boolean constraints a valid witness must satisfy.
//
// The ordered subset of Inputs with public visibility determines, in
// declaration order, the public-input arity of every generated verifier.
type Circuit struct {
	Token       token.Token // 'circuit'
	Name        string
	Inputs      []*CircuitInput
	Constraints []*Constraint
}

func (c *Circuit) TokenLiteral() string { return c.Token.Literal }
func (c *Circuit) String() string {
	var out bytes.Buffer
	out.WriteString("circuit ")
	out.WriteString(c.Name)
	out.WriteString(" { ")
	for _, in := range c.Inputs {
		out.WriteString(in.String())
		out.WriteString(" ")
	}
	for _, con := range c.Constraints {
		out.WriteString(con.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// PublicInputs returns the circuit's public inputs in declaration order.
func (c *Circuit) PublicInputs() []*CircuitInput {
	var pub []*CircuitInput
	for _, in := range c.Inputs {
		if in.Visibility == Public {
			pub = append(pub, in)
		}
	}
	return pub
}

// Contract is a top-level contract declaration holding state variables,
// functions, and circuits in their source order.
type Contract struct {
	Token     token.Token // 'contract'
	Name      string
	StateVars []*StateVariable
	Functions []*FunctionDecl
	Circuits  []*Circuit
}

func (c *Contract) TokenLiteral() string { return c.Token.Literal }
func (c *Contract) String() string {
	var out bytes.Buffer
	out.WriteString("contract ")
	out.WriteString(c.Name)
	out.WriteString(" { ")
	for _, v := range c.StateVars {
		out.WriteString(v.String())
		out.WriteString(" ")
	}
	for _, f := range c.Functions {
		out.WriteString(f.String())
		out.WriteString(" ")
	}
	for _, circ := range c.Circuits {
		out.WriteString(circ.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}
