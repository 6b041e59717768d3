// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package token defines the lexical token types for the CypherLang language.
//
// CypherLang is a contract language for secure computation: contracts hold
// state variables, ordinary functions, and zero-knowledge circuits. The token
// set therefore mixes a conventional operator/punctuation vocabulary with
// keywords for circuits, constraints, witnesses, and secret types.
package token

import "fmt"

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// Position tracks source location.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Type is the set of lexical token types.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF

	// Literals
	IDENT  // balance, Transfer, x
	INT    // 42
	HEX    // 0xdeadbeef
	STRING // "hello"

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	BANG    // !
	ASSIGN  // =
	LT      // <
	GT      // >
	ARROW   // ->

	// Multi-character operators
	EQ  // ==
	NEQ // !=
	AND // &&
	OR  // ||

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .

	// Keywords
	keywordStart
	CONTRACT // contract
	FUNCTION // function
	CIRCUIT  // circuit
	MODIFIER // modifier

	// Visibility / mutability keywords
	PRIVATE // private
	PUBLIC  // public
	PURE    // pure
	VIEW    // view
	MPC     // mpc (off-chain multi-party computation)

	// Type keywords
	FIELD      // field
	UINT256    // uint256
	BYTES32    // bytes32
	BOOL       // bool
	ADDRESS    // address
	HASH       // hash
	SIGNATURE  // signature
	PROOF      // proof
	COMMITMENT // commitment
	SECRET     // secret<T>
	WITNESS    // witness

	// Circuit keywords
	CONSTRAINT // constraint

	// Control flow keywords
	IF      // if
	ELSE    // else
	FOR     // for
	WHILE   // while
	RETURN  // return
	REQUIRE // require

	// Boolean literals
	TRUE  // true
	FALSE // false
	keywordEnd
)

var tokenNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	HEX:    "HEX",
	STRING: "STRING",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	BANG:    "!",
	ASSIGN:  "=",
	LT:      "<",
	GT:      ">",
	ARROW:   "->",

	EQ:  "==",
	NEQ: "!=",
	AND: "&&",
	OR:  "||",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	DOT:       ".",

	CONTRACT: "contract",
	FUNCTION: "function",
	CIRCUIT:  "circuit",
	MODIFIER: "modifier",

	PRIVATE: "private",
	PUBLIC:  "public",
	PURE:    "pure",
	VIEW:    "view",
	MPC:     "mpc",

	FIELD:      "field",
	UINT256:    "uint256",
	BYTES32:    "bytes32",
	BOOL:       "bool",
	ADDRESS:    "address",
	HASH:       "hash",
	SIGNATURE:  "signature",
	PROOF:      "proof",
	COMMITMENT: "commitment",
	SECRET:     "secret",
	WITNESS:    "witness",

	CONSTRAINT: "constraint",

	IF:      "if",
	ELSE:    "else",
	FOR:     "for",
	WHILE:   "while",
	RETURN:  "return",
	REQUIRE: "require",

	TRUE:  "true",
	FALSE: "false",
}

// String returns the string form of a token type.
func (t Type) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword returns true if the token is a keyword.
func (t Type) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsType returns true for keywords that name a CypherLang primitive type.
func (t Type) IsType() bool {
	return t >= FIELD && t <= WITNESS
}

// keywords maps keyword strings to token types. It is built once at package
// init and never mutated afterwards.
var keywords map[string]Type

func init() {
	keywords = make(map[string]Type)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		keywords[tokenNames[i]] = i
	}
}

// LookupIdent checks if an identifier is a reserved keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
