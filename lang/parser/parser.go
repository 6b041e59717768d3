// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package parser implements a recursive-descent parser for the CypherLang
// language.
//
// Design overview:
//
//   - The parser consumes a finished token slice produced by the lexer; it
//     never re-lexes and never backtracks.
//   - Parsing is fail-fast: the first mismatch aborts with a *SyntaxError
//     naming the expected construct, the actual token, and its location.
//     There is no error recovery or multi-error reporting.
//   - Statement bodies and constraint expressions are deliberately shallow:
//     a statement is the token run up to its terminating semicolon and a
//     constraint expression is a single-token placeholder. Structural
//     statement/expression parsing (a precedence-climbing grammar) is the
//     documented extension point for real constraint evaluation.
package parser

import (
	"fmt"
	"strconv"

	"github.com/cypherlang/go-cypher/lang/ast"
	"github.com/cypherlang/go-cypher/lang/token"
)

// SyntaxError is a fatal parse error. It carries the construct the parser
// expected, the token it actually saw, and the token's source location.
type SyntaxError struct {
	Expected string
	Got      token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: expected %s, got %s (%q)",
		e.Got.Pos, e.Expected, e.Got.Type, e.Got.Literal)
}

// Parser holds the mutable state for a single parse run over a token slice.
type Parser struct {
	tokens []token.Token
	pos    int // index of the current token
}

// New creates a Parser over a token slice. The slice must end with an EOF
// token, as produced by lexer.Tokenize.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse is the public entry point: it parses the token slice into a Program
// or fails on the first syntax error.
func Parse(tokens []token.Token) (*ast.Program, error) {
	return New(tokens).Parse()
}

// Parse runs the parser and returns the program AST.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		c, err := p.parseContract()
		if err != nil {
			return nil, err
		}
		prog.Contracts = append(prog.Contracts, c)
	}
	return prog, nil
}

// ---------------------------------------------------------------------------
// Token navigation helpers
// ---------------------------------------------------------------------------

// cur returns the current token. Past the end it returns the final EOF.
func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// advance moves to the next token. The terminal EOF is never skipped past.
func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) curIs(typ token.Type) bool { return p.cur().Type == typ }

// expect consumes and returns the current token if it matches typ; otherwise
// it fails with a SyntaxError.
func (p *Parser) expect(typ token.Type) (token.Token, error) {
	if p.cur().Type == typ {
		tok := p.cur()
		p.advance()
		return tok, nil
	}
	return token.Token{}, &SyntaxError{Expected: fmt.Sprintf("%q", typ.String()), Got: p.cur()}
}

// errExpected builds a SyntaxError for a named construct at the current token.
func (p *Parser) errExpected(construct string) error {
	return &SyntaxError{Expected: construct, Got: p.cur()}
}

// expectName consumes the current token as a declaration name. Type keywords
// are reserved only in type positions, so "commitment" or "hash" can still
// name a function, parameter, state variable, or circuit input.
func (p *Parser) expectName(construct string) (token.Token, error) {
	tok := p.cur()
	if tok.Type == token.IDENT || tok.Type.IsType() {
		p.advance()
		return tok, nil
	}
	return token.Token{}, &SyntaxError{Expected: construct, Got: tok}
}

// ---------------------------------------------------------------------------
// contract := 'contract' NAME '{' (function | circuit | stateVariable)* '}'
// ---------------------------------------------------------------------------

func (p *Parser) parseContract() (*ast.Contract, error) {
	tok, err := p.expect(token.CONTRACT)
	if err != nil {
		return nil, p.errExpected("contract declaration")
	}

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, p.errExpected("contract name")
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	c := &ast.Contract{Token: tok, Name: nameTok.Literal}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur().Type {
		case token.FUNCTION:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			c.Functions = append(c.Functions, fn)
		case token.CIRCUIT:
			circ, err := p.parseCircuit()
			if err != nil {
				return nil, err
			}
			c.Circuits = append(c.Circuits, circ)
		default:
			sv, err := p.parseStateVariable()
			if err != nil {
				return nil, err
			}
			c.StateVars = append(c.StateVars, sv)
		}
	}

	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// stateVariable := type NAME 'public'? ';'
// ---------------------------------------------------------------------------

func (p *Parser) parseStateVariable() (*ast.StateVariable, error) {
	tok := p.cur()
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expectName("state variable name")
	if err != nil {
		return nil, err
	}

	// State variables are private unless marked public.
	vis := ast.Private
	if p.curIs(token.PUBLIC) {
		vis = ast.Public
		p.advance()
	}

	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.StateVariable{
		Token:      tok,
		Name:       nameTok.Literal,
		Type:       typ,
		Visibility: vis,
	}, nil
}

// ---------------------------------------------------------------------------
// function := 'function' NAME '(' (type NAME (',' type NAME)*)? ')'
//             ('->' type)? modifier* '{' statement* '}'
// ---------------------------------------------------------------------------

func (p *Parser) parseFunction() (*ast.FunctionDecl, error) {
	tok, err := p.expect(token.FUNCTION)
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expectName("function name")
	if err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	var retType ast.TypeNode
	if p.curIs(token.ARROW) {
		p.advance()
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	fn := &ast.FunctionDecl{
		Token:      tok,
		Name:       nameTok.Literal,
		Params:     params,
		ReturnType: retType,
		Visibility: ast.Public,
	}

	// Modifier keywords between signature and body. Visibility and state
	// mutability are folded into their dedicated fields; everything else is
	// recorded verbatim.
	for !p.curIs(token.LBRACE) && !p.curIs(token.EOF) {
		switch p.cur().Type {
		case token.PUBLIC:
			fn.Visibility = ast.Public
		case token.PRIVATE:
			fn.Visibility = ast.Private
		case token.PURE:
			fn.Mutability = ast.Pure
		case token.VIEW:
			fn.Mutability = ast.View
		case token.MPC:
			fn.Mutability = ast.MPC
		case token.IDENT, token.MODIFIER:
			fn.Modifiers = append(fn.Modifiers, p.cur().Literal)
		default:
			return nil, p.errExpected("function modifier or body")
		}
		p.advance()
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// parseParamList parses "(" [ type NAME { "," type NAME } ] ")".
func (p *Parser) parseParamList() ([]*ast.Parameter, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expectName("parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Parameter{Token: nameTok, Name: nameTok.Literal, Type: typ})
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBody parses "{ statement* }" with the shallow statement rule: every
// statement is the token run up to its terminating semicolon. The tokens are
// preserved so a future statement grammar can re-parse them.
func (p *Parser) parseBody() ([]ast.Statement, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt, err := p.parseRawStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseRawStatement scans forward to the terminating semicolon, collecting
// the tokens in between.
func (p *Parser) parseRawStatement() (*ast.RawStatement, error) {
	var run []token.Token
	for !p.curIs(token.SEMICOLON) {
		if p.curIs(token.EOF) {
			return nil, p.errExpected("';' terminating statement")
		}
		run = append(run, p.cur())
		p.advance()
	}
	p.advance() // consume ';'
	return &ast.RawStatement{Tokens: run}, nil
}

// ---------------------------------------------------------------------------
// circuit := 'circuit' NAME '{'
//	            ( visibility 'witness'? type NAME ';'
//	            | 'constraint' expression ';' )*
//	          '}'
// ---------------------------------------------------------------------------

func (p *Parser) parseCircuit() (*ast.Circuit, error) {
	tok, err := p.expect(token.CIRCUIT)
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, p.errExpected("circuit name")
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	circ := &ast.Circuit{Token: tok, Name: nameTok.Literal}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur().Type {
		case token.PUBLIC, token.PRIVATE:
			in, err := p.parseCircuitInput()
			if err != nil {
				return nil, err
			}
			circ.Inputs = append(circ.Inputs, in)
		case token.CONSTRAINT:
			con, err := p.parseConstraint()
			if err != nil {
				return nil, err
			}
			circ.Constraints = append(circ.Constraints, con)
		default:
			return nil, p.errExpected("circuit input or constraint")
		}
	}

	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return circ, nil
}

func (p *Parser) parseCircuitInput() (*ast.CircuitInput, error) {
	tok := p.cur()
	vis := ast.Public
	if p.curIs(token.PRIVATE) {
		vis = ast.Private
	}
	p.advance() // consume visibility keyword

	witness := false
	if p.curIs(token.WITNESS) {
		witness = true
		p.advance()
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expectName("circuit input name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.CircuitInput{
		Token:      tok,
		Name:       nameTok.Literal,
		Type:       typ,
		Visibility: vis,
		Witness:    witness,
	}, nil
}

// parseConstraint parses "constraint expression ;". The expression is a
// single-token placeholder; any remaining tokens before the semicolon are
// skipped. Structural constraint parsing is the extension point noted in the
// package comment.
func (p *Parser) parseConstraint() (*ast.Constraint, error) {
	tok, err := p.expect(token.CONSTRAINT)
	if err != nil {
		return nil, err
	}

	if p.curIs(token.SEMICOLON) || p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return nil, p.errExpected("constraint expression")
	}
	expr := &ast.RawExpr{Token: p.cur()}
	p.advance()

	// Skip the rest of the constraint text up to the semicolon.
	for !p.curIs(token.SEMICOLON) {
		if p.curIs(token.EOF) {
			return nil, p.errExpected("';' terminating constraint")
		}
		p.advance()
	}
	p.advance() // consume ';'

	return &ast.Constraint{Token: tok, Expr: expr}, nil
}

// ---------------------------------------------------------------------------
// type := 'secret' '<' type '>' | primitiveKeyword ('[' INTEGER? ']')?
// ---------------------------------------------------------------------------

func (p *Parser) parseType() (ast.TypeNode, error) {
	if p.curIs(token.SECRET) {
		tok := p.cur()
		p.advance()
		if _, err := p.expect(token.LT); err != nil {
			return nil, p.errExpected("'<' after 'secret'")
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.GT); err != nil {
			return nil, p.errExpected("'>' closing secret type")
		}
		return &ast.SecretType{Token: tok, Inner: inner}, nil
	}

	if !p.cur().Type.IsType() {
		return nil, p.errExpected("type keyword")
	}
	tok := p.cur()
	prim := &ast.PrimitiveType{Token: tok, Name: tok.Literal}
	p.advance()

	if !p.curIs(token.LBRACKET) {
		return prim, nil
	}

	// Array suffix: '[' INTEGER? ']'
	arrTok := p.cur()
	p.advance()
	size := -1
	if p.curIs(token.INT) {
		n, err := strconv.Atoi(p.cur().Literal)
		if err != nil {
			return nil, &SyntaxError{Expected: "array size integer", Got: p.cur()}
		}
		size = n
		p.advance()
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, p.errExpected("']' closing array type")
	}
	return &ast.ArrayType{Token: arrTok, Elem: prim, Size: size}, nil
}
