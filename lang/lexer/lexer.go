// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package lexer implements a single-pass, no-backtracking lexer for the
// CypherLang language.
//
// Design:
//   - ASCII-only input, single forward pass, no restart
//   - // line comments and /* */ block comments are skipped, not emitted
//   - Hex literals (0x...) produce HEX tokens, decimal digits produce INT
//   - String literals support the escapes \n \t \r \\ \" \'
//   - Multi-character operators (==, !=, &&, ||, ->) are matched greedily
//     before single-character punctuation
//   - Any unrecognized byte aborts lexing with an Error carrying the
//     offending character and its position; no token past the fault is
//     produced
package lexer

import (
	"fmt"

	"github.com/cypherlang/go-cypher/lang/token"
)

// Error is a lexical error. It always carries the source position of the
// byte that caused it.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: lexical error: %s", e.Pos, e.Msg)
}

// Lexer holds the state for a single-pass tokenization run.
type Lexer struct {
	filename string
	input    []byte

	// pos is the index into input of the next byte to be loaded into ch.
	// After advance(), ch == input[pos-1] and pos points one past it.
	pos  int
	line int // 1-based current line number
	col  int // 1-based current column number

	ch byte // current character; 0 when past end
}

// New creates a new Lexer for the given filename and input string.
func New(filename, input string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    []byte(input),
		line:     1,
		col:      0,
	}
	l.advance() // prime l.ch with the first byte
	return l
}

// advance moves to the next byte in the input, updating line/column tracking.
// When the end of input is reached, ch is set to 0.
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

// peek returns the byte after the current character without consuming it.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// currentPos returns a token.Position capturing the lexer's state right now.
// Call this before consuming the first character of a token.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		File:   l.filename,
		Line:   l.line,
		Column: l.col,
		Offset: l.pos - 1,
	}
}

func makeToken(typ token.Type, literal string, pos token.Position) token.Token {
	return token.Token{Type: typ, Literal: literal, Pos: pos}
}

// skipWhitespaceAndComments consumes whitespace, line comments, and block
// comments. An unterminated block comment is a lexical error.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.advance()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
		case l.ch == '/' && l.peek() == '*':
			pos := l.currentPos()
			l.advance() // consume '/'
			l.advance() // consume '*'
			for {
				if l.ch == 0 {
					return &Error{Pos: pos, Msg: "unterminated block comment"}
				}
				if l.ch == '*' && l.peek() == '/' {
					l.advance() // consume '*'
					l.advance() // consume '/'
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
}

// NextToken scans and returns the next token from the input. After EOF is
// reached, subsequent calls continue returning EOF tokens.
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.currentPos()
	ch := l.ch

	if ch == 0 {
		return makeToken(token.EOF, "", pos), nil
	}

	l.advance() // consume ch; from here on, l.ch is the character AFTER ch

	switch {
	// -------------------------------------------------------------------------
	// Identifiers and keywords
	// -------------------------------------------------------------------------
	case isIdentStart(ch):
		lit := l.readIdentFromFirst(ch)
		typ := token.LookupIdent(lit)
		return makeToken(typ, lit, pos), nil

	// -------------------------------------------------------------------------
	// Numeric literals: decimal or 0x hex
	// -------------------------------------------------------------------------
	case isDigit(ch):
		typ, lit := l.readNumberFromFirst(ch)
		return makeToken(typ, lit, pos), nil

	// -------------------------------------------------------------------------
	// String literals
	// -------------------------------------------------------------------------
	case ch == '"':
		lit, err := l.readStringBody(pos)
		if err != nil {
			return token.Token{}, err
		}
		return makeToken(token.STRING, lit, pos), nil

	// -------------------------------------------------------------------------
	// Operators: multi-character forms first
	// -------------------------------------------------------------------------
	case ch == '=':
		if l.ch == '=' {
			l.advance()
			return makeToken(token.EQ, "==", pos), nil
		}
		return makeToken(token.ASSIGN, "=", pos), nil

	case ch == '!':
		if l.ch == '=' {
			l.advance()
			return makeToken(token.NEQ, "!=", pos), nil
		}
		return makeToken(token.BANG, "!", pos), nil

	case ch == '&':
		if l.ch == '&' {
			l.advance()
			return makeToken(token.AND, "&&", pos), nil
		}
		return token.Token{}, &Error{Pos: pos, Msg: "unexpected character '&' (did you mean '&&'?)"}

	case ch == '|':
		if l.ch == '|' {
			l.advance()
			return makeToken(token.OR, "||", pos), nil
		}
		return token.Token{}, &Error{Pos: pos, Msg: "unexpected character '|' (did you mean '||'?)"}

	case ch == '-':
		if l.ch == '>' {
			l.advance()
			return makeToken(token.ARROW, "->", pos), nil
		}
		return makeToken(token.MINUS, "-", pos), nil

	// -------------------------------------------------------------------------
	// Single-character operators and punctuation
	// -------------------------------------------------------------------------
	case ch == '+':
		return makeToken(token.PLUS, "+", pos), nil
	case ch == '*':
		return makeToken(token.STAR, "*", pos), nil
	case ch == '/':
		return makeToken(token.SLASH, "/", pos), nil
	case ch == '%':
		return makeToken(token.PERCENT, "%", pos), nil
	case ch == '<':
		return makeToken(token.LT, "<", pos), nil
	case ch == '>':
		return makeToken(token.GT, ">", pos), nil
	case ch == '(':
		return makeToken(token.LPAREN, "(", pos), nil
	case ch == ')':
		return makeToken(token.RPAREN, ")", pos), nil
	case ch == '[':
		return makeToken(token.LBRACKET, "[", pos), nil
	case ch == ']':
		return makeToken(token.RBRACKET, "]", pos), nil
	case ch == '{':
		return makeToken(token.LBRACE, "{", pos), nil
	case ch == '}':
		return makeToken(token.RBRACE, "}", pos), nil
	case ch == ',':
		return makeToken(token.COMMA, ",", pos), nil
	case ch == ';':
		return makeToken(token.SEMICOLON, ";", pos), nil
	case ch == ':':
		return makeToken(token.COLON, ":", pos), nil
	case ch == '.':
		return makeToken(token.DOT, ".", pos), nil
	}

	return token.Token{}, &Error{
		Pos: pos,
		Msg: fmt.Sprintf("unexpected character %q", string([]byte{ch})),
	}
}

// Tokenize returns all tokens (including the final EOF) produced by repeated
// calls to NextToken. On a lexical error it returns nil and the error; no
// token past the fault is produced.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// Tokenize is the package-level convenience entry point used by the CLI and
// the parser tests: it lexes source in a single pass.
func Tokenize(filename, source string) ([]token.Token, error) {
	return New(filename, source).Tokenize()
}

// ---------------------------------------------------------------------------
// Internal readers. Each assumes the first character has already been
// consumed by the advance() call inside NextToken.
// ---------------------------------------------------------------------------

// readIdentFromFirst builds an identifier literal starting with the already-
// consumed byte `first`, then consuming subsequent ident-continue bytes.
func (l *Lexer) readIdentFromFirst(first byte) string {
	buf := make([]byte, 1, 16)
	buf[0] = first
	for isIdentContinue(l.ch) {
		buf = append(buf, l.ch)
		l.advance()
	}
	return string(buf)
}

// readNumberFromFirst parses an integer or hex literal given the already-
// consumed first digit `first`.
//
//   - "0x..." or "0X..."  →  HEX
//   - digits              →  INT
func (l *Lexer) readNumberFromFirst(first byte) (token.Type, string) {
	buf := make([]byte, 1, 24)
	buf[0] = first

	if first == '0' && (l.ch == 'x' || l.ch == 'X') {
		buf = append(buf, l.ch)
		l.advance() // consume 'x'/'X'
		for isHexDigit(l.ch) {
			buf = append(buf, l.ch)
			l.advance()
		}
		return token.HEX, string(buf)
	}

	for isDigit(l.ch) {
		buf = append(buf, l.ch)
		l.advance()
	}
	return token.INT, string(buf)
}

// readStringBody reads the content of a string literal after the opening '"'
// has been consumed. The returned literal includes both quote characters.
// Escape sequences are preserved verbatim; no decoding happens while lexing.
func (l *Lexer) readStringBody(start token.Position) (string, error) {
	buf := make([]byte, 1, 32)
	buf[0] = '"'
	for {
		switch l.ch {
		case 0, '\n':
			return "", &Error{Pos: start, Msg: "unterminated string literal"}
		case '\\':
			buf = append(buf, '\\')
			l.advance() // consume '\'
			switch l.ch {
			case 'n', 't', 'r', '\\', '"', '\'':
				buf = append(buf, l.ch)
				l.advance()
			case 0:
				return "", &Error{Pos: start, Msg: "unterminated string literal"}
			default:
				return "", &Error{
					Pos: start,
					Msg: fmt.Sprintf("invalid escape sequence '\\%s'", string([]byte{l.ch})),
				}
			}
		case '"':
			buf = append(buf, '"')
			l.advance() // consume closing '"'
			return string(buf), nil
		default:
			buf = append(buf, l.ch)
			l.advance()
		}
	}
}

// ---------------------------------------------------------------------------
// Character classification helpers
// ---------------------------------------------------------------------------

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
