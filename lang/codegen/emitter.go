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
)

// emitter accumulates indented source text. It is the only mutable state a
// generator carries, which keeps generator instances invocation-scoped.
type emitter struct {
	buf    strings.Builder
	indent int
	tab    string
}

func newEmitter(tab string) *emitter {
	return &emitter{tab: tab}
}

// line writes one indented line. An empty format writes a blank line without
// indentation.
func (e *emitter) line(format string, args ...interface{}) {
	if format == "" {
		e.buf.WriteByte('\n')
		return
	}
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.tab)
	}
	if len(args) > 0 {
		fmt.Fprintf(&e.buf, format, args...)
	} else {
		e.buf.WriteString(format)
	}
	e.buf.WriteByte('\n')
}

// raw writes one indented line verbatim. Use it for literal output that
// contains '%', which line would treat as a printf directive.
func (e *emitter) raw(s string) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.tab)
	}
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e *emitter) in() { e.indent++ }

func (e *emitter) out() {
	if e.indent > 0 {
		e.indent--
	}
}

func (e *emitter) String() string { return e.buf.String() }

// lowerFirst converts the first byte to lower case: "Knowledge" → "knowledge".
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+'a'-'A') + s[1:]
	}
	return s
}

// upperFirst converts the first byte to upper case: "knowledge" → "Knowledge".
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
