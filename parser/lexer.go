//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package parser turns protocol source text into gtype.Protocol ASTs. Two
// concrete surface syntaxes are supported, selected by Syntax: Scribble
// (role-declaration header, "global protocol") and the terser MPST form
// spec.md's own examples use ("protocol Name(...) { ... }"); both share the
// same body grammar — message transfer, mixed choice, recursion — and
// build identical trees.
//
// No parser-combinator or lexer-generator library appears anywhere in the
// retrieved example pack, so the lexer below is a small hand-rolled
// scanner over text/scanner, and the grammar a straightforward recursive
// descent — the same approach Go's own standard library parsers use.
package parser

import (
	"fmt"
	"io"
	"strings"
	"text/scanner"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokArrow    // ->
	tokColon    // :
	tokComma    // ,
	tokSemi     // ;
	tokLParen   // (
	tokRParen   // )
	tokLBrace   // {
	tokRBrace   // }
	tokKeyword  // recognized keyword, Text holds the lowercased keyword
)

var keywords = map[string]bool{
	"global":   true,
	"protocol": true,
	"role":     true,
	"choice":   true,
	"or":       true,
	"rec":      true,
	"continue": true,
	"end":      true,
}

type token struct {
	kind tokenKind
	text string
	pos  scanner.Position
}

type lexer struct {
	s    scanner.Scanner
	toks []token
	pos  int
}

func newLexer(name string, r io.Reader) *lexer {
	var s scanner.Scanner
	s.Init(r)
	s.Filename = name
	s.Mode = scanner.ScanIdents | scanner.ScanInts
	l := &lexer{}
	l.tokenize(&s)
	return l
}

func (l *lexer) tokenize(s *scanner.Scanner) {
	for {
		tok := s.Scan()
		if tok == scanner.EOF {
			l.toks = append(l.toks, token{kind: tokEOF, pos: s.Pos()})
			return
		}
		pos := s.Pos()
		switch tok {
		case scanner.Ident:
			text := s.TokenText()
			if keywords[strings.ToLower(text)] {
				l.toks = append(l.toks, token{kind: tokKeyword, text: strings.ToLower(text), pos: pos})
			} else {
				l.toks = append(l.toks, token{kind: tokIdent, text: text, pos: pos})
			}
		case ':':
			l.toks = append(l.toks, token{kind: tokColon, text: ":", pos: pos})
		case ',':
			l.toks = append(l.toks, token{kind: tokComma, text: ",", pos: pos})
		case ';':
			l.toks = append(l.toks, token{kind: tokSemi, text: ";", pos: pos})
		case '(':
			l.toks = append(l.toks, token{kind: tokLParen, text: "(", pos: pos})
		case ')':
			l.toks = append(l.toks, token{kind: tokRParen, text: ")", pos: pos})
		case '{':
			l.toks = append(l.toks, token{kind: tokLBrace, text: "{", pos: pos})
		case '}':
			l.toks = append(l.toks, token{kind: tokRBrace, text: "}", pos: pos})
		case '-':
			if s.Peek() == '>' {
				s.Next()
				l.toks = append(l.toks, token{kind: tokArrow, text: "->", pos: pos})
			} else {
				l.toks = append(l.toks, token{kind: tokIdent, text: "-", pos: pos})
			}
		default:
			r := rune(tok)
			if r == '→' { // '→'
				l.toks = append(l.toks, token{kind: tokArrow, text: "->", pos: pos})
				continue
			}
			l.toks = append(l.toks, token{kind: tokIdent, text: string(r), pos: pos})
		}
	}
}

func (l *lexer) peek() token {
	return l.toks[l.pos]
}

func (l *lexer) peekAt(offset int) token {
	i := l.pos + offset
	if i >= len(l.toks) {
		return l.toks[len(l.toks)-1]
	}
	return l.toks[i]
}

func (l *lexer) next() token {
	t := l.toks[l.pos]
	if l.pos < len(l.toks)-1 {
		l.pos++
	}
	return t
}

func (l *lexer) errorf(format string, args ...any) error {
	pos := l.peek().pos
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}
