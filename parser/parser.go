//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/errs"
	"github.com/mpst-lang/mpstgo/gtype"
)

// Syntax selects which concrete grammar Parse reads.
type Syntax int

const (
	// MPST is the terser arrow-based grammar spec.md's own examples use:
	// "protocol Name(A, B) { A->B:label(x: int); ... }".
	MPST Syntax = iota
	// Scribble is the role-declaration-header grammar: a leading
	// "role A, B;" declaration followed by
	// "global protocol Name(role A, role B) { ... }", sharing MPST's body
	// grammar.
	Scribble
)

// ParseFile reads name and parses it under syntax, returning one
// *gtype.Protocol per declared protocol, keyed by name.
func ParseFile(name string, syntax Syntax) (map[string]*gtype.Protocol, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	defer f.Close()
	return Parse(name, f, syntax)
}

// Parse reads every protocol declaration from r and parses it under syntax.
func Parse(name string, r io.Reader, syntax Syntax) (map[string]*gtype.Protocol, error) {
	p := &parser{l: newLexer(name, r), syntax: syntax}
	out := map[string]*gtype.Protocol{}
	for p.peek().kind != tokEOF {
		proto, err := p.parseProtocol()
		if err != nil {
			return nil, &errs.ParseError{Excerpt: p.excerpt(), Err: err}
		}
		out[proto.Name] = proto
	}
	return out, nil
}

type parser struct {
	l      *lexer
	syntax Syntax
}

func (p *parser) peek() token        { return p.l.peek() }
func (p *parser) peekAt(n int) token { return p.l.peekAt(n) }
func (p *parser) next() token        { return p.l.next() }

func (p *parser) excerpt() string {
	t := p.peek()
	if t.text != "" {
		return t.text
	}
	return "<eof>"
}

func (p *parser) expectKeyword(kw string) (token, error) {
	t := p.peek()
	if t.kind != tokKeyword || t.text != kw {
		return token{}, p.l.errorf("expected %q, found %q", kw, t.text)
	}
	return p.next(), nil
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return token{}, p.l.errorf("expected %s, found %q", what, t.text)
	}
	return p.next(), nil
}

func (p *parser) expectIdent() (string, error) {
	t, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return "", err
	}
	return t.text, nil
}

// parseProtocol parses one "protocol Name(roles) { body }" declaration
// (MPST) or "global protocol Name(role A, ...) { body }" (Scribble). A
// leading "role A, B;" declaration list, if present, is consumed and
// discarded: the role list in the protocol header is authoritative.
func (p *parser) parseProtocol() (*gtype.Protocol, error) {
	if p.syntax == Scribble {
		for p.peek().kind == tokKeyword && p.peek().text == "role" {
			if err := p.skipRoleDecl(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expectKeyword("global"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectKeyword("protocol"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	roles, err := p.parseRoleList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}
	return &gtype.Protocol{Name: name, Roles: roles, Body: body}, nil
}

// skipRoleDecl consumes "role A, B, C;" and discards it.
func (p *parser) skipRoleDecl() error {
	if _, err := p.expectKeyword("role"); err != nil {
		return err
	}
	for {
		if _, err := p.expectIdent(); err != nil {
			return err
		}
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	_, err := p.expect(tokSemi, ";")
	return err
}

// parseRoleList parses a comma-separated role list inside a protocol
// header. In Scribble form each entry is prefixed with "role".
func (p *parser) parseRoleList() ([]string, error) {
	var roles []string
	for {
		if p.syntax == Scribble && p.peek().kind == tokKeyword && p.peek().text == "role" {
			p.next()
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		roles = append(roles, name)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	return roles, nil
}

// parseSequence parses a ';'-separated run of interaction statements
// terminated by the enclosing '}', folding each into the continuation of
// the one before it. The base case (the next token is the closing brace)
// yields an implicit End, so a body with no explicit "end;" still
// terminates.
func (p *parser) parseSequence() (gtype.Type, error) {
	if p.peek().kind == tokRBrace {
		return gtype.End{}, nil
	}
	first, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	rest, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	return appendCont(first, rest), nil
}

// appendCont splices rest onto the end of first's continuation chain.
func appendCont(first, rest gtype.Type) gtype.Type {
	switch n := first.(type) {
	case nil:
		return rest
	case *gtype.Msg:
		return &gtype.Msg{Action: n.Action, Cont: appendCont(n.Cont, rest)}
	case *gtype.Rec:
		return &gtype.Rec{TVar: n.TVar, Body: appendCont(n.Body, rest)}
	case gtype.End:
		return rest
	case *gtype.Var:
		return n
	case *gtype.Choice:
		branches := make([]gtype.Type, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = appendCont(b, rest)
		}
		return &gtype.Choice{Role: n.Role, Branches: branches}
	default:
		return first
	}
}

// parseStatement parses a single interaction: a message transfer, a mixed
// choice, a recursion binder, a recursion reference, or "end".
func (p *parser) parseStatement() (gtype.Type, error) {
	t := p.peek()
	switch {
	case t.kind == tokKeyword && t.text == "end":
		p.next()
		p.skipOptionalSemi()
		return gtype.End{}, nil

	case t.kind == tokKeyword && t.text == "choice":
		return p.parseChoice()

	case t.kind == tokKeyword && t.text == "rec":
		return p.parseRec()

	case t.kind == tokKeyword && t.text == "continue":
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		p.skipOptionalSemi()
		return &gtype.Var{TVar: name}, nil

	case t.kind == tokIdent:
		return p.parseMessage()

	default:
		return nil, p.l.errorf("unexpected token %q while parsing a statement", t.text)
	}
}

func (p *parser) skipOptionalSemi() {
	if p.peek().kind == tokSemi {
		p.next()
	}
}

// parseMessage parses "Sender->Receiver:label(name: type, ...);".
func (p *parser) parseMessage() (gtype.Type, error) {
	sender, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokArrow, "->"); err != nil {
		return nil, err
	}
	receiver, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, ":"); err != nil {
		return nil, err
	}
	label, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	payloads, err := p.parsePayloads()
	if err != nil {
		return nil, err
	}
	p.skipOptionalSemi()
	ga := action.NewGlobal(sender, receiver, label, payloads)
	return &gtype.Msg{Action: ga}, nil
}

// parsePayloads parses the optional "(name: type, ...)" payload list.
func (p *parser) parsePayloads() ([]action.Payload, error) {
	if p.peek().kind != tokLParen {
		return nil, nil
	}
	p.next()
	var payloads []action.Payload
	if p.peek().kind == tokRParen {
		p.next()
		return payloads, nil
	}
	for {
		pay, err := p.parsePayload()
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, pay)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return payloads, nil
}

// parsePayload parses "name: type" or a bare "type" (an unnamed payload,
// which receives a positional default name downstream).
func (p *parser) parsePayload() (action.Payload, error) {
	first, err := p.expectIdent()
	if err != nil {
		return action.Payload{}, err
	}
	if p.peek().kind == tokColon {
		p.next()
		typ, err := p.expectIdent()
		if err != nil {
			return action.Payload{}, err
		}
		return action.Payload{Name: first, Type: typ}, nil
	}
	return action.Payload{Type: first}, nil
}

// parseChoice parses "choice { branch } or { branch } or ...". Role is
// left empty here: the original per-role "decision maker" concept from
// the source is a global-choice annotation some surface syntaxes drop;
// project.Project does not consult GChoice.Role, only projectable's
// leader analysis (computed post-projection from first-action sets), so
// its absence here does not weaken the check.
func (p *parser) parseChoice() (gtype.Type, error) {
	if _, err := p.expectKeyword("choice"); err != nil {
		return nil, err
	}
	var branches []gtype.Type
	for {
		if _, err := p.expect(tokLBrace, "{"); err != nil {
			return nil, err
		}
		branch, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBrace, "}"); err != nil {
			return nil, err
		}
		branches = append(branches, branch)
		if p.peek().kind == tokKeyword && p.peek().text == "or" {
			p.next()
			continue
		}
		break
	}
	return &gtype.Choice{Branches: branches}, nil
}

// parseRec parses "rec t { body }".
func (p *parser) parseRec() (gtype.Type, error) {
	if _, err := p.expectKeyword("rec"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}
	return &gtype.Rec{TVar: name, Body: body}, nil
}
