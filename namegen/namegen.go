//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package namegen hands out collision-free Go identifiers for a protocol's
// generated artefacts (message types, channels, loop labels) and for the
// recursion variables renamed during normalisation.
//
// It is grounded on the original tool's namegen.NameGen (sequential "_2",
// "_3", ... suffixing) and sanitizes raw identifiers the way
// goadesign-goa-ai/codegen/naming.SanitizeToken does.
package namegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Generator allocates unique identifiers within a named scope. A name is
// only checked against earlier names of the same scope in the same
// Generator. The codegen package uses separate Generators for message
// names, channel names and each role's loop labels; cmd/mpstgen uses one
// per protocol to rename recursion variables.
type Generator struct {
	// scopes maps a scope name (e.g. "channel", "callback", "label") to the
	// next numeric suffix to try for each base identifier already seen in
	// that scope.
	scopes map[string]map[string]int
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{scopes: make(map[string]map[string]int)}
}

// Unique returns a Go identifier derived from name that has not previously
// been returned for this scope. The first request for a given base name
// returns the sanitized name unchanged; subsequent requests append "_2",
// "_3", and so on, mirroring the original tool's NameGen.unique_name.
func (g *Generator) Unique(scope, name string) string {
	base := Sanitize(name, "v")
	names, ok := g.scopes[scope]
	if !ok {
		names = make(map[string]int)
		g.scopes[scope] = names
	}

	if _, seen := names[base]; !seen {
		names[base] = 2
		return base
	}

	uid := names[base]
	candidate := suffixed(base, uid)
	for {
		if _, taken := names[candidate]; !taken {
			break
		}
		uid++
		candidate = suffixed(base, uid)
	}
	names[base] = uid + 1
	names[candidate] = 2
	return candidate
}

// UniqueFallback behaves like Unique, but if a thousand numeric suffixes all
// collide (pathological input, not expected in practice) it appends a short
// UUID-derived tag instead of looping forever.
func (g *Generator) UniqueFallback(scope, name string) string {
	base := Sanitize(name, "v")
	names := g.scopes[scope]
	if names == nil {
		names = make(map[string]int)
		g.scopes[scope] = names
	}
	for attempt := 0; attempt < 1000; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = suffixed(base, attempt+1)
		}
		if _, taken := names[candidate]; !taken {
			names[candidate] = 2
			return candidate
		}
	}
	tag := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	candidate := base + "_" + tag
	names[candidate] = 2
	return candidate
}

func suffixed(base string, uid int) string {
	return fmt.Sprintf("%s_%d", base, uid)
}

// Sanitize converts an arbitrary string (a role name, a protocol label) into
// a valid, idiomatic Go identifier fragment: lower_snake_case, letters,
// digits and underscore only, never starting with a digit. When the
// sanitized result would be empty, it returns fallback.
func Sanitize(name, fallback string) string {
	var b strings.Builder
	prevUnderscore := false
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			// An upper-case letter starts a new word unless it continues a
			// run of capitals ("ID" in "OrderID" stays one word).
			newWord := i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if newWord && !prevUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevUnderscore = false
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_':
			if !prevUnderscore {
				b.WriteRune('_')
			}
			prevUnderscore = true
		default:
			if !prevUnderscore {
				b.WriteRune('_')
			}
			prevUnderscore = true
		}
	}
	s := strings.Trim(b.String(), "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if s == "" {
		return fallback
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// Exported renders a sanitized identifier in exported (Go public) form,
// e.g. "buyer" -> "Buyer", used for generated type and method names.
func Exported(name, fallback string) string {
	s := Sanitize(name, fallback)
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
