//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Package codegen turns a protocol's per-role canonical local types (the
// output of the dfa package) into a runnable Go package: one message type
// per distinct label, one channel type per communicating role pair, a
// callback interface per role through which the generated code asks the
// caller's business logic which branch to take, and an entry point that
// wires every role's goroutine together with golang.org/x/sync/errgroup.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"text/template"

	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/namegen"
)

// Options controls how Go code is generated for a protocol.
type Options struct {
	// PackageName is the package name of the generated entry-point file
	// host.go (defaults to "protocol"); the other files use the package
	// named after their directory.
	PackageName string
	// RootPkg is the import path new files are written under; generated
	// files import their sibling packages relative to it.
	RootPkg string
}

// Option is a functional option for Generate.
type Option func(*Options)

// WithPackageName sets the package name of the generated host.go.
func WithPackageName(name string) Option {
	return func(o *Options) { o.PackageName = name }
}

// WithRootPkg records the import path generated files are written under.
func WithRootPkg(path string) Option {
	return func(o *Options) { o.RootPkg = path }
}

// Output holds the generated Go source, keyed by relative file path
// (e.g. "messages/messages.go").
type Output struct {
	Files map[string][]byte
}

// Generate produces the full package for protocol, given every role's
// canonical local type (post dfa.Build) and the protocol's role list.
func Generate(protocolName string, locals map[string]ltype.Type, roles []string, opts ...Option) (*Output, error) {
	o := Options{PackageName: "protocol"}
	for _, apply := range opts {
		apply(&o)
	}

	sortedRoles := append([]string(nil), roles...)
	sort.Strings(sortedRoles)

	gen := namegen.New()
	msgs, err := collectMessages(protocolName, locals, sortedRoles)
	if err != nil {
		return nil, err
	}
	chans := collectChannels(locals, sortedRoles, gen)

	out := &Output{Files: map[string][]byte{}}

	messagesSrc, err := renderMessages(o, msgs)
	if err != nil {
		return nil, err
	}
	out.Files["messages/messages.go"] = messagesSrc

	channelsSrc, err := renderChannels(o, chans)
	if err != nil {
		return nil, err
	}
	out.Files["channels/channels.go"] = channelsSrc

	callbacksSrc, err := renderCallbacks(o, sortedRoles, locals, msgs)
	if err != nil {
		return nil, err
	}
	out.Files["callbacks/callbacks.go"] = callbacksSrc

	resultsSrc, err := renderResults(o, sortedRoles)
	if err != nil {
		return nil, err
	}
	out.Files["results/results.go"] = resultsSrc

	for _, role := range sortedRoles {
		roleGen := namegen.New()
		body, err := emitRoleBody(role, locals[role], chans, msgs, roleGen)
		if err != nil {
			return nil, fmt.Errorf("codegen: role %s: %w", role, err)
		}
		src, err := renderRole(o, role, body)
		if err != nil {
			return nil, fmt.Errorf("codegen: role %s: %w", role, err)
		}
		out.Files[fmt.Sprintf("roles/%s.go", namegen.Sanitize(role, "role"))] = src
	}

	hostSrc, err := renderHost(o, protocolName, sortedRoles, chans)
	if err != nil {
		return nil, err
	}
	out.Files["host.go"] = hostSrc

	return out, nil
}

func formatOrError(name string, buf *bytes.Buffer) ([]byte, error) {
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: formatting %s: %w", name, err)
	}
	return formatted, nil
}

func mustTemplate(name, tpl string) *template.Template {
	return template.Must(template.New(name).Parse(tpl))
}

func mustTemplateFuncs(name, tpl string, funcs template.FuncMap) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(tpl))
}
