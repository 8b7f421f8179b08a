//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package codegen

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/namegen"
)

type channelDef struct {
	GoName string
	A, B   string // the two roles the channel connects, A < B
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// collectChannels returns one channelDef per unordered pair of roles that
// exchange at least one message anywhere in the protocol.
func collectChannels(locals map[string]ltype.Type, roles []string, gen *namegen.Generator) []*channelDef {
	seen := map[string]*channelDef{}
	for _, role := range roles {
		walkChannels(role, locals[role], seen, gen)
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*channelDef, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

func walkChannels(role string, t ltype.Type, seen map[string]*channelDef, gen *namegen.Generator) {
	switch n := t.(type) {
	case ltype.End:
	case *ltype.Msg:
		a, b := role, n.Action.Peer
		key := pairKey(a, b)
		if _, ok := seen[key]; !ok {
			if a > b {
				a, b = b, a
			}
			seen[key] = &channelDef{
				GoName: namegen.Exported(gen.Unique("channel", fmt.Sprintf("%s_%s", a, b)), "Channel"),
				A:      a,
				B:      b,
			}
		}
		walkChannels(role, n.Cont, seen, gen)
	case *ltype.Rec:
		walkChannels(role, n.Body, seen, gen)
	case *ltype.Var:
	case *ltype.Choice:
		for _, br := range n.Branches {
			walkChannels(role, br, seen, gen)
		}
	}
}

func renderChannels(o Options, chans []*channelDef) ([]byte, error) {
	tpl := mustTemplate("channels", `// Code generated by mpstgen. DO NOT EDIT.

package channels

import "{{.RootPkg}}/messages"

{{range .Chans}}
// {{.GoName}} connects {{.A}} and {{.B}}.
type {{.GoName}} struct {
	ToB   chan messages.Envelope
	ToA   chan messages.Envelope
}

// New{{.GoName}} creates an unbuffered pair of channels connecting {{.A}} and {{.B}}.
func New{{.GoName}}() *{{.GoName}} {
	return &{{.GoName}}{
		ToB: make(chan messages.Envelope),
		ToA: make(chan messages.Envelope),
	}
}
{{end}}

// Channels bundles every channel the protocol wires between roles; each
// role's run function reads the fields it needs and ignores the rest.
type Channels struct {
{{range .Chans}}	{{.GoName}} *{{.GoName}}
{{end}}}

// NewChannels constructs a fresh, unconnected set of channels for one run
// of the protocol.
func NewChannels() *Channels {
	return &Channels{
{{range .Chans}}		{{.GoName}}: New{{.GoName}}(),
{{end}}	}
}
`)
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, struct {
		RootPkg string
		Chans   []*channelDef
	}{RootPkg: o.RootPkg, Chans: chans}); err != nil {
		return nil, fmt.Errorf("codegen: render channels: %w", err)
	}
	return formatOrError("channels/channels.go", &buf)
}
