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

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/namegen"
)

type roleCallbacks struct {
	Role      string
	GoName    string
	SendLabel []*messageDef
	RecvLabel []*messageDef
}

func collectRoleCallbacks(role string, t ltype.Type, msgs []*messageDef) *roleCallbacks {
	byLabel := map[string]*messageDef{}
	for _, m := range msgs {
		byLabel[m.Label] = m
	}
	send := map[string]bool{}
	recv := map[string]bool{}
	walkCallbacks(t, send, recv)

	rc := &roleCallbacks{Role: role, GoName: namegen.Exported(role, "Role")}
	labels := make([]string, 0, len(send))
	for l := range send {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		rc.SendLabel = append(rc.SendLabel, byLabel[l])
	}
	labels = labels[:0]
	for l := range recv {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		rc.RecvLabel = append(rc.RecvLabel, byLabel[l])
	}
	return rc
}

func walkCallbacks(t ltype.Type, send, recv map[string]bool) {
	switch n := t.(type) {
	case ltype.End:
	case *ltype.Msg:
		if n.Action.Polarity == action.Send {
			send[n.Action.Label] = true
		} else {
			recv[n.Action.Label] = true
		}
		walkCallbacks(n.Cont, send, recv)
	case *ltype.Rec:
		walkCallbacks(n.Body, send, recv)
	case *ltype.Var:
	case *ltype.Choice:
		for _, b := range n.Branches {
			walkCallbacks(b, send, recv)
		}
	}
}

func renderCallbacks(o Options, roles []string, locals map[string]ltype.Type, msgs []*messageDef) ([]byte, error) {
	all := make([]*roleCallbacks, len(roles))
	for i, r := range roles {
		all[i] = collectRoleCallbacks(r, locals[r], msgs)
	}

	tpl := mustTemplate("callbacks", `// Code generated by mpstgen. DO NOT EDIT.

package callbacks

import (
	"{{.RootPkg}}/messages"
	"{{.RootPkg}}/results"
)

{{range .Roles}}
// {{.GoName}}Callbacks lets calling code drive {{.Role}}'s side of the protocol:
// produce the payload for every message {{.Role}} sends, and react to every
// message {{.Role}} receives.
type {{.GoName}}Callbacks interface {
{{range .SendLabel}}	Produce{{.GoName}}() (messages.{{.GoName}}, error)
{{end}}{{range .RecvLabel}}	Handle{{.GoName}}(messages.{{.GoName}}) error
{{end}}	// ChooseBranch is consulted whenever {{.Role}} itself decides which
	// message to send next out of more than one option; it must return one
	// of the labels passed in options.
	ChooseBranch(options []string) (string, error)
	// Done is invoked once {{.Role}}'s local type reaches the end of the
	// protocol; its return value becomes {{.Role}}'s result.
	Done() (results.{{.GoName}}Result, error)
}
{{end}}
`)
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, struct {
		RootPkg string
		Roles   []*roleCallbacks
	}{RootPkg: o.RootPkg, Roles: all}); err != nil {
		return nil, fmt.Errorf("codegen: render callbacks: %w", err)
	}
	return formatOrError("callbacks/callbacks.go", &buf)
}
