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
	"text/template"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/errs"
	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/namegen"
)

type messageDef struct {
	Label    string
	GoName   string
	Payloads []action.Payload
}

func payloadsEqual(a, b []action.Payload) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

// collectMessages walks every role's local type and returns one messageDef
// per distinct label, in label order. The first occurrence of a label
// fixes its payload shape; a later occurrence of the same label with a
// different payload shape overloads the label by payload, which code
// generation forbids (spec.md's InconsistentChoiceLabel: §9's open
// question on whether this is fundamental is left unresolved here, but
// the restriction is enforced uniformly).
func collectMessages(protocol string, locals map[string]ltype.Type, roles []string) ([]*messageDef, error) {
	seen := map[string]*messageDef{}
	gen := namegen.New()
	for _, role := range roles {
		if err := walkMessages(protocol, locals[role], seen, gen); err != nil {
			return nil, err
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make([]*messageDef, len(labels))
	for i, l := range labels {
		out[i] = seen[l]
	}
	return out, nil
}

func walkMessages(protocol string, t ltype.Type, seen map[string]*messageDef, gen *namegen.Generator) error {
	switch n := t.(type) {
	case ltype.End:
		return nil
	case *ltype.Msg:
		if existing, ok := seen[n.Action.Label]; ok {
			if !payloadsEqual(existing.Payloads, n.Action.Payloads) {
				return &errs.InconsistentChoiceLabel{
					Protocol: protocol,
					Role:     n.Action.Role,
					Label:    n.Action.Label,
				}
			}
		} else {
			seen[n.Action.Label] = &messageDef{
				Label:    n.Action.Label,
				GoName:   namegen.Exported(gen.Unique("message", n.Action.Label), "Msg"),
				Payloads: n.Action.Payloads,
			}
		}
		return walkMessages(protocol, n.Cont, seen, gen)
	case *ltype.Rec:
		return walkMessages(protocol, n.Body, seen, gen)
	case *ltype.Var:
		return nil
	case *ltype.Choice:
		for _, b := range n.Branches {
			if err := walkMessages(protocol, b, seen, gen); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func renderMessages(o Options, msgs []*messageDef) ([]byte, error) {
	tpl := mustTemplateFuncs("messages", `// Code generated by mpstgen. DO NOT EDIT.

package messages

// Envelope is the tagged union carried over every generated channel: Label
// identifies which message was sent and Payload holds its typed value.
type Envelope struct {
	Label   string
	Payload any
}
{{range .Msgs}}
// {{.GoName}} carries the payload of a "{{.Label}}" message.
type {{.GoName}} struct {
{{range .Payloads}}	{{.Name | title}} {{.Type}}
{{end}}}
{{end}}
`, template.FuncMap{"title": func(s string) string { return namegen.Exported(s, "Field") }})
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, struct {
		Msgs []*messageDef
	}{Msgs: msgs}); err != nil {
		return nil, fmt.Errorf("codegen: render messages: %w", err)
	}
	return formatOrError("messages/messages.go", &buf)
}
