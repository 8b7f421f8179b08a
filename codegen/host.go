//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package codegen

import (
	"bytes"
	"fmt"

	"github.com/mpst-lang/mpstgo/namegen"
)

type hostRole struct {
	GoName string
}

// renderHost emits the entry point that wires every role's goroutine
// together: it builds the shared channel bundle and runs each role's
// callbacks concurrently via golang.org/x/sync/errgroup, returning the
// first error any role reports. Host exposes the two hooks the emission
// contract requires of the calling application: a constructor per role
// (create that role's callback implementation) and a result sink per role
// (deliver that role's result once its procedure returns).
func renderHost(o Options, protocolName string, roles []string, chans []*channelDef) ([]byte, error) {
	hrs := make([]*hostRole, len(roles))
	for i, r := range roles {
		hrs[i] = &hostRole{GoName: namegen.Exported(r, "Role")}
	}

	tpl := mustTemplate("host", `// Code generated by mpstgen. DO NOT EDIT.

package {{.Package}}

import (
	"golang.org/x/sync/errgroup"

	"{{.RootPkg}}/callbacks"
	"{{.RootPkg}}/channels"
	"{{.RootPkg}}/results"
	"{{.RootPkg}}/roles"
)

// Host supplies a callback implementation for every role of the
// "{{.Protocol}}" protocol and receives every role's result once its
// procedure returns.
type Host interface {
{{range .Roles}}	New{{.GoName}}Callbacks() callbacks.{{.GoName}}Callbacks
	Deliver{{.GoName}}Result(results.{{.GoName}}Result)
{{end}}}

// Run drives every role of the "{{.Protocol}}" protocol to completion
// concurrently, wiring a fresh set of channels between them, and returns
// the first error any role's callbacks or channel exchange reports. It
// returns once every role has reached the end of the protocol.
func Run(h Host) error {
	ch := channels.NewChannels()
	var g errgroup.Group
{{range .Roles}}	g.Go(func() error {
		res, err := roles.Run{{.GoName}}(ch, h.New{{.GoName}}Callbacks())
		if err != nil {
			return err
		}
		h.Deliver{{.GoName}}Result(res)
		return nil
	})
{{end}}	return g.Wait()
}
`)
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, struct {
		Package  string
		RootPkg  string
		Protocol string
		Roles    []*hostRole
	}{
		Package:  o.PackageName,
		RootPkg:  o.RootPkg,
		Protocol: protocolName,
		Roles:    hrs,
	}); err != nil {
		return nil, fmt.Errorf("codegen: render host: %w", err)
	}
	return formatOrError("host.go", &buf)
}
