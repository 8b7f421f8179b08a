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

func renderRole(o Options, role, body string) ([]byte, error) {
	file := namegen.Sanitize(role, "role")
	tpl := mustTemplate("role", `// Code generated by mpstgen. DO NOT EDIT.

package roles

import (
	"fmt"

	"{{.RootPkg}}/callbacks"
	"{{.RootPkg}}/channels"
	"{{.RootPkg}}/messages"
	"{{.RootPkg}}/results"
)

// Run{{.GoName}} drives {{.Role}}'s side of the protocol to completion,
// blocking on ch until every message {{.Role}} participates in has been
// sent or received. It returns {{.Role}}'s result once its local type
// reaches the end of the protocol, or the first error cb or the channel
// exchange reports.
func Run{{.GoName}}(ch *channels.Channels, cb callbacks.{{.GoName}}Callbacks) (results.{{.GoName}}Result, error) {
{{.Body}}
}

var _ = fmt.Errorf
var _ = messages.Envelope{}
`)
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, struct {
		RootPkg string
		Role    string
		GoName  string
		Body    string
	}{
		RootPkg: o.RootPkg,
		Role:    role,
		GoName:  namegen.Exported(role, "Role"),
		Body:    body,
	}); err != nil {
		return nil, fmt.Errorf("codegen: render role %s: %w", role, err)
	}
	return formatOrError(fmt.Sprintf("roles/%s.go", file), &buf)
}
