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

// renderResults emits one result type per role: the value a role's Done
// callback produces when its local type reaches LEnd, delivered to the
// host through the matching DeliverXResult method on codegen's Host
// interface. The emission contract leaves the result's shape to the
// application, so each type is an alias for any.
func renderResults(o Options, roles []string) ([]byte, error) {
	type roleResult struct{ GoName string }
	all := make([]*roleResult, len(roles))
	for i, r := range roles {
		all[i] = &roleResult{GoName: namegen.Exported(r, "Role")}
	}

	tpl := mustTemplate("results", `// Code generated by mpstgen. DO NOT EDIT.

package results

{{range .Roles}}
// {{.GoName}}Result is the value {{.GoName}}'s Done callback returns when
// its local type reaches the end of the protocol.
type {{.GoName}}Result = any
{{end}}
`)
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, struct {
		Roles []*roleResult
	}{Roles: all}); err != nil {
		return nil, fmt.Errorf("codegen: render results: %w", err)
	}
	return formatOrError("results/results.go", &buf)
}
