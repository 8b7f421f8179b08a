//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

// Command mpstgen parses a file of global protocol declarations, projects
// and validates each one, and optionally prints the resulting local types
// or emits a runnable Go package per protocol.
//
// Usage:
//
//	mpstgen [flags] <protocol-file>
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/codegen"
	"github.com/mpst-lang/mpstgo/dfa"
	"github.com/mpst-lang/mpstgo/gtype"
	"github.com/mpst-lang/mpstgo/log"
	"github.com/mpst-lang/mpstgo/ltype"
	"github.com/mpst-lang/mpstgo/namegen"
	"github.com/mpst-lang/mpstgo/parser"
	"github.com/mpst-lang/mpstgo/project"
)

type config struct {
	syntax     string
	protocols  string
	roles      string
	local      bool
	dumpLocal  string
	gen        bool
	outDir     string
	rootPkg    string
	verbose    bool
	assumeYes  bool
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.syntax, "syntax", "mpst", `surface grammar to parse: "mpst" or "scribble"`)
	flag.StringVar(&cfg.protocols, "protocol", "", "comma-separated protocol names to process (default: all)")
	flag.StringVar(&cfg.roles, "role", "", "comma-separated role names to process (default: all)")
	flag.BoolVar(&cfg.local, "local", false, "print each selected role's canonical local type")
	flag.StringVar(&cfg.dumpLocal, "dump-local", "", `dump local types instead of analysing further: "text" or "json"`)
	flag.BoolVar(&cfg.gen, "gen", false, "emit a Go package per protocol")
	flag.StringVar(&cfg.outDir, "out", "./generated", "output directory for -gen")
	flag.StringVar(&cfg.rootPkg, "pkg", "generated", "root import path generated files are written under")
	flag.BoolVar(&cfg.verbose, "verbose", false, "enable debug logging")
	flag.BoolVar(&cfg.assumeYes, "y", false, "overwrite existing protocol output directories without prompting")
	flag.Parse()

	if cfg.verbose {
		log.SetLevel(log.LevelDebug)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mpstgen [flags] <protocol-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	syntax, err := parseSyntax(cfg.syntax)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	protos, err := parser.ParseFile(path, syntax)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Infof("parsed %d protocol(s) from %s", len(protos), path)

	names := make([]string, 0, len(protos))
	for name := range protos {
		if !selected(cfg.protocols, name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	failed := false
	for _, name := range names {
		if err := processProtocol(protos[name], cfg); err != nil {
			logProtocolError(name, err)
			failed = true
			continue
		}
	}

	if failed {
		os.Exit(1)
	}
}

func parseSyntax(s string) (parser.Syntax, error) {
	switch strings.ToLower(s) {
	case "mpst":
		return parser.MPST, nil
	case "scribble":
		return parser.Scribble, nil
	default:
		return 0, fmt.Errorf("mpstgen: unknown -syntax %q (want \"mpst\" or \"scribble\")", s)
	}
}

// selected reports whether name passes a comma-separated allowlist; an
// empty list allows everything.
func selected(list, name string) bool {
	if list == "" {
		return true
	}
	for _, n := range strings.Split(list, ",") {
		if strings.TrimSpace(n) == name {
			return true
		}
	}
	return false
}

// processProtocol normalises, projects, and validates one protocol, then
// carries out whatever combination of -local/-dump-local/-gen was
// requested. Any error here is per-protocol: the caller logs it and moves
// on to the next protocol without touching what has already been written.
func processProtocol(p *gtype.Protocol, cfg config) error {
	gen := namegen.New()
	normalized := gtype.Normalize(p.Body, gen)
	proj, err := project.Project(&gtype.Protocol{Name: p.Name, Roles: p.Roles, Body: normalized})
	if err != nil {
		return err
	}

	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		if selected(cfg.roles, r) {
			roles = append(roles, r)
		}
	}

	locals := make(map[string]ltype.Type, len(roles))
	for _, r := range roles {
		canon, err := dfa.Build(p.Name, r, proj[r])
		if err != nil {
			return err
		}
		locals[r] = canon
		log.Debugf("protocol %s: role %s projected to %s", p.Name, r, canon)
	}

	if cfg.dumpLocal != "" {
		if err := dumpLocal(p.Name, roles, locals, cfg.dumpLocal); err != nil {
			return err
		}
		return nil
	}

	if cfg.local {
		for _, r := range roles {
			fmt.Printf("protocol %s, role %s:\n%s\n\n", p.Name, r, locals[r])
		}
	}

	if cfg.gen {
		return generateProtocol(p.Name, locals, roles, cfg)
	}
	return nil
}

func dumpLocal(protocol string, roles []string, locals map[string]ltype.Type, format string) error {
	switch format {
	case "text":
		for _, r := range roles {
			fmt.Printf("protocol %s, role %s:\n%s\n\n", protocol, r, locals[r])
		}
		return nil
	case "json":
		out := make(map[string]any, len(roles))
		for _, r := range roles {
			out[r] = localToJSON(locals[r])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"protocol": protocol, "roles": out})
	default:
		return fmt.Errorf("mpstgen: unknown -dump-local format %q (want \"text\" or \"json\")", format)
	}
}

// localToJSON renders a canonical local type as a plain JSON value: one map
// per node, with a "kind" entry naming the node shape and one entry per
// field of that node.
func localToJSON(t ltype.Type) any {
	switch n := t.(type) {
	case ltype.End:
		return map[string]any{"kind": "end"}
	case *ltype.Msg:
		return map[string]any{
			"kind":     "msg",
			"polarity": n.Action.Polarity.String(),
			"peer":     n.Action.Peer,
			"label":    n.Action.Label,
			"payloads": payloadsToJSON(n.Action.Payloads),
			"cont":     localToJSON(n.Cont),
		}
	case *ltype.Rec:
		return map[string]any{"kind": "rec", "var": n.TVar, "body": localToJSON(n.Body)}
	case *ltype.Var:
		return map[string]any{"kind": "continue", "var": n.TVar}
	case *ltype.Choice:
		branches := make([]any, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = localToJSON(b)
		}
		return map[string]any{"kind": "choice", "decidedBy": n.DecidedBy, "branches": branches}
	default:
		return map[string]any{"kind": fmt.Sprintf("%T", t)}
	}
}

func payloadsToJSON(payloads []action.Payload) []any {
	out := make([]any, len(payloads))
	for i, p := range payloads {
		out[i] = map[string]any{"name": p.Name, "type": p.Type}
	}
	return out
}

// generateProtocol emits protocol's Go package under
// <out>/<root-pkg>/<protocol-pkg>/, prompting before overwriting an
// existing protocol directory.
func generateProtocol(name string, locals map[string]ltype.Type, roles []string, cfg config) error {
	pkgName := namegen.Sanitize(name, "protocol")
	rootImport := cfg.rootPkg + "/" + pkgName
	targetDir := filepath.Join(cfg.outDir, filepath.FromSlash(cfg.rootPkg), pkgName)

	if info, err := os.Stat(targetDir); err == nil && info.IsDir() {
		ok, err := confirmOverwrite(targetDir, cfg.assumeYes)
		if err != nil {
			return err
		}
		if !ok {
			log.Infof("skipping %s: declined to overwrite %s", name, targetDir)
			return nil
		}
	}

	out, err := codegen.Generate(name, locals, roles,
		codegen.WithPackageName(pkgName),
		codegen.WithRootPkg(rootImport))
	if err != nil {
		return err
	}

	for rel, src := range out.Files {
		dest := filepath.Join(targetDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("mpstgen: mkdir %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, src, 0o644); err != nil {
			return fmt.Errorf("mpstgen: write %s: %w", dest, err)
		}
	}
	log.Infof("protocol %s: wrote %d file(s) to %s", name, len(out.Files), targetDir)
	return nil
}

func confirmOverwrite(dir string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	fmt.Fprintf(os.Stderr, "%s already exists; overwrite? [y/N] ", dir)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// logProtocolError reports a per-protocol failure on stderr. Every typed
// error in errs already names its protocol and violation in Error(), so
// there is nothing to add here beyond routing it to both streams.
func logProtocolError(name string, err error) {
	fmt.Fprintf(os.Stderr, "protocol %s: %v\n", name, err)
	log.Errorf("protocol %s rejected: %v", name, err)
}
