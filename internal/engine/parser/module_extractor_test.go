package parser

import (
	"testing"
)

func parseSource(t *testing.T, path, source string) *File {
	t.Helper()
	p := NewParser(NewGrammarLoader())
	p.RegisterDefaultExtractors()
	file, err := p.ParseFile(path, []byte(source))
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return file
}

func exportNames(file *File) []string {
	names := make([]string, 0, len(file.Exports))
	for _, e := range file.Exports {
		names = append(names, e.Name)
	}
	return names
}

func hasExport(file *File, name string) bool {
	for _, e := range file.Exports {
		if e.Name == name {
			return true
		}
	}
	return false
}

func TestExtract_NamedImports(t *testing.T) {
	file := parseSource(t, "/src/app.ts", `
import { parse, render as draw } from './engine';
import config from './config';
import * as util from './util';
import './side-effect';
`)

	if len(file.Imports) != 4 {
		t.Fatalf("expected 4 import declarations, got %d: %+v", len(file.Imports), file.Imports)
	}

	named := file.Imports[0]
	if named.Kind != ImportNamed {
		t.Errorf("expected named import, got %s", named.Kind)
	}
	if named.Specifier != "./engine" {
		t.Errorf("unexpected specifier: %s", named.Specifier)
	}
	// Aliased members must carry the target's export name, not the alias.
	if len(named.Members) != 2 || named.Members[0] != "parse" || named.Members[1] != "render" {
		t.Errorf("unexpected members: %v", named.Members)
	}

	if file.Imports[1].Kind != ImportDefault || file.Imports[1].Specifier != "./config" {
		t.Errorf("unexpected default import: %+v", file.Imports[1])
	}
	if file.Imports[2].Kind != ImportNamespace {
		t.Errorf("unexpected namespace import: %+v", file.Imports[2])
	}
	if file.Imports[3].Kind != ImportSideEffect || file.Imports[3].Specifier != "./side-effect" {
		t.Errorf("unexpected side-effect import: %+v", file.Imports[3])
	}
}

func TestExtract_CombinedDefaultAndNamed(t *testing.T) {
	file := parseSource(t, "/src/app.js", `import React, { useState } from './react-shim';`)

	if len(file.Imports) != 2 {
		t.Fatalf("expected 2 declarations for combined clause, got %d", len(file.Imports))
	}
	if file.Imports[0].Kind != ImportDefault {
		t.Errorf("expected default declaration first, got %s", file.Imports[0].Kind)
	}
	if file.Imports[1].Kind != ImportNamed || len(file.Imports[1].Members) != 1 || file.Imports[1].Members[0] != "useState" {
		t.Errorf("unexpected named declaration: %+v", file.Imports[1])
	}
}

func TestExtract_Exports(t *testing.T) {
	file := parseSource(t, "/src/lib.ts", `
export function parse(input: string): number { return 0; }
export class Engine {
  start(): void {}
  stop(): void {}
}
export interface Options { deep: boolean; }
export type Mode = 'fast' | 'slow';
export const limit = 10;
export default parse;
`)

	for _, want := range []string{"parse", "Engine", "Options", "Mode", "limit", "default"} {
		if !hasExport(file, want) {
			t.Errorf("missing export %q in %v", want, exportNames(file))
		}
	}

	kinds := make(map[string]SymbolKind)
	classes := make(map[string]string)
	typeOnly := make(map[string]bool)
	for _, e := range file.Exports {
		if e.Kind == KindMethod {
			classes[e.Name] = e.Class
			continue
		}
		kinds[e.Name] = e.Kind
		typeOnly[e.Name] = e.TypeOnly
	}

	if kinds["parse"] != KindFunction {
		t.Errorf("parse: expected function, got %s", kinds["parse"])
	}
	if kinds["Engine"] != KindClass {
		t.Errorf("Engine: expected class, got %s", kinds["Engine"])
	}
	if kinds["Options"] != KindInterface || !typeOnly["Options"] {
		t.Errorf("Options: expected type-only interface")
	}
	if kinds["Mode"] != KindType || !typeOnly["Mode"] {
		t.Errorf("Mode: expected type-only alias")
	}
	if kinds["limit"] != KindVariable {
		t.Errorf("limit: expected variable, got %s", kinds["limit"])
	}

	if classes["start"] != "Engine" || classes["stop"] != "Engine" {
		t.Errorf("expected Engine methods, got %v", classes)
	}
}

func TestExtract_ExportClauseAlias(t *testing.T) {
	file := parseSource(t, "/src/facade.ts", `
const internal = 1;
export { internal as external };
`)

	if !hasExport(file, "external") {
		t.Errorf("expected aliased export name, got %v", exportNames(file))
	}
	if hasExport(file, "internal") {
		t.Errorf("internal name must not be exported, got %v", exportNames(file))
	}
}

func TestExtract_ReExport(t *testing.T) {
	file := parseSource(t, "/src/index.ts", `
export { parse, render } from './engine';
export * from './helpers';
`)

	if !hasExport(file, "parse") || !hasExport(file, "render") {
		t.Errorf("re-exported names missing: %v", exportNames(file))
	}

	if len(file.Imports) != 2 {
		t.Fatalf("expected 2 implied imports, got %d", len(file.Imports))
	}
	named := file.Imports[0]
	if named.Specifier != "./engine" || len(named.Members) != 2 {
		t.Errorf("unexpected re-export import: %+v", named)
	}
	if file.Imports[1].Specifier != "./helpers" || file.Imports[1].Kind != ImportNamespace {
		t.Errorf("unexpected star re-export import: %+v", file.Imports[1])
	}
}

func TestExtract_LineNumbers(t *testing.T) {
	file := parseSource(t, "/src/a.ts", "import { x } from './b';\nimport { y } from './c';\n")

	if len(file.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(file.Imports))
	}
	if file.Imports[0].Location.Line != 1 || file.Imports[1].Location.Line != 2 {
		t.Errorf("unexpected line numbers: %d, %d",
			file.Imports[0].Location.Line, file.Imports[1].Location.Line)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	p := NewParser(NewGrammarLoader())
	p.RegisterDefaultExtractors()
	if _, err := p.ParseFile("/src/readme.md", []byte("# nope")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestExtract_TSXSupported(t *testing.T) {
	file := parseSource(t, "/src/view.tsx", `
import { mount } from './dom';
export function View() { return null; }
`)
	if file.Language != "tsx" {
		t.Errorf("expected tsx language, got %s", file.Language)
	}
	if !hasExport(file, "View") {
		t.Errorf("missing View export: %v", exportNames(file))
	}
}
