package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ModuleExtractor extracts import declarations and the exported-symbol
// surface from ECMAScript-style modules. The javascript, typescript and tsx
// grammars share the relevant node kinds, so one extractor serves all three;
// TypeScript-only declaration kinds simply never match for plain JavaScript.
type ModuleExtractor struct {
	language string
}

func NewModuleExtractor(language string) *ModuleExtractor {
	return &ModuleExtractor{language: language}
}

func (e *ModuleExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: e.language,
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement": e.extractImport,
		"export_statement": e.extractExport,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *ModuleExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	specifier := importSource(ctx, node)
	if specifier == "" {
		return true
	}

	loc := ctx.Location(node)
	typeOnly := ctx.HasChildToken(node, "type")

	clause := ctx.FindChild(node, "import_clause")
	if clause == nil {
		// import './side-effect'
		ctx.File.Imports = append(ctx.File.Imports, ImportDeclaration{
			Specifier: specifier,
			Kind:      ImportSideEffect,
			Location:  loc,
		})
		return true
	}

	// A single statement may combine a default import with named or
	// namespace imports; each clause form becomes its own declaration.
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		switch child.Kind() {
		case "identifier":
			ctx.File.Imports = append(ctx.File.Imports, ImportDeclaration{
				Specifier: specifier,
				Kind:      ImportDefault,
				TypeOnly:  typeOnly,
				Location:  loc,
			})
		case "namespace_import":
			ctx.File.Imports = append(ctx.File.Imports, ImportDeclaration{
				Specifier: specifier,
				Kind:      ImportNamespace,
				TypeOnly:  typeOnly,
				Location:  loc,
			})
		case "named_imports":
			members := e.namedImportMembers(ctx, child)
			ctx.File.Imports = append(ctx.File.Imports, ImportDeclaration{
				Specifier: specifier,
				Members:   members,
				Kind:      ImportNamed,
				TypeOnly:  typeOnly,
				Location:  loc,
			})
		}
	}

	return true
}

// namedImportMembers collects the exported names requested by a named-import
// clause. For `import { a as b }` the target's export name is `a`.
func (e *ModuleExtractor) namedImportMembers(ctx *ExtractionContext, namedImports *sitter.Node) []string {
	var members []string
	for i := uint(0); i < namedImports.ChildCount(); i++ {
		spec := namedImports.Child(i)
		if spec.Kind() != "import_specifier" {
			continue
		}
		name := spec.ChildByFieldName("name")
		if name == nil {
			continue
		}
		if text := ctx.Text(name); text != "" {
			members = append(members, text)
		}
	}
	return members
}

func (e *ModuleExtractor) extractExport(ctx *ExtractionContext, node *sitter.Node) bool {
	loc := ctx.Location(node)
	source := importSource(ctx, node)
	typeOnly := ctx.HasChildToken(node, "type")

	if source != "" {
		e.extractReExport(ctx, node, source, typeOnly, loc)
		return true
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		isDefault := ctx.HasChildToken(node, "default")
		e.extractDeclaration(ctx, decl, isDefault)
		return true
	}

	if node.ChildByFieldName("value") != nil {
		// export default <expression>
		ctx.File.Exports = append(ctx.File.Exports, ExportSymbol{
			Name:     DefaultExportName,
			Kind:     KindVariable,
			Exported: true,
			Location: loc,
		})
		return true
	}

	if clause := ctx.FindChild(node, "export_clause"); clause != nil {
		// export { a, b as c }: the external name is the alias when present.
		for i := uint(0); i < clause.ChildCount(); i++ {
			spec := clause.Child(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("alias")
			if name == nil {
				name = spec.ChildByFieldName("name")
			}
			text := ctx.Text(name)
			if text == "" {
				continue
			}
			ctx.File.Exports = append(ctx.File.Exports, ExportSymbol{
				Name:     text,
				Kind:     KindVariable,
				Exported: true,
				TypeOnly: typeOnly,
				Location: ctx.Location(spec),
			})
		}
	}

	return true
}

// extractReExport handles `export ... from './x'`: the re-exported names join
// this file's export surface, and the statement also constitutes an import of
// the source module so the dependency edge is not lost.
func (e *ModuleExtractor) extractReExport(ctx *ExtractionContext, node *sitter.Node, source string, typeOnly bool, loc Location) {
	clause := ctx.FindChild(node, "export_clause")
	if clause == nil {
		// export * from './x': the surface cannot be enumerated without
		// resolving the target, but the dependency itself is real.
		ctx.File.Imports = append(ctx.File.Imports, ImportDeclaration{
			Specifier: source,
			Kind:      ImportNamespace,
			TypeOnly:  typeOnly,
			Location:  loc,
		})
		return
	}

	var members []string
	for i := uint(0); i < clause.ChildCount(); i++ {
		spec := clause.Child(i)
		if spec.Kind() != "export_specifier" {
			continue
		}
		name := spec.ChildByFieldName("name")
		text := ctx.Text(name)
		if text == "" {
			continue
		}
		members = append(members, text)

		external := spec.ChildByFieldName("alias")
		externalName := text
		if external != nil {
			externalName = ctx.Text(external)
		}
		ctx.File.Exports = append(ctx.File.Exports, ExportSymbol{
			Name:     externalName,
			Kind:     KindVariable,
			Exported: true,
			TypeOnly: typeOnly,
			Location: ctx.Location(spec),
		})
	}

	ctx.File.Imports = append(ctx.File.Imports, ImportDeclaration{
		Specifier: source,
		Members:   members,
		Kind:      ImportNamed,
		TypeOnly:  typeOnly,
		Location:  loc,
	})
}

func (e *ModuleExtractor) extractDeclaration(ctx *ExtractionContext, decl *sitter.Node, isDefault bool) {
	loc := ctx.Location(decl)

	record := func(name string, kind SymbolKind) {
		if isDefault {
			name = DefaultExportName
		}
		if name == "" {
			return
		}
		ctx.File.Exports = append(ctx.File.Exports, ExportSymbol{
			Name:     name,
			Kind:     kind,
			Exported: true,
			TypeOnly: kind.IsTypeOnly(),
			Location: loc,
		})
	}

	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration", "function_signature":
		record(ctx.Text(decl.ChildByFieldName("name")), KindFunction)
	case "class_declaration", "abstract_class_declaration":
		className := ctx.Text(decl.ChildByFieldName("name"))
		record(className, KindClass)
		if !isDefault {
			e.extractClassMethods(ctx, decl, className)
		}
	case "interface_declaration":
		record(ctx.Text(decl.ChildByFieldName("name")), KindInterface)
	case "type_alias_declaration":
		record(ctx.Text(decl.ChildByFieldName("name")), KindType)
	case "enum_declaration":
		record(ctx.Text(decl.ChildByFieldName("name")), KindEnum)
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < decl.ChildCount(); i++ {
			child := decl.Child(i)
			if child.Kind() != "variable_declarator" {
				continue
			}
			name := child.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				// Destructuring exports are rare in module surfaces;
				// collect every bound identifier to stay sound.
				e.collectPatternIdentifiers(ctx, name)
				continue
			}
			record(ctx.Text(name), KindVariable)
		}
	}
}

// extractClassMethods records the public methods of an exported class so
// symbol queries can match class-qualified names.
func (e *ModuleExtractor) extractClassMethods(ctx *ExtractionContext, classDecl *sitter.Node, className string) {
	body := classDecl.ChildByFieldName("body")
	if body == nil || className == "" {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		if member.Kind() != "method_definition" {
			continue
		}
		name := ctx.Text(member.ChildByFieldName("name"))
		if name == "" || name == "constructor" {
			continue
		}
		ctx.File.Exports = append(ctx.File.Exports, ExportSymbol{
			Name:     name,
			Kind:     KindMethod,
			Class:    className,
			Exported: true,
			Location: ctx.Location(member),
		})
	}
}

func (e *ModuleExtractor) collectPatternIdentifiers(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}
	if node.Kind() == "identifier" || node.Kind() == "shorthand_property_identifier_pattern" {
		if text := ctx.Text(node); text != "" {
			ctx.File.Exports = append(ctx.File.Exports, ExportSymbol{
				Name:     text,
				Kind:     KindVariable,
				Exported: true,
				Location: ctx.Location(node),
			})
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.collectPatternIdentifiers(ctx, node.Child(i))
	}
}

// importSource returns the unquoted module specifier of an import or export
// statement, or "" when the statement has no source clause.
func importSource(ctx *ExtractionContext, node *sitter.Node) string {
	source := node.ChildByFieldName("source")
	if source == nil {
		return ""
	}
	return trimQuoted(ctx.Text(source))
}
