package parser

import (
	"time"
)

// File is the parsed view of one source module: its export surface and the
// raw import declarations the graph builder resolves later. Instances are
// treated as read-only once produced.
type File struct {
	Path     string
	Language string
	Exports  []ExportSymbol
	Imports  []ImportDeclaration
	ParsedAt time.Time
}

type ExportSymbol struct {
	Name     string
	Kind     SymbolKind
	Class    string // Owning class for methods, empty otherwise
	Exported bool
	TypeOnly bool // interface/type-alias exports and `export type {...}`
	Location Location
}

type ImportDeclaration struct {
	Specifier string   // Raw module specifier as written in source
	Members   []string // Imported export names, in declaration order (named imports only)
	Kind      ImportKind
	TypeOnly  bool
	Location  Location
}

type SymbolKind int

const (
	KindFunction SymbolKind = iota
	KindClass
	KindMethod
	KindInterface
	KindType
	KindVariable
	KindEnum
)

func (k SymbolKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindInterface:
		return "interface"
	case KindType:
		return "type"
	case KindVariable:
		return "variable"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// IsTypeOnly reports whether the kind exists only in the type system and
// vanishes at runtime.
func (k SymbolKind) IsTypeOnly() bool {
	return k == KindInterface || k == KindType
}

type ImportKind int

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
	ImportSideEffect
)

func (k ImportKind) String() string {
	switch k {
	case ImportNamed:
		return "named"
	case ImportDefault:
		return "default"
	case ImportNamespace:
		return "namespace"
	case ImportSideEffect:
		return "side-effect"
	}
	return "unknown"
}

type Location struct {
	File   string
	Line   int
	Column int
}

// DefaultExportName is the export-table entry a `export default` produces and
// a default import consumes.
const DefaultExportName = "default"
