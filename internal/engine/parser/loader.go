package parser

import (
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// GrammarLoader owns the tree-sitter grammars for the module dialects the
// engine understands. Grammars are linked statically; there is no runtime
// artifact loading.
type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

type LanguageSpec struct {
	Extensions []string
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		registry: map[string]LanguageSpec{
			"javascript": {Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
			"typescript": {Extensions: []string{".ts", ".mts", ".cts"}},
			"tsx":        {Extensions: []string{".tsx"}},
		},
	}

	gl.languages["javascript"] = sitter.NewLanguage(tree_sitter_javascript.Language())
	gl.languages["typescript"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	gl.languages["tsx"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())

	return gl
}

func (gl *GrammarLoader) Language(lang string) *sitter.Language {
	return gl.languages[lang]
}

func (gl *GrammarLoader) LanguageRegistry() map[string]LanguageSpec {
	res := make(map[string]LanguageSpec, len(gl.registry))
	for lang, spec := range gl.registry {
		res[lang] = LanguageSpec{Extensions: append([]string(nil), spec.Extensions...)}
	}
	return res
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	set := make(map[string]bool)
	for _, spec := range gl.registry {
		for _, ext := range spec.Extensions {
			set[ext] = true
		}
	}
	extensions := make([]string, 0, len(set))
	for ext := range set {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
