package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"depscope/internal/core/errors"
	"depscope/internal/shared/observability"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
	extensions map[string]string
}

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*File, error)
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		extensions: make(map[string]string),
	}
	for lang, spec := range loader.LanguageRegistry() {
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
	}
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

func (p *Parser) RegisterDefaultExtractors() {
	for lang := range p.loader.LanguageRegistry() {
		p.RegisterExtractor(lang, NewModuleExtractor(lang))
	}
}

// ParseFile parses one module. When content is nil the file is read from
// disk; a read failure is reported as a file-access error so callers can
// degrade to an empty export list instead of aborting the run.
func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, errors.New(errors.CodeNotSupported, "unsupported language")
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", lang))
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	if content == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeFileAccess, "read source file")
		}
		content = data
	}

	start := time.Now()
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseFailure, "parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	res, err := extractor.Extract(root, content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailure, "extraction failed")
	}
	res.ParsedAt = time.Now()
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	return res, nil
}

func (p *Parser) detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := p.extensions[ext]; ok {
		return lang
	}
	return ""
}

func (p *Parser) IsSupportedPath(filePath string) bool {
	return p.detectLanguage(filePath) != ""
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}
