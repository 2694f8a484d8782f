package language

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TypeScript returns the tree-sitter language for TypeScript sources.
func TypeScript() *sitter.Language {
	return sitter.NewLanguage(typescript.LanguageTypescript())
}
