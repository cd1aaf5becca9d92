// Package jsx parses JSX/TSX source with tree-sitter and finds class
// attributes whose values can be regrouped.
package jsx

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrSyntax is returned when the input cannot be parsed as markup.
var ErrSyntax = errors.New("syntax error")

// Language selects the grammar used to parse a document.
type Language string

const (
	LangAuto Language = "auto"
	LangTSX  Language = "tsx"
	LangJSX  Language = "jsx"
	LangTS   Language = "ts"
)

// ParseLanguage validates a configured language name.
func ParseLanguage(v string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(v))) {
	case "", LangAuto:
		return LangAuto, nil
	case LangTSX:
		return LangTSX, nil
	case LangJSX:
		return LangJSX, nil
	case LangTS, "typescript":
		return LangTS, nil
	default:
		return "", fmt.Errorf("unknown language %q (expected auto, tsx, jsx or ts)", v)
	}
}

// Resolve picks a concrete grammar for the named document.
// Automatic detection uses the file extension and falls back to TSX,
// which accepts nearly all JSX. Plain TypeScript gets its own grammar
// since <T>expr assertions are not valid TSX.
func (l Language) Resolve(name string) Language {
	if l != LangAuto && l != "" {
		return l
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJSX
	case ".ts", ".mts", ".cts":
		return LangTS
	default:
		return LangTSX
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case LangJSX:
		return javascript.GetLanguage()
	case LangTS:
		return typescript.GetLanguage()
	default:
		return tsx.GetLanguage()
	}
}

// Tree is a parsed document. Close releases the underlying tree-sitter tree.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Root returns the root node of the tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// Close releases the tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Parse parses src with the grammar for lang. Any error node in the
// resulting tree makes the whole document a syntax error; the returned
// error wraps ErrSyntax and names the first offending line and column.
func Parse(ctx context.Context, lang Language, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parsing: %w: no tree produced", ErrSyntax)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("parsing: %w: no root node", ErrSyntax)
	}
	if root.HasError() {
		bad := firstError(root)
		tree.Close()
		if bad == nil {
			return nil, ErrSyntax
		}
		pt := bad.StartPoint()
		return nil, fmt.Errorf("%w at line %d, column %d", ErrSyntax, pt.Row+1, pt.Column+1)
	}

	return &Tree{tree: tree, src: src}, nil
}

// firstError returns the first ERROR or missing node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == nodeError || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return n
}
