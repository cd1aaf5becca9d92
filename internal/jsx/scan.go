package jsx

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/zjrosen/bpgroup/internal/edit"
	"github.com/zjrosen/bpgroup/internal/log"
)

// Shape is the syntactic form of an attribute value.
type Shape int

const (
	// ShapeOther is any value the rewriter does not understand.
	ShapeOther Shape = iota
	// ShapeString is a bare string literal: className="a b".
	ShapeString
	// ShapeBracedString is a string inside braces: className={"a b"}.
	ShapeBracedString
	// ShapeBracedCall is a join call of string literals: className={cn("a", "b")}.
	ShapeBracedCall
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeBracedString:
		return "braced-string"
	case ShapeBracedCall:
		return "braced-call"
	default:
		return "other"
	}
}

// Literal is one string literal inside an attribute value.
type Literal struct {
	Raw   string // text between the quotes, exactly as written
	Quote byte   // '"' or '\''
}

// Candidate is an attribute whose value can be regrouped.
type Candidate struct {
	Shape    Shape
	Span     edit.Span // the value, not the attribute name
	Literals []Literal // in source order; one for string shapes
}

// Options controls which attributes are candidates.
type Options struct {
	Attribute    string // attribute name, e.g. "className"
	JoinFunction string // identifier of the join call, e.g. "twMerge"
	LiteralOnly  bool   // reject the join-call shape
}

// Scan walks the tree in pre-order and returns every candidate attribute
// in document order. Rejected attributes are skipped silently and their
// children are still visited.
func Scan(root *sitter.Node, src []byte, opts Options) []Candidate {
	var out []Candidate
	walk(root, func(n *sitter.Node) {
		if n.Type() != nodeAttribute {
			return
		}
		c, ok := candidate(n, src, opts)
		if !ok {
			log.Debug(log.CatScan, "skipping attribute",
				"start", n.StartByte(), "end", n.EndByte())
			return
		}
		out = append(out, c)
	})
	return out
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func candidate(attr *sitter.Node, src []byte, opts Options) (Candidate, bool) {
	// jsx_attribute: name [ "=" value ]
	if attr.NamedChildCount() < 2 {
		return Candidate{}, false
	}
	name := attr.NamedChild(0)
	if name == nil || name.Content(src) != opts.Attribute {
		return Candidate{}, false
	}
	value := attr.NamedChild(int(attr.NamedChildCount()) - 1)
	if value == nil {
		return Candidate{}, false
	}

	c := Candidate{Span: spanOf(value)}

	switch value.Type() {
	case nodeString:
		lit, ok := literal(value, src)
		if !ok {
			return Candidate{}, false
		}
		c.Shape = ShapeString
		c.Literals = []Literal{lit}
		return c, true

	case nodeExpression:
		inner, ok := soleExpression(value)
		if !ok {
			return Candidate{}, false
		}
		switch inner.Type() {
		case nodeString:
			lit, ok := literal(inner, src)
			if !ok {
				return Candidate{}, false
			}
			c.Shape = ShapeBracedString
			c.Literals = []Literal{lit}
			return c, true
		case nodeCallExpression:
			if opts.LiteralOnly {
				return Candidate{}, false
			}
			lits, ok := joinCall(inner, src, opts.JoinFunction)
			if !ok {
				return Candidate{}, false
			}
			c.Shape = ShapeBracedCall
			c.Literals = lits
			return c, true
		}
	}

	return Candidate{}, false
}

// soleExpression returns the single expression inside braces. Empty
// braces, comments, and anything else sharing the braces are rejected.
func soleExpression(expr *sitter.Node) (*sitter.Node, bool) {
	if expr.NamedChildCount() != 1 {
		return nil, false
	}
	inner := expr.NamedChild(0)
	if inner == nil || inner.Type() == nodeComment {
		return nil, false
	}
	return inner, true
}

// joinCall extracts the literals of fn("a", "b", ...). The callee must be
// the bare join identifier and every argument a string literal.
func joinCall(call *sitter.Node, src []byte, fn string) ([]Literal, bool) {
	callee := call.ChildByFieldName(fieldFunction)
	if callee == nil || callee.Type() != nodeIdentifier || callee.Content(src) != fn {
		return nil, false
	}
	args := call.ChildByFieldName(fieldArguments)
	if args == nil || args.Type() != nodeArguments {
		return nil, false
	}

	lits := make([]Literal, 0, args.NamedChildCount())
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg == nil || arg.Type() != nodeString {
			return nil, false
		}
		lit, ok := literal(arg, src)
		if !ok {
			return nil, false
		}
		lits = append(lits, lit)
	}
	return lits, true
}

func literal(n *sitter.Node, src []byte) (Literal, bool) {
	text := n.Content(src)
	if len(text) < 2 {
		return Literal{}, false
	}
	q := text[0]
	if (q != '"' && q != '\'') || text[len(text)-1] != q {
		return Literal{}, false
	}
	return Literal{Raw: text[1 : len(text)-1], Quote: q}, true
}

func spanOf(n *sitter.Node) edit.Span {
	return edit.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}
