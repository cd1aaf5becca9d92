package jsx

// Tree-sitter node types used by the scanner. The TSX and JavaScript
// grammars share these names for JSX constructs.
const (
	nodeAttribute      = "jsx_attribute"
	nodeExpression     = "jsx_expression"
	nodeString         = "string"
	nodeCallExpression = "call_expression"
	nodeArguments      = "arguments"
	nodeIdentifier     = "identifier"
	nodeComment        = "comment"
	nodeError          = "ERROR"
)

// Field names on call_expression.
const (
	fieldFunction  = "function"
	fieldArguments = "arguments"
)
