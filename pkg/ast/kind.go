package ast

// NodeKind classifies an AST node. The set is closed: node types the
// parser emits that are not listed here decode as NodeOther.
type NodeKind uint16

// Node kinds, named after the parser's node types.
const (
	NodeOther NodeKind = iota

	// Statement sequences and interpolation segments.
	NodeBegin
	NodeKwbegin

	// Numeric literals.
	NodeInt
	NodeFloat
	NodeRational
	NodeComplex

	// String family.
	NodeStr
	NodeDstr
	NodeXstr
	NodeSym
	NodeDsym
	NodeRegexp
	NodeRegopt

	// Composite literals.
	NodeArray
	NodeHash
	NodePair
	NodeIrange
	NodeErange

	// Keyword literals.
	NodeNil
	NodeTrue
	NodeFalse
	NodeSelf

	// Variables and constants.
	NodeLvar
	NodeIvar
	NodeGvar
	NodeCvar
	NodeConst
	NodeLvasgn
	NodeIvasgn
	NodeOpAsgn

	// Calls and definitions.
	NodeSend
	NodeBlock
	NodeArgs
	NodeArg
	NodeDef
	NodeDefs
	NodeClass
	NodeModule
	NodeSclass

	// Control flow.
	NodeIf
	NodeCase
	NodeWhen
	NodeWhile
	NodeUntil
	NodeFor
	NodeReturn

	nodeKindCount
)

//nolint:gochecknoglobals // Static lookup table.
var nodeKindNames = [nodeKindCount]string{
	NodeOther:    "other",
	NodeBegin:    "begin",
	NodeKwbegin:  "kwbegin",
	NodeInt:      "int",
	NodeFloat:    "float",
	NodeRational: "rational",
	NodeComplex:  "complex",
	NodeStr:      "str",
	NodeDstr:     "dstr",
	NodeXstr:     "xstr",
	NodeSym:      "sym",
	NodeDsym:     "dsym",
	NodeRegexp:   "regexp",
	NodeRegopt:   "regopt",
	NodeArray:    "array",
	NodeHash:     "hash",
	NodePair:     "pair",
	NodeIrange:   "irange",
	NodeErange:   "erange",
	NodeNil:      "nil",
	NodeTrue:     "true",
	NodeFalse:    "false",
	NodeSelf:     "self",
	NodeLvar:     "lvar",
	NodeIvar:     "ivar",
	NodeGvar:     "gvar",
	NodeCvar:     "cvar",
	NodeConst:    "const",
	NodeLvasgn:   "lvasgn",
	NodeIvasgn:   "ivasgn",
	NodeOpAsgn:   "op_asgn",
	NodeSend:     "send",
	NodeBlock:    "block",
	NodeArgs:     "args",
	NodeArg:      "arg",
	NodeDef:      "def",
	NodeDefs:     "defs",
	NodeClass:    "class",
	NodeModule:   "module",
	NodeSclass:   "sclass",
	NodeIf:       "if",
	NodeCase:     "case",
	NodeWhen:     "when",
	NodeWhile:    "while",
	NodeUntil:    "until",
	NodeFor:      "for",
	NodeReturn:   "return",
}

//nolint:gochecknoglobals // Built once from nodeKindNames.
var nodeKindByName = func() map[string]NodeKind {
	byName := make(map[string]NodeKind, nodeKindCount)
	for kind, name := range nodeKindNames {
		byName[name] = NodeKind(kind)
	}
	return byName
}()

// String returns the parser's name for the kind.
func (k NodeKind) String() string {
	if k >= nodeKindCount {
		return "other"
	}
	return nodeKindNames[k]
}

// ParseNodeKind maps a parser node type name to a NodeKind.
// Unknown names map to NodeOther.
func ParseNodeKind(name string) NodeKind {
	if kind, ok := nodeKindByName[name]; ok {
		return kind
	}
	return NodeOther
}

// IsStringFamily reports whether the kind is a delimited string-like literal
// whose interior must be preserved byte for byte.
func (k NodeKind) IsStringFamily() bool {
	switch k {
	case NodeStr, NodeDstr, NodeXstr, NodeDsym, NodeRegexp:
		return true
	default:
		return false
	}
}

// IsBasicLiteral reports whether the kind is an atomic literal whose value
// prints the same way it is written.
func (k NodeKind) IsBasicLiteral() bool {
	switch k {
	case NodeStr, NodeInt, NodeFloat, NodeSym, NodeTrue, NodeFalse, NodeNil:
		return true
	default:
		return false
	}
}

// IsComposite reports whether the kind is a literal built from child literals.
func (k NodeKind) IsComposite() bool {
	switch k {
	case NodeArray, NodeHash, NodePair, NodeIrange, NodeErange:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the kind is a numeric literal.
func (k NodeKind) IsNumeric() bool {
	switch k {
	case NodeInt, NodeFloat, NodeRational, NodeComplex:
		return true
	default:
		return false
	}
}
