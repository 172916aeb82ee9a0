package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT   = "IDENT"   // counter, total, x
	NUMBER  = "NUMBER"  // 42, 3.14
	STRING  = "STRING"  // "hello"
	FSTRING = "FSTRING" // f"total: {n}"
	KEYWORD = "KEYWORD" // function, while, print, ...

	// Operators
	ASSIGN = "ASSIGN" // =
	OP     = "OP"     // + - * / %

	EQ  = "EQ"  // ==
	NEQ = "NEQ" // !=
	LT  = "LT"  // <
	GT  = "GT"  // >
	LTE = "LTE" // <=
	GTE = "GTE" // >=

	// Delimiters
	LPAREN   = "LPAREN"
	RPAREN   = "RPAREN"
	LBRACKET = "LBRACKET"
	RBRACKET = "RBRACKET"
	LBRACE   = "LBRACE"
	RBRACE   = "RBRACE"
	COMMA    = "COMMA"
	COLON    = "COLON"
	DOT      = "DOT"

	// Layout
	NEWLINE = "NEWLINE"
	INDENT  = "INDENT"
	DEDENT  = "DEDENT"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based source line
	Column  int // 1-based source column
}

// Reserved words all lex as a single KEYWORD kind; the literal carries the
// word itself. "else if" is composed by the lexer and never appears here.
var keywords = map[string]bool{
	"function": true,
	"return":   true,
	"if":       true,
	"else":     true,
	"while":    true,
	"for":      true,
	"in":       true,
	"try":      true,
	"catch":    true,
	"throw":    true,
	"print":    true,
	"append":   true,
	"len":      true,
	"true":     true,
	"false":    true,
	"and":      true,
	"or":       true,
	"not":      true,

	// reserved for future use; no statement form accepts them
	"class": true,
	"set":   true,
	"stack": true,
	"queue": true,
	"pop":   true,

	// type names, reserved but semantically inert
	"int":    true,
	"float":  true,
	"bool":   true,
	"string": true,
	"list":   true,
	"map":    true,
}

// typeNames are the annotation keywords a bare statement discards. The other
// reserved words ("list", "class", ...) stay syntax errors in that position.
var typeNames = map[string]bool{
	"int":    true,
	"float":  true,
	"bool":   true,
	"string": true,
}

func LookupIdent(ident string) TokenType {
	if keywords[ident] {
		return KEYWORD
	}
	return IDENT
}

// IsTypeName reports whether lit is one of the inert type-annotation
// keywords that parse to nothing when they appear as bare statements.
func IsTypeName(lit string) bool {
	return typeNames[lit]
}
