package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT    = "IDENT"    // x, factorial, add5, ...
	CALLABLE = "CALLABLE" // an identifier immediately followed by '('
	CONSTANT = "CONSTANT" // [[PI]]
	NUMBER   = "NUMBER"   // 1343456, 3.14, 1e-9, 0xff
	COMPLEX  = "COMPLEX"  // 2i, 3.5j
	STRING   = "STRING"   // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	CARET    = "^"
	BANG     = "!"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	LOGICAL_AND = "&&"
	LOGICAL_OR  = "||"

	// '->' is a single dedicated token so the lambda arrow never collides
	// with subtraction or comparison parsing.
	ARROW = "->"

	// Delimiters
	COMMA     = ","
	SEMICOLON = ";"
	NEWLINE   = "NEWLINE"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	TRUE  = "TRUE"
	FALSE = "FALSE"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src byte index of the token
}

var keywords = map[string]TokenType{
	"True":  TRUE,
	"False": FALSE,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
