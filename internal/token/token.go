package token

// Type identifies the category of a token.
type Type string

// Token is a lexical item. It does not own its text: Start and Length
// index into the source buffer the lexer was created with.
type Token struct {
	Type   Type
	Start  int
	Length int
	Line   int
	// Message is set only on Error tokens.
	Message string
}

// Lexeme returns the slice of source the token covers.
func (t Token) Lexeme(source string) string {
	if t.Start < 0 || t.Start+t.Length > len(source) {
		return ""
	}
	return source[t.Start : t.Start+t.Length]
}

const (
	Error Type = "ERROR"
	EOF   Type = "EOF"

	// single-character tokens
	LeftParen  Type = "LEFT_PAREN"
	RightParen Type = "RIGHT_PAREN"
	LeftBrace  Type = "LEFT_BRACE"
	RightBrace Type = "RIGHT_BRACE"
	Comma      Type = "COMMA"
	Dot        Type = "DOT"
	Minus      Type = "MINUS"
	Plus       Type = "PLUS"
	Semicolon  Type = "SEMICOLON"
	Slash      Type = "SLASH"
	Star       Type = "STAR"

	// one or two character tokens
	Bang         Type = "BANG"          // !
	BangEqual    Type = "BANG_EQUAL"    // !=
	Equal        Type = "EQUAL"         // =
	EqualEqual   Type = "EQUAL_EQUAL"   // ==
	Greater      Type = "GREATER"       // >
	GreaterEqual Type = "GREATER_EQUAL" // >=
	Less         Type = "LESS"          // <
	LessEqual    Type = "LESS_EQUAL"    // <=

	// literals
	Identifier Type = "IDENTIFIER"
	String     Type = "STRING"
	Number     Type = "NUMBER"

	// keywords
	And    Type = "AND"
	Class  Type = "CLASS"
	Else   Type = "ELSE"
	False  Type = "FALSE"
	For    Type = "FOR"
	Fun    Type = "FUN"
	If     Type = "IF"
	Nil    Type = "NIL"
	Or     Type = "OR"
	Print  Type = "PRINT"
	Return Type = "RETURN"
	Super  Type = "SUPER"
	This   Type = "THIS"
	True   Type = "TRUE"
	Var    Type = "VAR"
	While  Type = "WHILE"
)

// StartsStatement reports whether a token of type t can begin a
// declaration or statement. The compiler resynchronizes on these.
func StartsStatement(t Type) bool {
	switch t {
	case Class, Fun, Var, For, If, While, Print, Return:
		return true
	default:
		return false
	}
}
