package sexpr

import "fmt"

// TokenType represents the kind of SMT-LIB token.
type TokenType int

const (
	EOF TokenType = iota
	LPAREN
	RPAREN
	SYMBOL  // simple or |quoted| symbol
	KEYWORD // :named, :pattern, ...
	NUMERAL // 0, 42
	DECIMAL // 1.5
	HEX     // #xA3 (text holds the digits without the prefix)
	BINARY  // #b101 (text holds the digits without the prefix)
	STRING  // "..." (text holds the content between the quotes)
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "end of input"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case SYMBOL:
		return "symbol"
	case KEYWORD:
		return "keyword"
	case NUMERAL:
		return "numeral"
	case DECIMAL:
		return "decimal"
	case HEX:
		return "hexadecimal"
	case BINARY:
		return "binary"
	case STRING:
		return "string"
	default:
		return "unknown"
	}
}

// Pos is a position inside the input text.
type Pos struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // byte column, starting at 1
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical element with its source position.
type Token struct {
	Type TokenType
	Text string
	Pos  Pos
}

// SyntaxError reports malformed input with its position.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

func syntaxErrorf(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
