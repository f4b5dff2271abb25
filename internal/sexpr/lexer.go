package sexpr

import "strings"

// Lexer scans SMT-LIB text and produces tokens.
type Lexer struct {
	input    string
	position int
	line     int
	lineOff  int // offset of the start of the current line
}

// NewLexer returns a new Lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

func (l *Lexer) pos() Pos {
	return Pos{
		Offset: l.position,
		Line:   l.line,
		Column: l.position - l.lineOff + 1,
	}
}

func (l *Lexer) advance() {
	if l.position < len(l.input) && l.input[l.position] == '\n' {
		l.line++
		l.lineOff = l.position + 1
	}
	l.position++
}

// Tokenize scans the whole input. The returned slice always ends with an
// EOF token unless a SyntaxError is reported.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for l.position < len(l.input) {
		start := l.pos()
		c := l.input[l.position]
		switch {
		case isWhitespace(c):
			l.advance()

		case c == ';':
			for l.position < len(l.input) && l.input[l.position] != '\n' {
				l.advance()
			}

		case c == '(':
			tokens = append(tokens, Token{Type: LPAREN, Text: "(", Pos: start})
			l.advance()

		case c == ')':
			tokens = append(tokens, Token{Type: RPAREN, Text: ")", Pos: start})
			l.advance()

		case c == '"':
			tok, err := l.lexString(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case c == '|':
			tok, err := l.lexQuotedSymbol(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case c == '#':
			tok, err := l.lexRadixLiteral(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case c == ':':
			l.advance()
			name := l.lexBareWord()
			if name == "" {
				return nil, syntaxErrorf(start, "expected keyword name after ':'")
			}
			tokens = append(tokens, Token{Type: KEYWORD, Text: name, Pos: start})

		case isDigit(c):
			tokens = append(tokens, l.lexNumber(start))

		case isSymbolChar(c):
			word := l.lexBareWord()
			tokens = append(tokens, Token{Type: SYMBOL, Text: word, Pos: start})

		default:
			return nil, syntaxErrorf(start, "unexpected character %q", c)
		}
	}
	tokens = append(tokens, Token{Type: EOF, Pos: l.pos()})
	return tokens, nil
}

// lexString scans a "..." literal. SMT-LIB escapes a double quote by
// doubling it; backslash sequences are kept verbatim for later decoding.
func (l *Lexer) lexString(start Pos) (Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '"' {
			if l.position+1 < len(l.input) && l.input[l.position+1] == '"' {
				sb.WriteByte('"')
				l.advance()
				l.advance()
				continue
			}
			l.advance() // closing quote
			return Token{Type: STRING, Text: sb.String(), Pos: start}, nil
		}
		sb.WriteByte(c)
		l.advance()
	}
	return Token{}, syntaxErrorf(start, "unterminated string literal")
}

// lexQuotedSymbol scans a |...| symbol. The bars are not part of the name.
func (l *Lexer) lexQuotedSymbol(start Pos) (Token, error) {
	l.advance() // opening bar
	from := l.position
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '|' {
			name := l.input[from:l.position]
			l.advance()
			return Token{Type: SYMBOL, Text: name, Pos: start}, nil
		}
		if c == '\\' {
			return Token{}, syntaxErrorf(start, "backslash not allowed in quoted symbol")
		}
		l.advance()
	}
	return Token{}, syntaxErrorf(start, "unterminated quoted symbol")
}

func (l *Lexer) lexRadixLiteral(start Pos) (Token, error) {
	l.advance() // '#'
	if l.position >= len(l.input) {
		return Token{}, syntaxErrorf(start, "truncated '#' literal")
	}
	kind := l.input[l.position]
	l.advance()
	from := l.position
	switch kind {
	case 'x':
		for l.position < len(l.input) && isHexDigit(l.input[l.position]) {
			l.advance()
		}
		if l.position == from {
			return Token{}, syntaxErrorf(start, "expected hex digits after '#x'")
		}
		return Token{Type: HEX, Text: l.input[from:l.position], Pos: start}, nil
	case 'b':
		for l.position < len(l.input) && (l.input[l.position] == '0' || l.input[l.position] == '1') {
			l.advance()
		}
		if l.position == from {
			return Token{}, syntaxErrorf(start, "expected binary digits after '#b'")
		}
		return Token{Type: BINARY, Text: l.input[from:l.position], Pos: start}, nil
	default:
		return Token{}, syntaxErrorf(start, "unexpected character %q after '#'", kind)
	}
}

func (l *Lexer) lexNumber(start Pos) Token {
	from := l.position
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.advance()
	}
	// A decimal has a fractional part; a lone trailing dot is not one.
	if l.position+1 < len(l.input) && l.input[l.position] == '.' && isDigit(l.input[l.position+1]) {
		l.advance()
		for l.position < len(l.input) && isDigit(l.input[l.position]) {
			l.advance()
		}
		return Token{Type: DECIMAL, Text: l.input[from:l.position], Pos: start}
	}
	return Token{Type: NUMERAL, Text: l.input[from:l.position], Pos: start}
}

func (l *Lexer) lexBareWord() string {
	from := l.position
	for l.position < len(l.input) && (isSymbolChar(l.input[l.position]) || isDigit(l.input[l.position])) {
		l.advance()
	}
	return l.input[from:l.position]
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isSymbolChar reports whether c may start or continue a simple symbol.
// Digits are excluded here; the caller allows them in non-leading position.
func isSymbolChar(c byte) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	switch c {
	case '~', '!', '@', '$', '%', '^', '&', '*', '_', '-', '+', '=', '<', '>', '.', '?', '/':
		return true
	}
	return false
}
