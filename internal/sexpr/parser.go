package sexpr

// NodeKind discriminates the variants of a parsed s-expression node.
type NodeKind int

const (
	KindList NodeKind = iota
	KindSymbol
	KindKeyword
	KindNumeral
	KindDecimal
	KindHex
	KindBinary
	KindString
)

// Node is one s-expression: either an atom or a parenthesized list.
type Node struct {
	Kind NodeKind
	Text string  // atom text; empty for lists
	List []*Node // list elements; nil for atoms
	Pos  Pos
}

// IsList reports whether the node is a parenthesized list.
func (n *Node) IsList() bool { return n.Kind == KindList }

// IsSymbol reports whether the node is the given simple symbol.
func (n *Node) IsSymbol(name string) bool {
	return n.Kind == KindSymbol && n.Text == name
}

// Head returns the leading symbol of a list node, or "" if the node is
// not a list or does not start with a symbol.
func (n *Node) Head() string {
	if n.Kind == KindList && len(n.List) > 0 && n.List[0].Kind == KindSymbol {
		return n.List[0].Text
	}
	return ""
}

// Parse reads a whole input as a sequence of top-level s-expressions.
func Parse(input string) ([]*Node, error) {
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	var nodes []*Node
	for p.peek().Type != EOF {
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

type parser struct {
	tokens   []Token
	position int
}

func (p *parser) peek() Token {
	return p.tokens[p.position]
}

func (p *parser) next() Token {
	tok := p.tokens[p.position]
	if tok.Type != EOF {
		p.position++
	}
	return tok
}

func (p *parser) parseNode() (*Node, error) {
	tok := p.next()
	switch tok.Type {
	case LPAREN:
		node := &Node{Kind: KindList, Pos: tok.Pos}
		for {
			switch p.peek().Type {
			case RPAREN:
				p.next()
				return node, nil
			case EOF:
				return nil, syntaxErrorf(tok.Pos, "unclosed '('")
			}
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			node.List = append(node.List, child)
		}
	case RPAREN:
		return nil, syntaxErrorf(tok.Pos, "unexpected ')'")
	case SYMBOL:
		return &Node{Kind: KindSymbol, Text: tok.Text, Pos: tok.Pos}, nil
	case KEYWORD:
		return &Node{Kind: KindKeyword, Text: tok.Text, Pos: tok.Pos}, nil
	case NUMERAL:
		return &Node{Kind: KindNumeral, Text: tok.Text, Pos: tok.Pos}, nil
	case DECIMAL:
		return &Node{Kind: KindDecimal, Text: tok.Text, Pos: tok.Pos}, nil
	case HEX:
		return &Node{Kind: KindHex, Text: tok.Text, Pos: tok.Pos}, nil
	case BINARY:
		return &Node{Kind: KindBinary, Text: tok.Text, Pos: tok.Pos}, nil
	case STRING:
		return &Node{Kind: KindString, Text: tok.Text, Pos: tok.Pos}, nil
	default:
		return nil, syntaxErrorf(tok.Pos, "unexpected %s", tok.Type)
	}
}
