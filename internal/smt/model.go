package smt

import (
	"fmt"
	"strconv"
	"strings"
)

// SanitizeModel strips the framing an SMT solver puts around its model
// output: a leading "sat" line, the enclosing parens, and the legacy
// "model" keyword older z3 versions emit. The second return value is true
// when the input is an "unsat" answer, i.e. there is no model to check.
func SanitizeModel(input string) (string, bool) {
	model := strings.TrimSpace(input)
	if model == "unsat" || strings.HasPrefix(model, "unsat\n") {
		return "", true
	}
	if rest, ok := cutKeyword(model, "sat"); ok {
		model = rest
	}
	if strings.HasPrefix(model, "(") && strings.HasSuffix(model, ")") && balancedOutermost(model) {
		model = strings.TrimSpace(model[1 : len(model)-1])
	}
	if rest, ok := cutKeyword(model, "model"); ok {
		model = rest
	}
	return model, false
}

// cutKeyword strips a leading solver keyword only at a token boundary, so
// a model whose first symbol merely starts with the keyword is left for
// the parser to judge.
func cutKeyword(s, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(s, keyword)
	if !ok {
		return s, false
	}
	if rest != "" {
		switch rest[0] {
		case ' ', '\t', '\n', '\r', '(':
		default:
			return s, false
		}
	}
	return strings.TrimSpace(rest), true
}

// balancedOutermost reports whether the first '(' closes at the very end
// of the text, i.e. the whole text is one parenthesized group.
func balancedOutermost(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// UnescapeString decodes the escape sequences of an SMT-LIB string
// literal: \u{XDIGITS}, \uXXXX and the SMT-LIB 2.5 \xXX form. A lone
// backslash before any other character passes that character through.
func UnescapeString(s string) (string, error) {
	var sb strings.Builder
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		c := runes[i]
		if c != '\\' || i+1 >= len(runes) {
			sb.WriteRune(c)
			i++
			continue
		}
		switch runes[i+1] {
		case 'u':
			consumed, decoded, err := decodeUnicodeEscape(runes[i:])
			if err != nil {
				return "", err
			}
			sb.WriteRune(decoded)
			i += consumed
		case 'x':
			if i+3 >= len(runes) {
				return "", fmt.Errorf("truncated \\x escape in %q", s)
			}
			code, err := strconv.ParseUint(string(runes[i+2:i+4]), 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape in %q", s)
			}
			sb.WriteRune(rune(code))
			i += 4
		default:
			sb.WriteRune(runes[i+1])
			i += 2
		}
	}
	return sb.String(), nil
}

// decodeUnicodeEscape decodes \u{...} or \uXXXX at the start of runes and
// returns how many runes it consumed.
func decodeUnicodeEscape(runes []rune) (int, rune, error) {
	if len(runes) < 3 {
		return 0, 0, fmt.Errorf("truncated \\u escape")
	}
	if runes[2] == '{' {
		end := 3
		for end < len(runes) && runes[end] != '}' {
			end++
		}
		if end >= len(runes) || end == 3 {
			return 0, 0, fmt.Errorf("malformed \\u{...} escape")
		}
		code, err := strconv.ParseUint(string(runes[3:end]), 16, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid \\u{...} escape")
		}
		return end + 1, rune(code), nil
	}
	if len(runes) < 6 {
		return 0, 0, fmt.Errorf("truncated \\u escape")
	}
	code, err := strconv.ParseUint(string(runes[2:6]), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid \\u escape")
	}
	return 6, rune(code), nil
}
