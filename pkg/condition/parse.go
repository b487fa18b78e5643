package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse compiles a rule string into an expression tree.
//
// Supported syntax:
//   - truthiness: `enabled`, `!archived`
//   - comparisons: `role == "admin"`, `count != 3`, `age >= 18`, `score < 2.5`
//   - composition: `a == true && (b != "x" || !c)`
//
// Negation is pushed down to the leaves, so the result only contains Leaf,
// And and Or nodes. An empty rule yields a nil expression (always visible).
func Parse(rule string) (Expression, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	if err := checkParens(tokens); err != nil {
		return nil, err
	}

	stream := &tokenStream{tokens: tokens}
	expr, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("condition: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return expr, nil
}

// MustParse is like Parse but panics on error. Intended for package-level
// schema declarations.
func MustParse(rule string) Expression {
	expr, err := Parse(rule)
	if err != nil {
		panic(err)
	}
	return expr
}

var negatedOperators = map[Operator]Operator{
	OpEquals:         OpNotEquals,
	OpNotEquals:      OpEquals,
	OpIn:             OpNotIn,
	OpNotIn:          OpIn,
	OpGreaterThan:    OpLessOrEqual,
	OpLessOrEqual:    OpGreaterThan,
	OpGreaterOrEqual: OpLessThan,
	OpLessThan:       OpGreaterOrEqual,
	OpTruthy:         OpFalsy,
	OpFalsy:          OpTruthy,
}

// Negate returns the logical complement of expr using De Morgan's laws.
// Negated predicates keep their fail-open behaviour: a failure still
// evaluates to true.
func Negate(expr Expression) (Expression, error) {
	switch typed := normalize(expr).(type) {
	case Leaf:
		op, ok := negatedOperators[typed.Operator]
		if !ok {
			return nil, &MalformedError{Reason: fmt.Sprintf("cannot negate operator %q", typed.Operator)}
		}
		return Leaf{Field: typed.Field, Operator: op, Value: typed.Value}, nil
	case And:
		nodes, err := negateAll(typed.Nodes)
		if err != nil {
			return nil, err
		}
		return Or{Nodes: nodes}, nil
	case Or:
		nodes, err := negateAll(typed.Nodes)
		if err != nil {
			return nil, err
		}
		return And{Nodes: nodes}, nil
	case Predicate:
		fn := typed.Fn
		return Predicate{
			Name: "!" + typed.Name,
			Fn: func(values Values) (bool, error) {
				if fn == nil {
					return false, errNilPredicate
				}
				ok, err := fn(values)
				if err != nil {
					return false, err
				}
				return !ok, nil
			},
		}, nil
	default:
		return nil, &MalformedError{Reason: fmt.Sprintf("cannot negate %T", expr)}
	}
}

func negateAll(nodes []Expression) ([]Expression, error) {
	out := make([]Expression, len(nodes))
	for idx, node := range nodes {
		negated, err := Negate(node)
		if err != nil {
			return nil, err
		}
		out[idx] = negated
	}
	return out, nil
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenGt
	tokenGte
	tokenLt
	tokenLte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

var comparisonOperators = map[tokenKind]Operator{
	tokenEq:  OpEquals,
	tokenNeq: OpNotEquals,
	tokenGt:  OpGreaterThan,
	tokenGte: OpGreaterOrEqual,
	tokenLt:  OpLessThan,
	tokenLte: OpLessOrEqual,
}

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch ch {
		case ' ', '\t', '\n', '\r':
			i++
		case '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case '!':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
		case '=':
			if peek(1) != '=' {
				return nil, errors.New("condition: unexpected '='; use '=='")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
		case '>', '<':
			kind, raw := tokenGt, ">"
			if ch == '<' {
				kind, raw = tokenLt, "<"
			}
			if peek(1) == '=' {
				kind++
				raw += "="
				i++
			}
			i++
			tokens = append(tokens, token{kind: kind, raw: raw})
		case '&':
			if peek(1) != '&' {
				return nil, errors.New("condition: unexpected '&'; use '&&'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
		case '|':
			if peek(1) != '|' {
				return nil, errors.New("condition: unexpected '|'; use '||'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
		case '"', '\'':
			value, next, err := scanString(input, i)
			if err != nil {
				return nil, err
			}
			i = next
			tokens = append(tokens, token{kind: tokenString, raw: value})
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				if looksLikeNumber(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}

	return tokens, nil
}

// scanString reads a quoted literal starting at input[start] and returns the
// unquoted value with the index just past the closing quote.
func scanString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("condition: invalid string literal: %w", err)
		}
		return value, i + 1, nil
	}
	return "", 0, errors.New("condition: unterminated string literal")
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '&', '|', '<', '>', '"', '\'':
		return true
	default:
		return false
	}
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

// checkParens reports unbalanced parentheses before parsing, so the error
// names the parenthesis rather than whatever token the parser missed.
func checkParens(tokens []token) error {
	depth := 0
	for _, tok := range tokens {
		switch tok.kind {
		case tokenLParen:
			depth++
		case tokenRParen:
			if depth == 0 {
				return errors.New("condition: unbalanced parentheses, unexpected ')'")
			}
			depth--
		}
	}
	if depth > 0 {
		return fmt.Errorf("condition: unbalanced parentheses, %d '(' not closed", depth)
	}
	return nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseOr(stream *tokenStream) (Expression, error) {
	first, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	nodes := []Expression{first}
	for stream.match(tokenOr) {
		next, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, next)
	}
	if len(nodes) == 1 {
		return first, nil
	}
	return Or{Nodes: nodes}, nil
}

func parseAnd(stream *tokenStream) (Expression, error) {
	first, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	nodes := []Expression{first}
	for stream.match(tokenAnd) {
		next, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, next)
	}
	if len(nodes) == 1 {
		return first, nil
	}
	return And{Nodes: nodes}, nil
}

func parseUnary(stream *tokenStream) (Expression, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return Negate(inner)
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (Expression, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("condition: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("condition: empty expression")
		}
		return nil, fmt.Errorf("condition: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	if stream.pos < len(stream.tokens) {
		if op, isComparison := comparisonOperators[stream.tokens[stream.pos].kind]; isComparison {
			stream.pos++
			value, err := stream.consumeLiteral()
			if err != nil {
				return nil, err
			}
			leaf := Leaf{Field: ident.raw, Operator: op, Value: value}
			if err := checkLeaf(leaf, ""); err != nil {
				return nil, err
			}
			return leaf, nil
		}
	}

	return Leaf{Field: ident.raw, Operator: OpTruthy}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeLiteral() (any, error) {
	if s.pos >= len(s.tokens) {
		return nil, errors.New("condition: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return tok.raw, nil
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("condition: invalid number literal %q", tok.raw)
		}
		return value, nil
	case tokenBool:
		return tok.raw == "true", nil
	case tokenNull:
		return nil, nil
	case tokenIdentifier:
		// Bare identifiers are treated as strings to keep rules forgiving.
		return tok.raw, nil
	default:
		return nil, fmt.Errorf("condition: expected literal, got %q", tok.raw)
	}
}
