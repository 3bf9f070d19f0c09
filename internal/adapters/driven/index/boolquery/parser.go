package boolquery

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokPhrase
	tokOr
	tokNot
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
}

// Parse parses query into a tree. It returns nil when the query holds no
// searchable term.
func Parse(query string) Node {
	p := &parser{tokens: tokenize(query)}
	var node Node
	for p.pos < len(p.tokens) {
		if n := p.parseOr(); n != nil {
			node = appendAnd(node, n)
		}
		// Stray closing parenthesis.
		if p.peek(tokClose) {
			p.pos++
		}
	}
	return node
}

// Validate reports whether query has at least one positive term, i.e.
// whether it can match anything.
func Validate(query string) bool {
	return len(Terms(Parse(query))) > 0
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek(kind tokenKind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind
}

func (p *parser) parseOr() Node {
	var children []Node
	for {
		if n := p.parseAnd(); n != nil {
			children = append(children, n)
		}
		if !p.peek(tokOr) {
			break
		}
		p.pos++
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return Or{Children: children}
	}
}

func (p *parser) parseAnd() Node {
	var children []Node
	for p.pos < len(p.tokens) && !p.peek(tokOr) && !p.peek(tokClose) {
		if n := p.parseUnary(); n != nil {
			children = append(children, n)
		}
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return And{Children: children}
	}
}

func (p *parser) parseUnary() Node {
	if p.peek(tokNot) {
		p.pos++
		if p.pos >= len(p.tokens) || p.peek(tokOr) || p.peek(tokClose) {
			return nil
		}
		child := p.parsePrimary()
		if child == nil {
			return nil
		}
		if n, ok := child.(Not); ok {
			return n.Child
		}
		return Not{Child: child}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() Node {
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokWord:
		return Term{Text: tok.text}
	case tokPhrase:
		return Term{Text: tok.text, Phrase: true}
	case tokOpen:
		n := p.parseOr()
		if p.peek(tokClose) {
			p.pos++
		}
		return n
	case tokNot:
		p.pos--
		return p.parseUnary()
	default:
		return nil
	}
}

// appendAnd joins top-level fragments left over after a stray ")".
func appendAnd(left, right Node) Node {
	if left == nil {
		return right
	}
	if a, ok := left.(And); ok {
		return And{Children: append(a.Children, right)}
	}
	return And{Children: []Node{left, right}}
}

// tokenize splits query into tokens. A "-" is an operator only at the start
// of a word; inside a word it is kept ("e-mail").
func tokenize(query string) []token {
	var tokens []token
	runes := []rune(query)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokOpen})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokClose})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokNot})
			i++
		case r == '"':
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			if text := strings.TrimSpace(string(runes[i+1 : end])); text != "" {
				tokens = append(tokens, token{kind: tokPhrase, text: text})
			}
			i = end + 1
		default:
			end := i
			for end < len(runes) && !unicode.IsSpace(runes[end]) && !strings.ContainsRune(`()"`, runes[end]) {
				end++
			}
			word := string(runes[i:end])
			if strings.EqualFold(word, "or") {
				tokens = append(tokens, token{kind: tokOr})
			} else {
				tokens = append(tokens, token{kind: tokWord, text: word})
			}
			i = end
		}
	}
	return tokens
}
