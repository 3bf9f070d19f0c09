package boolquery

import "strings"

// Node is an element of the query tree.
type Node interface {
	node()
	String() string
}

// Term matches a single word, or a phrase when Phrase is set.
type Term struct {
	Text   string
	Phrase bool
}

// And matches documents matching all children.
type And struct {
	Children []Node
}

// Or matches documents matching any child.
type Or struct {
	Children []Node
}

// Not excludes documents matching Child. It only has a meaning inside an
// And with at least one positive sibling.
type Not struct {
	Child Node
}

func (Term) node() {}
func (And) node()  {}
func (Or) node()   {}
func (Not) node()  {}

func (t Term) String() string {
	if t.Phrase {
		return `"` + t.Text + `"`
	}
	return t.Text
}

func (a And) String() string { return join(a.Children, " ") }
func (o Or) String() string  { return join(o.Children, " or ") }
func (n Not) String() string {
	switch n.Child.(type) {
	case And, Or:
		return "-(" + n.Child.String() + ")"
	default:
		return "-" + n.Child.String()
	}
}

func join(nodes []Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s := n.String()
		if _, group := n.(Or); group {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

// Split separates the children of an And into positive and negated nodes.
func Split(a And) (positive, negative []Node) {
	for _, c := range a.Children {
		if n, ok := c.(Not); ok {
			negative = append(negative, n.Child)
			continue
		}
		positive = append(positive, c)
	}
	return positive, negative
}

// Terms returns the positive terms of the tree in query order.
func Terms(n Node) []Term {
	var out []Term
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case Term:
			out = append(out, v)
		case And:
			for _, c := range v.Children {
				walk(c)
			}
		case Or:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}
