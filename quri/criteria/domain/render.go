package criteria

import (
	"fmt"
	"strings"
)

type renderVisitor struct{}

func (v renderVisitor) VisitCriterion(entry Criterion) (any, error) {
	op, err := NormalizeOperator(entry.Operator)
	if err != nil {
		return nil, err
	}
	value := entry.Value
	if value == nil {
		value = Scalar{}
	}
	return fmt.Sprintf("%s.%s(%s)", quote(entry.Field), op, value.render()), nil
}

func (v renderVisitor) VisitNode(entry *Node) (any, error) {
	inner, err := entry.Render()
	if err != nil {
		return nil, err
	}
	return "(" + inner + ")", nil
}

func (v renderVisitor) VisitOpaque(entry Opaque) (any, error) {
	if node, ok := entry.node(); ok {
		return v.VisitNode(node)
	}
	return "(" + entry.String() + ")", nil
}

// Render returns the canonical QURI text of the tree. The first unsupported
// operator found anywhere in the tree aborts rendering with an
// *UnsupportedOperator error.
func (n *Node) Render() (string, error) {
	parts := make([]string, len(n.children))
	for i, child := range n.children {
		part, err := child.Accept(renderVisitor{})
		if err != nil {
			return "", err
		}
		parts[i] = part.(string)
	}
	return strings.Join(parts, n.conjunction.separator()), nil
}

// String returns the QURI text, or an empty string when the tree holds an
// unsupported operator.
func (n *Node) String() string {
	s, err := n.Render()
	if err != nil {
		return ""
	}
	return s
}

// MustRender is like Render but panics on error.
func (n *Node) MustRender() string {
	s, err := n.Render()
	if err != nil {
		panic(err)
	}
	return s
}
