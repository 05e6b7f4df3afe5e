// Package criteria builds QURI filter criteria trees and converts them to the
// QURI text form, the plain object form and its JSON and YAML encodings.
package criteria

// Node is a level of the criteria tree: a conjunction and an ordered list of
// entries. A Node owns its children; nested nodes must not be shared between
// parents and must not form cycles.
type Node struct {
	conjunction Conjunction
	children    []IEntry
}

// NewNode creates an empty node. The conjunction defaults to "and" when it is
// not given.
func NewNode(conjunction ...Conjunction) *Node {
	n := &Node{conjunction: DefaultConjunction}
	if len(conjunction) > 0 {
		n.conjunction = conjunction[0]
	}
	return n
}

func (n *Node) Conjunction() Conjunction {
	return n.conjunction
}

// SetConjunction accepts any value, values other than "and" (including the
// empty one) join as "or".
func (n *Node) SetConjunction(conjunction Conjunction) {
	n.conjunction = conjunction
}

// AppendExpression appends a criterion. The operator is not checked here.
func (n *Node) AppendExpression(field, operator string, value Value) *Node {
	if value == nil {
		value = Scalar{}
	}
	n.children = append(n.children, Criterion{Field: field, Operator: operator, Value: value})
	return n
}

// AppendCriteria appends a nested node, a criterion, an opaque entry or any
// other value, which is wrapped as Opaque. A nil *Node is ignored.
func (n *Node) AppendCriteria(entry any) *Node {
	switch e := entry.(type) {
	case *Node:
		if e != nil {
			n.children = append(n.children, e)
		}
	case Criterion:
		n.children = append(n.children, e)
	case Opaque:
		n.children = append(n.children, e)
	default:
		n.children = append(n.children, Opaque{Value: e})
	}
	return n
}

func (n *Node) AppendNode(child *Node) *Node {
	return n.AppendCriteria(child)
}

// Children returns a copy of the entries in append order.
func (n *Node) Children() []IEntry {
	result := make([]IEntry, len(n.children))
	for i, child := range n.children {
		if c, ok := child.(Criterion); ok {
			result[i] = c.clone()
		} else {
			result[i] = child
		}
	}
	return result
}

func (n *Node) Len() int {
	return len(n.children)
}

func (n *Node) Accept(visitor IEntryVisitor) (any, error) {
	return visitor.VisitNode(n)
}

// Clone returns a deep copy that shares no mutable state with n.
func (n *Node) Clone() *Node {
	return FromPlainObject(n)
}
