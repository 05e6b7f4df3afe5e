package criteria

import (
	"fmt"
)

type IEntryVisitor interface {
	VisitCriterion(entry Criterion) (any, error)
	VisitNode(entry *Node) (any, error)
	VisitOpaque(entry Opaque) (any, error)
}

// IEntry is a child of a Node: a Criterion, a nested *Node or an Opaque value.
type IEntry interface {
	Accept(visitor IEntryVisitor) (any, error)
}

// Criterion is a single field/operator/value leaf. The operator keeps the
// alias it was appended with and is normalized only when rendered.
type Criterion struct {
	Field    string
	Operator string
	Value    Value
}

func (e Criterion) Accept(visitor IEntryVisitor) (any, error) {
	return visitor.VisitCriterion(e)
}

func (e Criterion) clone() Criterion {
	var value Value = Scalar{}
	if e.Value != nil {
		value = e.Value.clone()
	}
	return Criterion{Field: e.Field, Operator: e.Operator, Value: value}
}

func (e Criterion) String() string {
	return fmt.Sprintf("Criterion(%s, %s, %v)", e.Field, e.Operator, e.Value)
}

// Opaque is a literal sub-expression rendered through its own textual form:
// strings verbatim, fmt.Stringer through String, anything else as JSON.
type Opaque struct {
	Value any
}

func (e Opaque) Accept(visitor IEntryVisitor) (any, error) {
	return visitor.VisitOpaque(e)
}

// node reports whether the opaque value is a non-nil criteria tree.
func (e Opaque) node() (*Node, bool) {
	n, ok := e.Value.(*Node)
	return n, ok && n != nil
}

func (e Opaque) String() string {
	return textOf(e.Value)
}
