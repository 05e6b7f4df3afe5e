package criteria

import (
	"github.com/hashicorp/go-multierror"
)

type validateVisitor struct {
	result *multierror.Error
}

func (v *validateVisitor) VisitCriterion(entry Criterion) (any, error) {
	if _, err := NormalizeOperator(entry.Operator); err != nil {
		v.result = multierror.Append(v.result, err)
	}
	return nil, nil
}

func (v *validateVisitor) VisitNode(entry *Node) (any, error) {
	for _, child := range entry.children {
		if _, err := child.Accept(v); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (v *validateVisitor) VisitOpaque(entry Opaque) (any, error) {
	if node, ok := entry.node(); ok {
		return v.VisitNode(node)
	}
	return nil, nil
}

// Validate reports every unsupported operator in the tree, in render order,
// as a *multierror.Error. It returns nil when the tree renders.
func (n *Node) Validate() error {
	v := &validateVisitor{}
	if _, err := v.VisitNode(n); err != nil {
		return err
	}
	return v.result.ErrorOrNil()
}
