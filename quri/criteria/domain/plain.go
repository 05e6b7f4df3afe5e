package criteria

import (
	"fmt"
)

const (
	keyConjunction = "conjunction"
	keyCriteria    = "criteria"
	keyField       = "field"
	keyFieldName   = "fieldName"
	keyOperator    = "operator"
	keyValue       = "value"
)

type PlainOptions struct {
	// Verbose emits criteria as objects instead of [field, operator, value]
	// tuples and always includes the conjunction.
	Verbose bool
	// UseShortFieldKey names the verbose field key "field" instead of "fieldName".
	UseShortFieldKey bool
}

type PlainOption func(*PlainOptions)

func Verbose() PlainOption {
	return func(o *PlainOptions) {
		o.Verbose = true
	}
}

func UseShortFieldKey() PlainOption {
	return func(o *PlainOptions) {
		o.UseShortFieldKey = true
	}
}

// plainVisitor converts entries to their plain object form.
type plainVisitor struct {
	opts PlainOptions
}

func (v plainVisitor) VisitCriterion(entry Criterion) (any, error) {
	var value any
	if entry.Value != nil {
		value = entry.Value.Plain()
	}
	if !v.opts.Verbose {
		return []any{entry.Field, entry.Operator, value}, nil
	}
	fieldKey := keyFieldName
	if v.opts.UseShortFieldKey {
		fieldKey = keyField
	}
	return map[string]any{
		fieldKey:    entry.Field,
		keyOperator: entry.Operator,
		keyValue:    value,
	}, nil
}

func (v plainVisitor) VisitNode(entry *Node) (any, error) {
	object := map[string]any{}
	if v.opts.Verbose || entry.conjunction != DefaultConjunction {
		object[keyConjunction] = string(entry.conjunction)
	}
	criteria := make([]any, len(entry.children))
	for i, child := range entry.children {
		item, err := child.Accept(v)
		if err != nil {
			return nil, err
		}
		criteria[i] = item
	}
	object[keyCriteria] = criteria
	return object, nil
}

func (v plainVisitor) VisitOpaque(entry Opaque) (any, error) {
	if node, ok := entry.node(); ok {
		return v.VisitNode(node)
	}
	return cloneLoose(entry.Value), nil
}

// ToPlainObject exports the tree as maps and slices:
//
//	{"conjunction": "or", "criteria": [["field", "=", "value"], {...}, "raw"]}
//
// The conjunction is omitted when it is the default, unless Verbose is set.
// Operators are exported as appended, without normalization.
func (n *Node) ToPlainObject(opts ...PlainOption) map[string]any {
	v := plainVisitor{}
	for _, opt := range opts {
		opt(&v.opts)
	}
	// plainVisitor never fails
	result, _ := v.VisitNode(n)
	return result.(map[string]any)
}

// entryShape is the classification of one raw criteria item.
type entryShape int

const (
	shapeNested entryShape = iota
	shapeCriterion
	shapeTuple
	shapeOpaque
)

// classifyEntry decides, in priority order, whether a raw item is a nested
// node, a criterion object, a [field, operator, value] tuple or an opaque
// value.
func classifyEntry(raw any) entryShape {
	switch raw.(type) {
	case *Node:
		return shapeNested
	case Criterion:
		return shapeCriterion
	case Opaque, string, nil:
		return shapeOpaque
	}
	if m, ok := toStringMap(raw); ok {
		if c, ok := m[keyCriteria]; ok && c != nil {
			return shapeNested
		}
		if _, ok := fieldOf(m); ok {
			if _, ok := nonEmptyString(m[keyOperator]); ok {
				return shapeCriterion
			}
		}
		return shapeOpaque
	}
	if items, ok := toAnySlice(raw); ok && len(items) == 3 {
		return shapeTuple
	}
	return shapeOpaque
}

func decodeEntry(raw any) IEntry {
	switch classifyEntry(raw) {
	case shapeNested:
		return FromPlainObject(raw)
	case shapeCriterion:
		if c, ok := raw.(Criterion); ok {
			return c.clone()
		}
		m, _ := toStringMap(raw)
		field, _ := fieldOf(m)
		operator, _ := nonEmptyString(m[keyOperator])
		return Criterion{Field: field, Operator: operator, Value: ValueOf(m[keyValue])}
	case shapeTuple:
		items, _ := toAnySlice(raw)
		return Criterion{Field: stringOf(items[0]), Operator: stringOf(items[1]), Value: ValueOf(items[2])}
	default:
		if o, ok := raw.(Opaque); ok {
			return Opaque{Value: cloneLoose(o.Value)}
		}
		return Opaque{Value: cloneLoose(raw)}
	}
}

// FromPlainObject builds a new tree from the plain object form. A *Node is
// accepted too and deep-copied. nil and unrecognized input give an empty
// node; the result never shares mutable state with obj.
func FromPlainObject(obj any) *Node {
	if n, ok := obj.(*Node); ok {
		if n == nil {
			return NewNode()
		}
		obj = n.ToPlainObject()
	}
	m, ok := toStringMap(obj)
	if !ok {
		return NewNode()
	}
	node := NewNode(conjunctionOf(m[keyConjunction]))
	items, _ := toAnySlice(m[keyCriteria])
	for _, item := range items {
		node.children = append(node.children, decodeEntry(item))
	}
	return node
}

// conjunctionOf keeps any string, the default applies only when the key is
// absent or not a string.
func conjunctionOf(raw any) Conjunction {
	switch c := raw.(type) {
	case Conjunction:
		return c
	case string:
		return Conjunction(c)
	default:
		return DefaultConjunction
	}
}

func fieldOf(m map[string]any) (string, bool) {
	if field, ok := nonEmptyString(m[keyField]); ok {
		return field, true
	}
	return nonEmptyString(m[keyFieldName])
}

func nonEmptyString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok && s != ""
}

func stringOf(raw any) string {
	switch s := raw.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// toStringMap accepts map[string]any and the map[any]any some YAML decoders
// produce.
func toStringMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		result := make(map[string]any, len(m))
		for k, v := range m {
			result[fmt.Sprint(k)] = v
		}
		return result, true
	default:
		return nil, false
	}
}
