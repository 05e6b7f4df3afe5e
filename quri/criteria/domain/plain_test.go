package criteria

import (
	"testing"

	"github.com/icrowley/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"syreclabs.com/go/faker"
)

func TestToPlainObject(t *testing.T) {
	t.Run("compact", func(t *testing.T) {
		assert.Equal(t, map[string]any{
			"criteria": []any{
				[]any{"field_1", "=", "my value"},
				map[string]any{
					"conjunction": "or",
					"criteria": []any{
						[]any{"field_2", "=", "my inner value"},
						[]any{"field_3", "=", "my inner value 2"},
					},
				},
			},
		}, nestedFixture().ToPlainObject())
	})
	t.Run("verbose", func(t *testing.T) {
		assert.Equal(t, map[string]any{
			"conjunction": "and",
			"criteria": []any{
				map[string]any{"fieldName": "field_1", "operator": "=", "value": "my value"},
				map[string]any{
					"conjunction": "or",
					"criteria": []any{
						map[string]any{"fieldName": "field_2", "operator": "=", "value": "my inner value"},
						map[string]any{"fieldName": "field_3", "operator": "=", "value": "my inner value 2"},
					},
				},
			},
		}, nestedFixture().ToPlainObject(Verbose()))
	})
	t.Run("verbose with short field key", func(t *testing.T) {
		result := nestedFixture().ToPlainObject(Verbose(), UseShortFieldKey())
		criteria := result["criteria"].([]any)
		assert.Equal(t, map[string]any{"field": "field_1", "operator": "=", "value": "my value"}, criteria[0])
	})
	t.Run("short field key alone keeps tuples", func(t *testing.T) {
		result := nestedFixture().ToPlainObject(UseShortFieldKey())
		assert.Equal(t, []any{"field_1", "=", "my value"}, result["criteria"].([]any)[0])
		assert.NotContains(t, result, "conjunction")
	})
	t.Run("sequence value", func(t *testing.T) {
		result := NewNode().AppendExpression("a", "in", List(1, 2)).ToPlainObject()
		assert.Equal(t, []any{"a", "in", []any{1, 2}}, result["criteria"].([]any)[0])
	})
	t.Run("operator is not normalized or checked", func(t *testing.T) {
		result := NewNode().AppendExpression("a", "foo", Number(1)).ToPlainObject()
		assert.Equal(t, []any{"a", "foo", 1}, result["criteria"].([]any)[0])
	})
	t.Run("opaque passes through", func(t *testing.T) {
		result := NewNode().AppendCriteria(`"a".eq(1)`).ToPlainObject()
		assert.Equal(t, []any{`"a".eq(1)`}, result["criteria"])
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, map[string]any{"criteria": []any{}}, NewNode().ToPlainObject())
	})
}

func TestFromPlainObject(t *testing.T) {
	t.Run("tuples", func(t *testing.T) {
		object := map[string]any{
			"criteria": []any{
				[]any{"field_1", "=", "my value"},
				map[string]any{
					"conjunction": "or",
					"criteria": []any{
						[]any{"field_2", "=", "my inner value"},
						[]any{"field_3", "=", "my inner value 2"},
					},
				},
			},
		}
		assert.Equal(t, nestedFixtureQuri, FromPlainObject(object).MustRender())
	})
	t.Run("objects", func(t *testing.T) {
		object := map[string]any{
			"criteria": []any{
				map[string]any{"field": "field_1", "operator": "=", "value": "my value"},
				map[string]any{
					"conjunction": "or",
					"criteria": []any{
						map[string]any{"field": "field_2", "operator": "=", "value": "my inner value"},
						map[string]any{"fieldName": "field_3", "operator": "=", "value": "my inner value 2"},
					},
				},
			},
		}
		assert.Equal(t, nestedFixtureQuri, FromPlainObject(object).MustRender())
	})
	t.Run("node nested inside", func(t *testing.T) {
		inner := NewNode(ConjunctionOr)
		inner.AppendExpression("field_2", "=", String("my inner value"))
		inner.AppendExpression("field_3", "=", String("my inner value 2"))

		object := map[string]any{
			"criteria": []any{
				map[string]any{"field": "field_1", "operator": "=", "value": "my value"},
				inner,
			},
		}
		assert.Equal(t, nestedFixtureQuri, FromPlainObject(object).MustRender())
	})
	t.Run("typed slices", func(t *testing.T) {
		object := map[string]any{
			"criteria": [][]any{{"a", "in", []int{1, 2}}},
		}
		assert.Equal(t, `"a".in(1,2)`, FromPlainObject(object).MustRender())
	})
	t.Run("string tuple", func(t *testing.T) {
		object := map[string]any{"criteria": []any{[]string{"a", "=", "b"}}}
		assert.Equal(t, `"a".eq("b")`, FromPlainObject(object).MustRender())
	})
	t.Run("yaml style map", func(t *testing.T) {
		object := map[any]any{
			"conjunction": "or",
			"criteria":    []any{map[any]any{"field": "a", "operator": ">", "value": 1}, []any{"b", "<", 2}},
		}
		assert.Equal(t, `"a".gt(1)|"b".lt(2)`, FromPlainObject(object).MustRender())
	})
	t.Run("unknown conjunction is kept", func(t *testing.T) {
		object := map[string]any{"conjunction": "xor", "criteria": []any{}}
		assert.Equal(t, Conjunction("xor"), FromPlainObject(object).Conjunction())
	})
	t.Run("empty conjunction is kept", func(t *testing.T) {
		object := map[string]any{
			"conjunction": "",
			"criteria":    []any{[]any{"a", "=", 1}, []any{"b", "=", 2}},
		}
		quri := FromPlainObject(object)
		assert.Equal(t, Conjunction(""), quri.Conjunction())
		assert.Equal(t, `"a".eq(1)|"b".eq(2)`, quri.MustRender())
		assert.Equal(t, object, quri.ToPlainObject())
	})
	t.Run("non string field in tuple", func(t *testing.T) {
		object := map[string]any{"criteria": []any{[]any{5, "=", 1}}}
		assert.Equal(t, `"5".eq(1)`, FromPlainObject(object).MustRender())
	})
	t.Run("missing conjunction is and", func(t *testing.T) {
		assert.Equal(t, ConjunctionAnd, FromPlainObject(map[string]any{}).Conjunction())
	})
	t.Run("missing criteria", func(t *testing.T) {
		assert.Equal(t, 0, FromPlainObject(map[string]any{"conjunction": "or"}).Len())
	})
	t.Run("criteria of wrong type", func(t *testing.T) {
		assert.Equal(t, 0, FromPlainObject(map[string]any{"criteria": "nope"}).Len())
	})
}

func TestFromPlainObjectEmptyInput(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, "", FromPlainObject(nil).MustRender())
	})
	t.Run("nil node", func(t *testing.T) {
		var n *Node
		assert.Equal(t, "", FromPlainObject(n).MustRender())
	})
	t.Run("scalar", func(t *testing.T) {
		assert.Equal(t, "", FromPlainObject(42).MustRender())
	})
}

func TestClassifyEntry(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected entryShape
	}{
		{"node", NewNode(), shapeNested},
		{"criteria object", map[string]any{"criteria": []any{}}, shapeNested},
		{"criteria wins over criterion keys", map[string]any{
			"criteria": []any{}, "field": "a", "operator": "=",
		}, shapeNested},
		{"null criteria", map[string]any{"criteria": nil}, shapeOpaque},
		{"criterion object", map[string]any{"field": "a", "operator": "="}, shapeCriterion},
		{"criterion object with field name", map[string]any{"fieldName": "a", "operator": "="}, shapeCriterion},
		{"criterion value", Criterion{Field: "a", Operator: "="}, shapeCriterion},
		{"missing operator", map[string]any{"field": "a"}, shapeOpaque},
		{"empty field", map[string]any{"field": "", "operator": "="}, shapeOpaque},
		{"tuple", []any{"a", "=", 1}, shapeTuple},
		{"pair", []any{"a", "="}, shapeOpaque},
		{"four items", []any{"a", "=", 1, 2}, shapeOpaque},
		{"string", `"a".eq(1)`, shapeOpaque},
		{"three letter string", "abc", shapeOpaque},
		{"stringer", rawClause("x"), shapeOpaque},
		{"nil", nil, shapeOpaque},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyEntry(tt.raw))
		})
	}
}

func TestFromPlainObjectOpaque(t *testing.T) {
	custom := rawClause(`"x".eq(1)`)
	object := map[string]any{
		"criteria": []any{`"a".eq(1)`, custom, map[string]any{"field": "a"}},
	}
	quri := FromPlainObject(object)
	children := quri.Children()
	require.Len(t, children, 3)
	assert.Equal(t, Opaque{Value: `"a".eq(1)`}, children[0])
	assert.Equal(t, Opaque{Value: custom}, children[1])
	assert.Equal(t, Opaque{Value: map[string]any{"field": "a"}}, children[2])
	assert.Equal(t, `("a".eq(1)),("x".eq(1)),({"field":"a"})`, quri.MustRender())
}

func TestFromPlainObjectClones(t *testing.T) {
	t.Run("node", func(t *testing.T) {
		quri := NewNode()
		inner := NewNode(ConjunctionOr)

		quri.AppendExpression("field_1", "=", String("my value"))
		inner.AppendExpression("field_2", "=", String("my inner value"))
		inner.AppendExpression("field_3", "=", String("my inner value 2"))
		quri.AppendNode(inner)

		rendered := quri.MustRender()
		parsed := FromPlainObject(quri)
		assert.Equal(t, quri, parsed)
		assert.NotSame(t, quri, parsed)

		inner.AppendExpression("field_4", "is", String("side effect"))

		assert.Equal(t, rendered, parsed.MustRender())
		assert.NotEqual(t, quri, parsed)
	})
	t.Run("plain object", func(t *testing.T) {
		values := []any{1, 2}
		opaque := map[string]any{"raw": "x"}
		object := map[string]any{
			"criteria": []any{[]any{"a", "in", values}, opaque},
		}
		quri := FromPlainObject(object)

		values[0] = 9
		opaque["raw"] = "changed"
		object["criteria"] = []any{}

		assert.Equal(t, `"a".in(1,2),({"raw":"x"})`, quri.MustRender())
	})
	t.Run("clone method", func(t *testing.T) {
		quri := nestedFixture()
		clone := quri.Clone()
		quri.AppendExpression("extra", "=", Number(1))
		quri.SetConjunction(ConjunctionOr)
		assert.Equal(t, nestedFixtureQuri, clone.MustRender())
	})
}

func TestFromPlainObjectClonesTypedOpaque(t *testing.T) {
	t.Run("typed slice", func(t *testing.T) {
		raw := []string{"x", "y"}
		source := NewNode().AppendCriteria(raw)
		clone := source.Clone()
		raw[0] = "changed"
		assert.Equal(t, `(["x","y"])`, clone.MustRender())
	})
	t.Run("typed map", func(t *testing.T) {
		raw := map[string]string{"k": "v"}
		quri := FromPlainObject(map[string]any{"criteria": []any{raw}})
		raw["k"] = "changed"
		assert.Equal(t, `({"k":"v"})`, quri.MustRender())
	})
	t.Run("nested typed containers", func(t *testing.T) {
		inner := []int{1, 2}
		raw := map[string][]int{"ids": inner}
		quri := FromPlainObject(map[string]any{"criteria": []any{raw}})
		inner[0] = 9
		raw["other"] = []int{3}
		assert.Equal(t, `({"ids":[1,2]})`, quri.MustRender())
	})
	t.Run("array of interfaces", func(t *testing.T) {
		items := []any{1}
		raw := [2]any{items, "a"}
		quri := FromPlainObject(map[string]any{"criteria": []any{[]any{raw}}})
		items[0] = 9
		assert.Equal(t, `([[[1],"a"]])`, quri.MustRender())
	})
	t.Run("opaque node", func(t *testing.T) {
		inner := NewNode().AppendExpression("a", "=", Number(1))
		source := NewNode().AppendCriteria(Opaque{Value: inner})
		clone := source.Clone()
		inner.AppendExpression("b", "=", Number(2))
		assert.Equal(t, `("a".eq(1))`, clone.MustRender())
	})
}

func randomTree(depth int) *Node {
	conjunctions := []Conjunction{ConjunctionAnd, ConjunctionOr}
	aliases := OperatorAliases()
	n := NewNode(conjunctions[len(fake.Word())%2])
	count := 1 + len(faker.Lorem().Word())%4
	for i := 0; i < count; i++ {
		field := faker.Lorem().Word()
		operator := aliases[(i+len(field))%len(aliases)]
		switch i % 3 {
		case 0:
			n.AppendExpression(field, operator, String(fake.Sentence()))
		case 1:
			n.AppendExpression(field, operator, List(len(field), fake.Word(), i))
		default:
			if depth > 0 {
				n.AppendNode(randomTree(depth - 1))
			} else {
				n.AppendExpression(`"`+field+`"`, operator, Number(float64(i)+0.5))
			}
		}
	}
	return n
}

func TestPlainObjectRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		quri := randomTree(3)
		expected, err := quri.Render()
		require.NoError(t, err)

		t.Run("compact", func(t *testing.T) {
			assert.Equal(t, expected, FromPlainObject(quri.ToPlainObject()).MustRender())
		})
		t.Run("verbose", func(t *testing.T) {
			assert.Equal(t, expected, FromPlainObject(quri.ToPlainObject(Verbose())).MustRender())
		})
		t.Run("verbose short key", func(t *testing.T) {
			restored := FromPlainObject(quri.ToPlainObject(Verbose(), UseShortFieldKey()))
			assert.Equal(t, expected, restored.MustRender())
		})
	}
}
