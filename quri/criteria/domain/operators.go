package criteria

import (
	"errors"
	"fmt"
)

var ErrUnsupportedOperator = errors.New("unsupported operator")

// UnsupportedOperator carries the raw operator string that matched no alias.
type UnsupportedOperator struct {
	Operator string
}

func (e *UnsupportedOperator) Error() string {
	return fmt.Sprintf("unsupported operator '%s'", e.Operator)
}

func (e *UnsupportedOperator) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// Operator is the canonical keyword used in rendered QURI text.
type Operator string

const (
	OperatorEq      Operator = "eq"
	OperatorNeq     Operator = "neq"
	OperatorGt      Operator = "gt"
	OperatorGte     Operator = "gte"
	OperatorLt      Operator = "lt"
	OperatorLte     Operator = "lte"
	OperatorIn      Operator = "in"
	OperatorNin     Operator = "nin"
	OperatorLike    Operator = "like"
	OperatorBetween Operator = "between"
)

var operatorAliases = []struct {
	alias     string
	canonical Operator
}{
	{"=", OperatorEq}, {"==", OperatorEq}, {"===", OperatorEq}, {"eq", OperatorEq},
	{"!=", OperatorNeq}, {"!==", OperatorNeq}, {"neq", OperatorNeq},
	{">", OperatorGt}, {"gt", OperatorGt},
	{">=", OperatorGte}, {"gte", OperatorGte},
	{"<", OperatorLt}, {"lt", OperatorLt},
	{"<=", OperatorLte}, {"lte", OperatorLte},
	{"in", OperatorIn},
	{"not_in", OperatorNin}, {"nin", OperatorNin},
	{"like", OperatorLike},
	{"between", OperatorBetween},
}

var canonicalOperators map[string]Operator

func init() {
	canonicalOperators = make(map[string]Operator, len(operatorAliases))
	for _, a := range operatorAliases {
		canonicalOperators[a.alias] = a.canonical
	}
}

// NormalizeOperator maps a user supplied alias ("==", "not_in", ...) to its
// canonical operator. Matching is exact and case-sensitive.
func NormalizeOperator(raw string) (Operator, error) {
	op, ok := canonicalOperators[raw]
	if !ok {
		return "", &UnsupportedOperator{Operator: raw}
	}
	return op, nil
}

// OperatorAliases lists every accepted operator spelling.
func OperatorAliases() []string {
	result := make([]string, len(operatorAliases))
	for i, a := range operatorAliases {
		result[i] = a.alias
	}
	return result
}

func (o Operator) String() string {
	return string(o)
}

// Conjunction joins sibling expressions of one node.
type Conjunction string

const (
	ConjunctionAnd Conjunction = "and"
	ConjunctionOr  Conjunction = "or"

	DefaultConjunction = ConjunctionAnd
)

// Only "and" joins with a comma, any other value is treated as "or".
func (c Conjunction) separator() string {
	if c == ConjunctionAnd {
		return ","
	}
	return "|"
}

func (c Conjunction) String() string {
	return string(c)
}
