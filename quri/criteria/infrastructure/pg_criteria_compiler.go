package criteria

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	domaincriteria "github.com/krew-solutions/quri-go/quri/criteria/domain"
)

var (
	ErrOpaqueEntry  = errors.New("opaque entry cannot be compiled to sql")
	ErrBetweenArity = errors.New("between requires exactly two values")
)

// Jsonb is a parameter compared against a jsonb document path. pgx encodes
// it through MarshalJSON.
type Jsonb struct {
	Obj any
}

func (j Jsonb) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Obj)
}

var sqlOps = map[domaincriteria.Operator]string{
	domaincriteria.OperatorEq:   "=",
	domaincriteria.OperatorNeq:  "!=",
	domaincriteria.OperatorGt:   ">",
	domaincriteria.OperatorGte:  ">=",
	domaincriteria.OperatorLt:   "<",
	domaincriteria.OperatorLte:  "<=",
	domaincriteria.OperatorLike: "LIKE",
}

// PgCriteriaCompiler compiles a criteria tree into a PostgreSQL boolean
// expression. Fields are quoted column identifiers, or keys of a jsonb
// document when targetValueExpr is set. Document keys are compared as jsonb
// (expr->'key' against Jsonb params) so numbers keep numeric ordering; like
// compares the text form (expr->>'key'). A compiler is not safe for
// concurrent use.
type PgCriteriaCompiler struct {
	targetValueExpr string
	placeholder     func(idx int) string
	params          []any
}

func NewPgCriteriaCompiler(targetValueExpr string) *PgCriteriaCompiler {
	return &PgCriteriaCompiler{
		targetValueExpr: targetValueExpr,
		placeholder:     positionalPlaceholder,
	}
}

// Compile returns the expression with $n placeholders and its parameters.
// An empty tree compiles to an empty string.
func (c *PgCriteriaCompiler) Compile(node *domaincriteria.Node) (string, []any, error) {
	c.placeholder = positionalPlaceholder
	c.params = nil
	sql, err := c.compileNode(node)
	if err != nil {
		return "", nil, err
	}
	return sql, c.params, nil
}

// CompileNamed returns the expression with @pN placeholders and the matching
// pgx.NamedArgs.
func (c *PgCriteriaCompiler) CompileNamed(node *domaincriteria.Node) (string, pgx.NamedArgs, error) {
	c.placeholder = namedPlaceholder
	c.params = nil
	sql, err := c.compileNode(node)
	if err != nil {
		return "", nil, err
	}
	args := make(pgx.NamedArgs, len(c.params))
	for i, param := range c.params {
		args[namedArg(i+1)] = param
	}
	return sql, args, nil
}

func (c *PgCriteriaCompiler) compileNode(node *domaincriteria.Node) (string, error) {
	var parts []string
	for _, child := range node.Children() {
		part, err := child.Accept(c)
		if err != nil {
			return "", err
		}
		if s := part.(string); s != "" {
			parts = append(parts, s)
		}
	}
	sep := " OR "
	if node.Conjunction() == domaincriteria.ConjunctionAnd {
		sep = " AND "
	}
	return strings.Join(parts, sep), nil
}

// --- Visitor methods ---

func (c *PgCriteriaCompiler) VisitNode(entry *domaincriteria.Node) (any, error) {
	inner, err := c.compileNode(entry)
	if err != nil {
		return nil, err
	}
	if inner == "" {
		return "", nil
	}
	return fmt.Sprintf("(%s)", inner), nil
}

func (c *PgCriteriaCompiler) VisitOpaque(entry domaincriteria.Opaque) (any, error) {
	if node, ok := entry.Value.(*domaincriteria.Node); ok && node != nil {
		return c.VisitNode(node)
	}
	return nil, errors.Wrapf(ErrOpaqueEntry, "%q", entry.String())
}

func (c *PgCriteriaCompiler) VisitCriterion(entry domaincriteria.Criterion) (any, error) {
	op, err := domaincriteria.NormalizeOperator(entry.Operator)
	if err != nil {
		return nil, err
	}
	column := c.columnExpr(entry.Field, op)

	switch op {
	case domaincriteria.OperatorEq, domaincriteria.OperatorNeq:
		if isNull(entry.Value) {
			if op == domaincriteria.OperatorEq {
				return fmt.Sprintf("%s IS NULL", column), nil
			}
			return fmt.Sprintf("%s IS NOT NULL", column), nil
		}
	case domaincriteria.OperatorIn, domaincriteria.OperatorNin:
		return c.compileIn(column, op, scalars(entry.Value)), nil
	case domaincriteria.OperatorBetween:
		values := scalars(entry.Value)
		if len(values) != 2 {
			return nil, errors.Wrapf(ErrBetweenArity, "field %q got %d", entry.Field, len(values))
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", column, c.bind(op, values[0]), c.bind(op, values[1])), nil
	}
	return fmt.Sprintf("%s %s %s", column, sqlOps[op], c.bind(op, paramOf(entry.Value))), nil
}

// --- Helpers ---

func (c *PgCriteriaCompiler) compileIn(column string, op domaincriteria.Operator, values []any) string {
	if len(values) == 0 {
		if op == domaincriteria.OperatorIn {
			return "FALSE"
		}
		return "TRUE"
	}
	markers := make([]string, len(values))
	for i, value := range values {
		markers[i] = c.bind(op, value)
	}
	sqlOp := "IN"
	if op == domaincriteria.OperatorNin {
		sqlOp = "NOT IN"
	}
	return fmt.Sprintf("%s %s (%s)", column, sqlOp, strings.Join(markers, ", "))
}

func (c *PgCriteriaCompiler) bind(op domaincriteria.Operator, value any) string {
	if c.targetValueExpr != "" && op != domaincriteria.OperatorLike {
		value = Jsonb{Obj: value}
	}
	c.params = append(c.params, value)
	return c.placeholder(len(c.params))
}

func (c *PgCriteriaCompiler) columnExpr(field string, op domaincriteria.Operator) string {
	if c.targetValueExpr == "" {
		return pgx.Identifier{field}.Sanitize()
	}
	arrow := "->"
	if op == domaincriteria.OperatorLike {
		arrow = "->>"
	}
	return fmt.Sprintf("%s%s'%s'", c.targetValueExpr, arrow, strings.ReplaceAll(field, "'", "''"))
}

func isNull(value domaincriteria.Value) bool {
	if value == nil {
		return true
	}
	s, ok := value.(domaincriteria.Scalar)
	return ok && s.Interface() == nil
}

// scalars flattens a value for multi-value operators; a scalar counts as a
// one-element list.
func scalars(value domaincriteria.Value) []any {
	switch v := value.(type) {
	case domaincriteria.Sequence:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = paramOf(item)
		}
		return result
	case nil:
		return nil
	default:
		return []any{paramOf(v)}
	}
}

func paramOf(value domaincriteria.Value) any {
	switch v := value.(type) {
	case domaincriteria.Scalar:
		return scalarParam(v.Interface())
	case domaincriteria.Sequence:
		return scalars(v)
	default:
		return nil
	}
}

// json.Number is not encodable by pgx, so it is narrowed to int64 or float64.
func scalarParam(raw any) any {
	n, ok := raw.(json.Number)
	if !ok {
		return raw
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func positionalPlaceholder(idx int) string {
	return fmt.Sprintf("$%d", idx)
}

func namedPlaceholder(idx int) string {
	return "@" + namedArg(idx)
}

func namedArg(idx int) string {
	return fmt.Sprintf("p%d", idx)
}
