package jql

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ejql/ejql/internal/jbl"
)

// Bindings is the caller-supplied placeholder value map consulted by
// Placeholder operands and the apply clause.
type Bindings map[string]*jbl.Node

// Result is what Match returns: whether the query matched, plus, when a
// match succeeds, the resulting document: the root itself, or the output of
// the query's apply and/or projection clause when it carries one.
type Result struct {
	Matched  bool
	Document *jbl.Node
}

// Match evaluates q against root under the given placeholder bindings. It
// is pure: repeated calls with the same (q, root, bindings) agree.
func Match(q *Query, root *jbl.Node, bindings Bindings) (Result, error) {
	ok, err := evalFilterChain(q.Filters, root, bindings)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Matched: false}, nil
	}

	doc := root
	if q.Apply != nil {
		patch, err := resolveApply(q.Apply, bindings)
		if err != nil {
			return Result{}, err
		}
		doc = jbl.MergePatch(doc, patch)
	}
	if q.Projection != nil {
		doc = Project(doc, q.Projection)
	}
	return Result{Matched: true, Document: doc}, nil
}

func resolveApply(a *ApplyClause, bindings Bindings) (*jbl.Node, error) {
	if a.Literal != nil {
		return a.Literal, nil
	}
	v, ok := bindings[a.Placeholder]
	if !ok {
		return nil, fmt.Errorf("jql: unresolved placeholder %q in apply clause", a.Placeholder)
	}
	return v, nil
}

func evalFilterChain(fc FilterChain, root *jbl.Node, bindings Bindings) (bool, error) {
	result, err := matchFilter(root, fc.First.Nodes, bindings)
	if err != nil {
		return false, err
	}
	for _, tail := range fc.Rest {
		next, err := matchFilter(root, tail.Filter.Nodes, bindings)
		if err != nil {
			return false, err
		}
		if tail.Join.Negate {
			next = !next
		}
		switch tail.Join.Kind {
		case JoinAnd:
			result = result && next
		case JoinOr:
			result = result || next
		}
	}
	return result, nil
}

// matchFilter walks nodes against cur, following the rules in spec.md §4.3.
func matchFilter(cur *jbl.Node, nodes []PathNode, bindings Bindings) (bool, error) {
	if len(nodes) == 0 {
		return true, nil
	}
	node, rest := nodes[0], nodes[1:]

	switch node.Kind {
	case PathField:
		if cur == nil || cur.Kind() != jbl.Object {
			return false, nil
		}
		child := cur.Get(node.Field)
		if child == nil {
			return false, nil
		}
		return matchFilter(child, rest, bindings)

	case PathAny:
		if cur == nil || !cur.IsContainer() {
			return false, nil
		}
		for _, child := range cur.Children() {
			ok, err := matchFilter(child, rest, bindings)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case PathAnyRecursive:
		ok, err := matchFilter(cur, rest, bindings)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if cur == nil || !cur.IsContainer() {
			return false, nil
		}
		for _, child := range cur.Children() {
			ok, err := matchFilter(child, nodes, bindings)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case PathExpr:
		ok, err := evalPredicate(node.Expr, cur, bindings)
		if err != nil {
			return false, err
		}
		return ok, nil

	default:
		return false, nil
	}
}

func evalPredicate(pe *PredicateExpr, cur *jbl.Node, bindings Bindings) (bool, error) {
	result, err := evalTerm(&pe.First, cur, bindings)
	if err != nil {
		return false, err
	}
	for _, tail := range pe.Rest {
		next, err := evalTerm(&tail.Term, cur, bindings)
		if err != nil {
			return false, err
		}
		if tail.Join.Negate {
			next = !next
		}
		switch tail.Join.Kind {
		case JoinAnd:
			result = result && next
		case JoinOr:
			result = result || next
		}
	}
	return result, nil
}

func evalTerm(t *PredicateTerm, cur *jbl.Node, bindings Bindings) (bool, error) {
	var result bool
	var err error
	if t.Group != nil {
		result, err = evalPredicate(t.Group, cur, bindings)
	} else {
		result, err = evalComparison(t.Comparison, cur, bindings)
	}
	if err != nil {
		return false, err
	}
	if t.Negate {
		result = !result
	}
	return result, nil
}

func evalComparison(c *Comparison, cur *jbl.Node, bindings Bindings) (bool, error) {
	left, err := resolveOperand(c.Left, cur, bindings)
	if err != nil {
		return false, err
	}
	right, err := resolveOperand(c.Right, cur, bindings)
	if err != nil {
		return false, err
	}

	var result bool
	switch c.Op.Kind {
	case OpEQ:
		result = jbl.Equal(left, right)
	case OpGT, OpGE, OpLT, OpLE:
		result = numericCompare(c.Op.Kind, left, right)
	case OpIN:
		result = inArray(left, right)
	case OpRE:
		result, err = matchRegex(c, left, right)
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("jql: unknown operator %q", c.Op.Kind)
	}
	if c.Op.Negate {
		result = !result
	}
	return result, nil
}

func resolveOperand(op Operand, cur *jbl.Node, bindings Bindings) (*jbl.Node, error) {
	switch op.Kind {
	case OperandField:
		if op.Field == "*" {
			if cur == nil {
				return jbl.NewNull(), nil
			}
			return jbl.NewString(cur.Key()), nil
		}
		if cur == nil || cur.Kind() != jbl.Object {
			return jbl.NewNull(), nil
		}
		v := cur.Get(op.Field)
		if v == nil {
			return jbl.NewNull(), nil
		}
		return v, nil
	case OperandPlaceholder:
		v, ok := bindings[op.Placeholder]
		if !ok {
			return nil, fmt.Errorf("jql: unresolved placeholder %q", op.Placeholder)
		}
		return v, nil
	case OperandLiteral:
		return op.Literal, nil
	case OperandNested:
		ok, err := evalPredicate(op.Nested, cur, bindings)
		if err != nil {
			return nil, err
		}
		return jbl.NewBool(ok), nil
	}
	return jbl.NewNull(), nil
}

func isNumeric(n *jbl.Node) bool {
	return n != nil && (n.Kind() == jbl.Int || n.Kind() == jbl.Float)
}

func asFloat(n *jbl.Node) float64 {
	if n.Kind() == jbl.Int {
		return float64(n.IntValue())
	}
	return n.FloatValue()
}

// numericCompare implements GT/GTE/LT/LTE: non-numeric operands compare as
// false rather than raising an error, per spec.md §4.3.
func numericCompare(kind OpKind, left, right *jbl.Node) bool {
	if !isNumeric(left) || !isNumeric(right) {
		return false
	}
	l, r := asFloat(left), asFloat(right)
	switch kind {
	case OpGT:
		return l > r
	case OpGE:
		return l >= r
	case OpLT:
		return l < r
	case OpLE:
		return l <= r
	}
	return false
}

// inArray implements IN: right must be an array; true if left equals any
// element under EQ semantics.
func inArray(left, right *jbl.Node) bool {
	if right == nil || right.Kind() != jbl.Array {
		return false
	}
	for _, c := range right.Children() {
		if jbl.Equal(left, c) {
			return true
		}
	}
	return false
}

// matchRegex implements RE/LIKE: right must be a string regular expression,
// left is coerced to a string. A literal pattern is compiled once and cached
// on the Comparison so repeated matches amortize compilation, per spec.md §5;
// a pattern taken from a placeholder or field is compiled on every call.
func matchRegex(c *Comparison, left, right *jbl.Node) (bool, error) {
	if right == nil || right.Kind() != jbl.String {
		return false, nil
	}
	re := c.reCache
	if re == nil || c.Right.Kind != OperandLiteral {
		compiled, err := regexp.Compile(right.StringValue())
		if err != nil {
			return false, fmt.Errorf("jql: invalid regular expression %q: %w", right.StringValue(), err)
		}
		re = compiled
		if c.Right.Kind == OperandLiteral {
			c.reCache = re
		}
	}
	return re.MatchString(coerceToString(left)), nil
}

func coerceToString(n *jbl.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case jbl.Null:
		return ""
	case jbl.Bool:
		if n.BoolValue() {
			return "true"
		}
		return "false"
	case jbl.Int:
		return strconv.FormatInt(n.IntValue(), 10)
	case jbl.Float:
		return strconv.FormatFloat(n.FloatValue(), 'g', -1, 64)
	case jbl.String:
		return n.StringValue()
	default:
		return jbl.Marshal(n)
	}
}
