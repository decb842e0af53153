package jql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ejql/ejql/internal/jbl"
)

// Print re-serializes q to a canonical textual form, losslessly modulo
// whitespace, used in tests for parse-round-trip fixture comparison
// (spec.md §4.2, §8).
func Print(q *Query) string {
	var sb strings.Builder
	printFilterChain(&sb, q.Filters)
	if q.Apply != nil {
		sb.WriteString(" | apply ")
		printApply(&sb, q.Apply)
	}
	if q.Projection != nil {
		sb.WriteString(" | fields ")
		printProjection(&sb, q.Projection)
	}
	return sb.String()
}

func printFilterChain(sb *strings.Builder, fc FilterChain) {
	printFilter(sb, fc.First)
	for _, tail := range fc.Rest {
		sb.WriteByte(' ')
		printJoin(sb, tail.Join)
		sb.WriteByte(' ')
		printFilter(sb, tail.Filter)
	}
}

func printFilter(sb *strings.Builder, f Filter) {
	if f.Anchor != "" {
		sb.WriteByte('@')
		sb.WriteString(f.Anchor)
	}
	for _, n := range f.Nodes {
		sb.WriteByte('/')
		printNode(sb, n)
	}
}

func printNode(sb *strings.Builder, n PathNode) {
	switch n.Kind {
	case PathAny:
		sb.WriteByte('*')
	case PathAnyRecursive:
		sb.WriteString("**")
	case PathExpr:
		sb.WriteByte('[')
		printPredicate(sb, n.Expr)
		sb.WriteByte(']')
	case PathField:
		sb.WriteString(n.Field)
	}
}

func printJoin(sb *strings.Builder, j Join) {
	if j.Negate {
		sb.WriteString("not ")
	}
	sb.WriteString(string(j.Kind))
}

func printPredicate(sb *strings.Builder, pe *PredicateExpr) {
	printTerm(sb, pe.First)
	for _, tail := range pe.Rest {
		sb.WriteByte(' ')
		printJoin(sb, tail.Join)
		sb.WriteByte(' ')
		printTerm(sb, tail.Term)
	}
}

func printTerm(sb *strings.Builder, t PredicateTerm) {
	if t.Negate {
		sb.WriteString("not ")
	}
	if t.Group != nil {
		sb.WriteByte('[')
		printPredicate(sb, t.Group)
		sb.WriteByte(']')
		return
	}
	printComparison(sb, t.Comparison)
}

func printComparison(sb *strings.Builder, c *Comparison) {
	printOperand(sb, c.Left)
	sb.WriteByte(' ')
	printOp(sb, c.Op)
	sb.WriteByte(' ')
	printOperand(sb, c.Right)
}

func printOp(sb *strings.Builder, op Op) {
	if op.Negate {
		sb.WriteByte('!')
	}
	sb.WriteString(string(op.Kind))
}

func printOperand(sb *strings.Builder, op Operand) {
	switch op.Kind {
	case OperandField:
		sb.WriteString(op.Field)
	case OperandPlaceholder:
		sb.WriteByte(':')
		sb.WriteString(op.Placeholder)
	case OperandLiteral:
		printLiteral(sb, op.Literal)
	case OperandNested:
		sb.WriteByte('[')
		printPredicate(sb, op.Nested)
		sb.WriteByte(']')
	}
}

func printLiteral(sb *strings.Builder, n *jbl.Node) {
	if n == nil {
		sb.WriteString("null")
		return
	}
	switch n.Kind() {
	case jbl.String:
		fmt.Fprintf(sb, "%q", n.StringValue())
	case jbl.Int:
		sb.WriteString(strconv.FormatInt(n.IntValue(), 10))
	case jbl.Float:
		sb.WriteString(strconv.FormatFloat(n.FloatValue(), 'g', -1, 64))
	case jbl.Bool:
		if n.BoolValue() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case jbl.Null:
		sb.WriteString("null")
	default:
		sb.WriteString(jbl.Marshal(n))
	}
}

func printApply(sb *strings.Builder, a *ApplyClause) {
	if a.Placeholder != "" {
		sb.WriteByte(':')
		sb.WriteString(a.Placeholder)
		return
	}
	sb.WriteString(jbl.Marshal(a.Literal))
}

func printProjection(sb *strings.Builder, pc *ProjectionChain) {
	for i, e := range pc.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		if e.Exclude {
			sb.WriteByte('-')
		}
		for j, n := range e.Path {
			if j > 0 {
				sb.WriteByte('/')
			}
			printNode(sb, n)
		}
	}
}
