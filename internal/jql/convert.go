package jql

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/ejql/ejql/internal/jbl"
)

// Parse parses a query string into an immutable Query, or returns a
// jbl.Error with Kind == jbl.KindQueryParseError carrying line/column.
func Parse(text string) (*Query, error) {
	pq, err := parseQuery(text)
	if err != nil {
		line, col := extractPos(err)
		return nil, jbl.NewError(jbl.KindQueryParseError, line, col, "%s", err.Error())
	}
	return convertQuery(pq), nil
}

func extractPos(err error) (int, int) {
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		return pos.Line, pos.Column
	}
	return 0, 0
}

func convertQuery(pq *PQuery) *Query {
	q := &Query{Filters: convertFilterChain(pq.Filters)}
	if pq.Apply != nil {
		q.Apply = convertApply(pq.Apply)
	}
	if pq.Fields != nil {
		q.Projection = convertProjection(pq.Fields)
	}
	return q
}

func convertFilterChain(pc *PFilterChain) FilterChain {
	fc := FilterChain{First: convertFilter(pc.First)}
	for _, tail := range pc.Rest {
		fc.Rest = append(fc.Rest, FilterJoin{
			Join:   convertJoin(tail.Join),
			Filter: convertFilter(tail.Filter),
		})
	}
	return fc
}

func convertFilter(pf *PFilter) Filter {
	f := Filter{}
	if pf.Anchor != nil {
		f.Anchor = *pf.Anchor
	}
	for _, n := range pf.Nodes {
		f.Nodes = append(f.Nodes, convertNode(n))
	}
	return f
}

func convertNode(pn *PNode) PathNode {
	switch {
	case pn.Recursive:
		return PathNode{Kind: PathAnyRecursive}
	case pn.Star:
		return PathNode{Kind: PathAny}
	case pn.Pred != nil:
		return PathNode{Kind: PathExpr, Expr: convertPredicate(pn.Pred)}
	default:
		return PathNode{Kind: PathField, Field: fieldName(pn.Field)}
	}
}

func fieldName(f *PFieldName) string {
	if f == nil {
		return ""
	}
	if f.Ident != nil {
		return *f.Ident
	}
	if f.Quoted != nil {
		return unquote(*f.Quoted)
	}
	return ""
}

func convertJoin(pj *PJoin) Join {
	kind := JoinAnd
	if strings.EqualFold(pj.Kind, "or") {
		kind = JoinOr
	}
	return Join{Kind: kind, Negate: pj.Negate}
}

func convertPredicate(pp *PPredicate) *PredicateExpr {
	pe := &PredicateExpr{First: convertTerm(pp.First)}
	for _, tail := range pp.Rest {
		pe.Rest = append(pe.Rest, PredicateJoin{
			Join: convertJoin(tail.Join),
			Term: convertTerm(tail.Term),
		})
	}
	return pe
}

func convertTerm(pt *PTerm) PredicateTerm {
	t := PredicateTerm{Negate: pt.Negate}
	if pt.Group != nil {
		t.Group = convertPredicate(pt.Group)
		return t
	}
	t.Comparison = convertComparison(pt.Comparison)
	return t
}

// convertComparison maps the surface operator to its canonical Op, folding
// LIKE into RE and NI into IN with swapped operands: "left ni right" holds
// when right appears in the array left, i.e. it is "right in left".
func convertComparison(pc *PComparison) *Comparison {
	left := convertOperand(pc.Left)
	right := convertOperand(pc.Right)
	op := convertOp(pc.Op)

	if op.Kind == "ni" {
		op.Kind = OpIN
		left, right = right, left
	}
	return &Comparison{Left: left, Op: op, Right: right}
}

func convertOp(po *POp) Op {
	var raw string
	if po.Symbol != nil {
		raw = *po.Symbol
	} else if po.Word != nil {
		raw = *po.Word
	}
	raw = strings.ToLower(raw)

	op := Op{}
	switch raw {
	case "=", "eq":
		op.Kind = OpEQ
	case "!=", "!eq":
		op.Kind, op.Negate = OpEQ, true
	case ">", "gt":
		op.Kind = OpGT
	case ">=", "gte":
		op.Kind = OpGE
	case "<", "lt":
		op.Kind = OpLT
	case "<=", "lte":
		op.Kind = OpLE
	case "in":
		op.Kind = OpIN
	case "ni":
		op.Kind = OpKind("ni") // resolved to IN with swapped operands by the caller
	case "re", "like":
		op.Kind = OpRE
	default:
		op.Kind = OpKind(raw)
	}
	return op
}

func convertOperand(po *POperand) Operand {
	switch {
	case po.Placeholder != nil:
		return Operand{Kind: OperandPlaceholder, Placeholder: strings.TrimPrefix(*po.Placeholder, ":")}
	case po.Star:
		return Operand{Kind: OperandField, Field: "*"}
	case po.Literal != nil:
		return Operand{Kind: OperandLiteral, Literal: convertJSONLiteral(po.Literal)}
	case po.Field != nil:
		return Operand{Kind: OperandField, Field: *po.Field}
	}
	return Operand{}
}

func convertJSONLiteral(lit *PJSONLiteral) *jbl.Node {
	switch {
	case lit.Object != nil:
		obj := jbl.NewObject()
		for _, f := range lit.Object.Fields {
			obj.Set(fieldName(f.Key), convertJSONLiteral(f.Value))
		}
		return obj
	case lit.Array != nil:
		arr := jbl.NewArray()
		for _, v := range lit.Array.Values {
			arr.Append(convertJSONLiteral(v))
		}
		return arr
	case lit.String != nil:
		return jbl.NewString(unquote(*lit.String))
	case lit.Number != nil:
		f := *lit.Number
		if f == float64(int64(f)) {
			return jbl.NewInt(int64(f))
		}
		return jbl.NewFloat(f)
	case lit.True:
		return jbl.NewBool(true)
	case lit.False:
		return jbl.NewBool(false)
	case lit.Null:
		return jbl.NewNull()
	}
	return jbl.NewNull()
}

func convertApply(pa *PApplyClause) *ApplyClause {
	if pa.Placeholder != nil {
		return &ApplyClause{Placeholder: strings.TrimPrefix(*pa.Placeholder, ":")}
	}
	return &ApplyClause{Literal: convertJSONLiteral(pa.Literal)}
}

func convertProjection(pp *PProjection) *ProjectionChain {
	pc := &ProjectionChain{}
	pc.Entries = append(pc.Entries, convertProj(pp.First))
	for _, tail := range pp.Rest {
		pc.Entries = append(pc.Entries, convertProj(tail))
	}
	return pc
}

func convertProj(pp *PProj) Projection {
	p := Projection{Exclude: pp.Exclude}
	for _, n := range pp.Path {
		p.Path = append(p.Path, convertNode(n))
	}
	return p
}

// unquote strips the surrounding quote characters and resolves the limited
// backslash escapes jql string literals support.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	inner := s[1 : len(s)-1]
	var sb strings.Builder
	sb.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteByte(inner[i])
			}
			continue
		}
		sb.WriteByte(inner[i])
	}
	return sb.String()
}
