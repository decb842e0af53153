// Package jql implements the document query language: its grammar, parsed
// query model, and the matcher that decides whether a document satisfies a
// query expressed as a rooted path with predicate filters.
package jql

import (
	"regexp"

	"github.com/ejql/ejql/internal/jbl"
)

// JoinKind is the boolean combinator between two filters or two predicate
// terms.
type JoinKind string

const (
	JoinAnd JoinKind = "and"
	JoinOr  JoinKind = "or"
)

// Join records how the next element in a chain combines with the previous
// one, plus whether the combinator itself is negated (`not and`, `not or`).
type Join struct {
	Kind   JoinKind
	Negate bool
}

// OpKind enumerates the comparison operators an Atom can carry.
type OpKind string

const (
	OpEQ OpKind = "eq"
	OpGT OpKind = "gt"
	OpGE OpKind = "gte"
	OpLT OpKind = "lt"
	OpLE OpKind = "lte"
	OpIN OpKind = "in"
	OpRE OpKind = "re"
)

// Op is a comparison operator plus its negation flag. `!=` and `!eq` set
// Negate (a leading `not` negates the enclosing PredicateTerm instead); LIKE
// is folded into OpRE at parse time and
// NI is folded into OpIN with swapped operands (see convert.go).
type Op struct {
	Kind   OpKind
	Negate bool
}

// OperandKind tags which alternative an Operand holds.
type OperandKind int

const (
	OperandField OperandKind = iota
	OperandPlaceholder
	OperandLiteral
	OperandNested
)

// Operand is one side of a Comparison. Exactly one field is meaningful,
// selected by Kind.
type Operand struct {
	Kind        OperandKind
	Field       string // OperandField: a name, or "*" for the current key
	Placeholder string // OperandPlaceholder: name bound at match time
	Literal     *jbl.Node
	Nested      *PredicateExpr // OperandNested: bracketed sub-predicate, truthiness used
}

// Comparison is a single leaf test: left op right.
type Comparison struct {
	Left  Operand
	Op    Op
	Right Operand

	reCache *regexp.Regexp // lazily compiled and cached, see matcher.go
}

// PredicateTerm is one operand of a predicate join: either a direct
// comparison or a parenthesized sub-predicate, with its own negation.
type PredicateTerm struct {
	Negate     bool
	Comparison *Comparison
	Group      *PredicateExpr
}

// PredicateJoin pairs a Join with the term that follows it.
type PredicateJoin struct {
	Join Join
	Term PredicateTerm
}

// PredicateExpr is a boolean tree over Atoms (in the form of PredicateTerms)
// joined left-to-right by AND/OR.
type PredicateExpr struct {
	First PredicateTerm
	Rest  []PredicateJoin
}

// PathNodeKind tags which alternative a PathNode holds.
type PathNodeKind int

const (
	PathField PathNodeKind = iota
	PathAny            // '*'
	PathAnyRecursive    // '**'
	PathExpr            // '[' predicate ']'
)

// PathNode is one segment of a Filter's path.
type PathNode struct {
	Kind  PathNodeKind
	Field string         // PathField
	Expr  *PredicateExpr // PathExpr
}

// Filter is an anchored path: an optional name plus an ordered chain of
// path segments evaluated against the document root.
type Filter struct {
	Anchor string
	Nodes  []PathNode
}

// FilterJoin pairs a Join with the filter that follows it.
type FilterJoin struct {
	Join   Join
	Filter Filter
}

// FilterChain is a non-empty ordered list of filters joined by AND/OR.
type FilterChain struct {
	First Filter
	Rest  []FilterJoin
}

// ApplyClause names a merge-patch to apply to the matched document: either
// a literal JSON object or a placeholder resolved at match time.
type ApplyClause struct {
	Literal     *jbl.Node
	Placeholder string
}

// Projection is one entry of a ProjectionChain: a path, and whether it
// excludes (rather than includes) that path.
type Projection struct {
	Exclude bool
	Path    []PathNode
}

// ProjectionChain is the list of field paths to keep (or drop) from a
// matched document. Per SPEC_FULL.md's resolution of the mixed
// include/exclude case: if any entry is an include, the chain is
// include-first (only included paths survive) with excludes applied after;
// an exclude-only chain returns everything minus the excluded paths.
type ProjectionChain struct {
	Entries []Projection
}

// Query is the fully-parsed, immutable result of Parse.
type Query struct {
	Filters    FilterChain
	Apply      *ApplyClause
	Projection *ProjectionChain
}
