package jql

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// jqlLexer tokenizes the surface syntax sketched in spec.md §4.1:
//
//	query        = filter_chain [ apply ] [ projection ] ;
//	filter_chain = filter { join filter } ;
//	filter       = [ '@' ident ] ( '/' node )+ ;
//	node         = '**' | '*' | '[' predicate ']' | field ;
//	predicate    = term { join term } ;
//	term         = [ 'not' ] ( '[' predicate ']' | comparison ) ;
//	comparison   = operand op operand ;
//	operand      = placeholder | json_literal | '*' | ident ;
//	op           = '=' | 'eq' | '!=' | '!eq' | '>' | 'gt' | '>=' | 'gte'
//	             | '<' | 'lt' | '<=' | 'lte' | 'in' | 'ni' | 're' | 'like' ;
//	join         = [ 'not' ] ( 'and' | 'or' ) ;
//	apply        = '|' 'apply' ( json_literal | placeholder ) ;
//	projection   = '|' 'fields' proj { ',' proj } ;
//	proj         = [ '-' ] path ;
//	path         = segment { '/' segment } ;
//
// A bare, unquoted identifier operand is always a field reference; literal
// scalars require quoting (strings), digits (numbers), or the `true` /
// `false` / `null` keywords, so there is no ambiguity between "the value of
// field x" and "the literal string x" at parse time.
var jqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`},
	{Name: "AnyRecursive", Pattern: `\*\*`},
	{Name: "Op", Pattern: `!=|!eq|>=|<=|[=><]`},
	{Name: "Placeholder", Pattern: `:[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?`},
	{Name: "At", Pattern: `@`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

// PQuery is the participle parse tree for the top-level query.
type PQuery struct {
	Filters *PFilterChain `parser:"@@"`
	Apply   *PApplyClause `parser:"@@?"`
	Fields  *PProjection  `parser:"@@?"`
}

type PFilterChain struct {
	First *PFilter       `parser:"@@"`
	Rest  []*PFilterTail `parser:"@@*"`
}

type PFilterTail struct {
	Join   *PJoin   `parser:"@@"`
	Filter *PFilter `parser:"@@"`
}

type PFilter struct {
	Anchor *string  `parser:"( At @Ident )?"`
	Nodes  []*PNode `parser:"( Slash @@ )+"`
}

type PNode struct {
	Recursive bool        `parser:"( @AnyRecursive"`
	Star      bool        `parser:"| @Star"`
	Pred      *PPredicate `parser:"| LBracket @@ RBracket"`
	Field     *PFieldName `parser:"| @@ )"`
}

type PFieldName struct {
	Ident  *string `parser:"( @Ident"`
	Quoted *string `parser:"| @String )"`
}

type PPredicate struct {
	First *PTerm       `parser:"@@"`
	Rest  []*PPredTail `parser:"@@*"`
}

type PPredTail struct {
	Join *PJoin `parser:"@@"`
	Term *PTerm `parser:"@@"`
}

type PTerm struct {
	Negate     bool         `parser:"@('not':Ident)?"`
	Group      *PPredicate  `parser:"( LBracket @@ RBracket"`
	Comparison *PComparison `parser:"| @@ )"`
}

type PComparison struct {
	Left  *POperand `parser:"@@"`
	Op    *POp      `parser:"@@"`
	Right *POperand `parser:"@@"`
}

// POp accepts both symbolic (=, !=, >, ...) and keyword (eq, gt, in, ni,
// re, like, ...) operator spellings, matching spec.md §4.1's op alternation.
type POp struct {
	Symbol *string `parser:"( @Op"`
	Word   *string `parser:"| @( 'eq':Ident | 'gt':Ident | 'gte':Ident | 'lt':Ident | 'lte':Ident | 'in':Ident | 'ni':Ident | 're':Ident | 'like':Ident ) )"`
}

type POperand struct {
	Placeholder *string       `parser:"( @Placeholder"`
	Literal     *PJSONLiteral `parser:"| @@"`
	Star        bool          `parser:"| @Star"`
	Field       *string       `parser:"| @Ident )"`
}

// PJSONLiteral is a recursive JSON value used for both comparison literals
// and the apply clause's merge-patch document.
type PJSONLiteral struct {
	Object *PJSONObject `parser:"( @@"`
	Array  *PJSONArray  `parser:"| @@"`
	String *string      `parser:"| @String"`
	Number *float64     `parser:"| @Number"`
	True   bool         `parser:"| @('true':Ident)"`
	False  bool         `parser:"| @('false':Ident)"`
	Null   bool         `parser:"| @('null':Ident) )"`
}

type PJSONObject struct {
	Fields []*PJSONField `parser:"LBrace ( @@ ( Comma @@ )* )? RBrace"`
}

type PJSONField struct {
	Key   *PFieldName   `parser:"@@"`
	Value *PJSONLiteral `parser:"Colon @@"`
}

type PJSONArray struct {
	Values []*PJSONLiteral `parser:"LBracket ( @@ ( Comma @@ )* )? RBracket"`
}

type PJoin struct {
	Negate bool   `parser:"@('not':Ident)?"`
	Kind   string `parser:"@( 'and':Ident | 'or':Ident )"`
}

type PApplyClause struct {
	Placeholder *string       `parser:"Pipe 'apply':Ident ( @Placeholder"`
	Literal     *PJSONLiteral `parser:"| @@ )"`
}

type PProjection struct {
	First *PProj   `parser:"Pipe 'fields':Ident @@"`
	Rest  []*PProj `parser:"( Comma @@ )*"`
}

type PProj struct {
	Exclude bool     `parser:"@Dash?"`
	Path    []*PNode `parser:"@@ ( Slash @@ )*"`
}

var jqlParser = participle.MustBuild[PQuery](
	participle.Lexer(jqlLexer),
	participle.CaseInsensitive("Ident"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

func parseQuery(text string) (*PQuery, error) {
	return jqlParser.ParseString("", text)
}
