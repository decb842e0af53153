package export

import (
	"fmt"

	clickhouseparser "github.com/AfterShip/clickhouse-sql-parser/parser"
)

// Column is a single destination column an export run projects document
// fields onto.
type Column struct {
	Name string
	Type string
}

// ParseSchema reads a single CREATE TABLE statement and returns its columns
// in declaration order.
func ParseSchema(sql string) ([]Column, error) {
	parser := clickhouseparser.NewParser(sql)
	stmts, err := parser.ParseStmts()
	if err != nil {
		return nil, fmt.Errorf("export: parsing schema SQL: %w", err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("export: no statements found in schema SQL")
	}

	create, ok := stmts[0].(*clickhouseparser.CreateTable)
	if !ok {
		return nil, fmt.Errorf("export: expected a CREATE TABLE statement, got %T", stmts[0])
	}
	if create.TableSchema == nil {
		return nil, fmt.Errorf("export: CREATE TABLE statement has no column list")
	}

	columns := make([]Column, 0, len(create.TableSchema.Columns))
	for _, col := range create.TableSchema.Columns {
		if col.Name == nil || col.Type == nil {
			continue
		}
		columns = append(columns, Column{
			Name: col.Name.Name,
			Type: col.Type.String(),
		})
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("export: CREATE TABLE statement declared no columns")
	}
	return columns, nil
}
