package db

import (
	"context"
	"fmt"
	"slices"

	"github.com/doug-martin/goqu/v9"

	"github.com/tordrt/optionpruner/internal/catalog"
)

// RequiredTables returns the prefixed names of every table the store touches
func (s *OptionStore) RequiredTables() []string {
	return []string{
		s.table(catalog.AttributeTable),
		s.table(catalog.EntityTypeTable),
		s.OptionTable(),
		s.ValueTable(),
	}
}

// MissingTables reports which of RequiredTables do not exist in the
// connected database, in RequiredTables order. On PostgreSQL every schema on
// the search_path is considered.
func (s *OptionStore) MissingTables(ctx context.Context) ([]string, error) {
	required := s.RequiredTables()

	query, args, err := s.buildTableNamesQuery(required)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer s.closeRows(rows)

	var existing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		existing = append(existing, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var missing []string
	for _, name := range required {
		if !slices.Contains(existing, name) {
			missing = append(missing, name)
		}
	}

	return missing, nil
}

// buildTableNamesQuery lists which of names exist, using each dialect's catalog
func (s *OptionStore) buildTableNamesQuery(names []string) (string, []any, error) {
	var stmt *goqu.SelectDataset

	switch s.dialectName {
	case DialectSQLite:
		stmt = s.dialect.
			From("sqlite_master").
			Select(goqu.C("name")).
			Where(goqu.C("type").Eq("table"), goqu.C("name").In(names))
	case DialectMySQL:
		stmt = s.dialect.
			From(goqu.S("information_schema").Table("tables")).
			Select(goqu.C("table_name")).
			Where(goqu.C("table_schema").Eq(goqu.L("DATABASE()")), goqu.C("table_name").In(names))
	default:
		stmt = s.dialect.
			From(goqu.S("information_schema").Table("tables")).
			Select(goqu.C("table_name")).
			Where(goqu.L("? = ANY(current_schemas(false))", goqu.C("table_schema")), goqu.C("table_name").In(names))
	}

	return toSQL(stmt.Prepared(true).ToSQL())
}
