package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration

	"github.com/tordrt/optionpruner/internal/catalog"
)

// Dialect names understood by NewOptionStore
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite3"
)

const (
	aliasAttribute      = "ea"
	aliasEntityType     = "et"
	logMsgSQLExecuted   = "executed sql"
	logMsgCloseRows     = "failed to close database rows"
	logAttrQuery        = "query"
	logAttrArgCount     = "arg_count"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"
	logAttrError        = "error"
)

var (
	ErrNilAdapter          = errors.New("nil database adapter supplied")
	ErrUnsupportedDialect  = errors.New("unsupported sql dialect")
	ErrBuildingQueryFailed = errors.New("building query failed")
)

// Logger interface for SQL query logging
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// OptionStore reads and deletes attribute options in an EAV catalog database
type OptionStore struct {
	db                DBAdapter
	dialect           goqu.DialectWrapper
	dialectName       string
	tablePrefix       string
	valueTable        string
	requireSecureArea bool
	logger            Logger
}

// StoreOption configures an OptionStore
type StoreOption func(*OptionStore) error

// WithTablePrefix prepends prefix to every catalog table name
func WithTablePrefix(prefix string) StoreOption {
	return func(s *OptionStore) error {
		s.tablePrefix = prefix
		return nil
	}
}

// WithValueTable sets the table holding option assignments (without prefix)
func WithValueTable(table string) StoreOption {
	return func(s *OptionStore) error {
		if table == "" {
			return fmt.Errorf("empty value table name supplied")
		}
		s.valueTable = table
		return nil
	}
}

// WithRequireSecureArea makes DeleteRows refuse contexts not marked by
// catalog.EnterSecureArea
func WithRequireSecureArea() StoreOption {
	return func(s *OptionStore) error {
		s.requireSecureArea = true
		return nil
	}
}

// WithLogger sets the logger receiving executed SQL at debug level
func WithLogger(logger Logger) StoreOption {
	return func(s *OptionStore) error {
		s.logger = logger
		return nil
	}
}

// NewOptionStore creates a store that talks to db using the given goqu dialect
func NewOptionStore(db DBAdapter, dialect string, options ...StoreOption) (*OptionStore, error) {
	if db == nil {
		return nil, ErrNilAdapter
	}

	switch dialect {
	case DialectPostgres, DialectMySQL, DialectSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}

	s := &OptionStore{
		db:          db,
		dialect:     goqu.Dialect(dialect),
		dialectName: dialect,
		valueTable:  catalog.ProductIntValueTable,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// OptionTable returns the prefixed attribute option table name
func (s *OptionStore) OptionTable() string {
	return s.table(catalog.OptionTable)
}

// ValueTable returns the prefixed value assignment table name
func (s *OptionStore) ValueTable() string {
	return s.table(s.valueTable)
}

func (s *OptionStore) table(name string) string {
	return s.tablePrefix + name
}

// ResolveAttributeID looks up the id of attributeCode within entityTypeCode
func (s *OptionStore) ResolveAttributeID(ctx context.Context, entityTypeCode, attributeCode string) (catalog.AttributeID, error) {
	query, args, err := s.buildResolveQuery(entityTypeCode, attributeCode)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve attribute %s: %w", attributeCode, err)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("failed to resolve attribute %s: %w", attributeCode, err)
		}
		s.logSQL(query, len(args), start)
		return 0, fmt.Errorf("%w: %s", catalog.ErrAttributeNotFound, attributeCode)
	}

	var id catalog.AttributeID
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to scan attribute id: %w", err)
	}
	s.logSQL(query, len(args), start)

	return id, nil
}

// SelectColumn returns column from table for rows whose attribute_id is in
// attributeIDs. NULL values are skipped.
func (s *OptionStore) SelectColumn(ctx context.Context, table, column string, attributeIDs []catalog.AttributeID) ([]int64, error) {
	if len(attributeIDs) == 0 {
		return nil, nil
	}

	query, args, err := s.buildSelectColumnQuery(table, column, attributeIDs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s.%s: %w", table, column, err)
	}
	defer s.closeRows(rows)

	var values []int64
	for rows.Next() {
		var v sql.NullInt64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s.%s: %w", table, column, err)
		}
		if v.Valid {
			values = append(values, v.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", table, column, err)
	}
	s.logSQL(query, len(args), start)

	return values, nil
}

// DeleteRows deletes every row of table whose column is in values, in one
// statement. An empty values list issues no statement.
func (s *OptionStore) DeleteRows(ctx context.Context, table, column string, values []int64) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	if s.requireSecureArea && !catalog.IsSecureArea(ctx) {
		return 0, catalog.ErrNotSecureArea
	}

	query, args, err := s.buildDeleteQuery(table, column, values)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	result, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	s.logSQL(query, len(args), start, logAttrRowsAffected, rowsAffected)

	return rowsAffected, nil
}

func (s *OptionStore) buildResolveQuery(entityTypeCode, attributeCode string) (string, []any, error) {
	stmt := s.dialect.
		From(goqu.T(s.table(catalog.AttributeTable)).As(aliasAttribute)).
		Join(
			goqu.T(s.table(catalog.EntityTypeTable)).As(aliasEntityType),
			goqu.On(goqu.T(aliasAttribute).Col(catalog.ColEntityTypeID).Eq(goqu.T(aliasEntityType).Col(catalog.ColEntityTypeID))),
		).
		Select(goqu.T(aliasAttribute).Col(catalog.ColAttributeID)).
		Where(
			goqu.T(aliasEntityType).Col(catalog.ColEntityTypeCode).Eq(entityTypeCode),
			goqu.T(aliasAttribute).Col(catalog.ColAttributeCode).Eq(attributeCode),
		).
		Prepared(true)

	return toSQL(stmt.ToSQL())
}

func (s *OptionStore) buildSelectColumnQuery(table, column string, attributeIDs []catalog.AttributeID) (string, []any, error) {
	stmt := s.dialect.
		From(table).
		Select(goqu.C(column)).
		Where(goqu.C(catalog.ColAttributeID).In(attributeIDs)).
		Prepared(true)

	return toSQL(stmt.ToSQL())
}

func (s *OptionStore) buildDeleteQuery(table, column string, values []int64) (string, []any, error) {
	stmt := s.dialect.
		Delete(table).
		Where(goqu.C(column).In(values)).
		Prepared(true)

	return toSQL(stmt.ToSQL())
}

func toSQL(query string, args []any, err error) (string, []any, error) {
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return query, args, nil
}

func (s *OptionStore) closeRows(rows DBRows) {
	if err := rows.Close(); err != nil && s.logger != nil {
		s.logger.Warn(logMsgCloseRows, logAttrError, err.Error())
	}
}

func (s *OptionStore) logSQL(query string, argCount int, start time.Time, extra ...any) {
	if s.logger == nil {
		return
	}
	args := append([]any{
		logAttrQuery, query,
		logAttrArgCount, argCount,
		logAttrDurationMS, time.Since(start).Milliseconds(),
	}, extra...)
	s.logger.Debug(logMsgSQLExecuted, args...)
}
