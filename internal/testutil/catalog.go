// Package testutil seeds catalog databases for integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
)

// catalogSchema creates the EAV tables the pruner reads. The statements are
// valid for SQLite, MySQL and PostgreSQL.
var catalogSchema = []string{
	`CREATE TABLE %[1]seav_entity_type (
		entity_type_id INTEGER PRIMARY KEY,
		entity_type_code VARCHAR(255) NOT NULL UNIQUE
	)`,
	`CREATE TABLE %[1]seav_attribute (
		attribute_id INTEGER PRIMARY KEY,
		entity_type_id INTEGER NOT NULL,
		attribute_code VARCHAR(255) NOT NULL,
		UNIQUE (entity_type_id, attribute_code)
	)`,
	`CREATE TABLE %[1]seav_attribute_option (
		option_id INTEGER PRIMARY KEY,
		attribute_id INTEGER NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE %[1]scatalog_product_entity_int (
		value_id INTEGER PRIMARY KEY,
		attribute_id INTEGER NOT NULL,
		store_id INTEGER NOT NULL DEFAULT 0,
		entity_id INTEGER NOT NULL,
		value INTEGER
	)`,
}

// CatalogTables lists the seeded tables in creation order
var CatalogTables = []string{
	"eav_entity_type",
	"eav_attribute",
	"eav_attribute_option",
	"catalog_product_entity_int",
}

// Attribute describes one seeded attribute
type Attribute struct {
	ID         int64
	Code       string
	EntityType string
	Options    []int64
	Values     []*int64
}

// Int returns a pointer to v, for Attribute.Values
func Int(v int64) *int64 {
	return &v
}

// SeedCatalog creates the catalog tables with prefix and inserts attrs. The
// tables are dropped when the test ends.
func SeedCatalog(t testing.TB, db *sqlx.DB, prefix string, attrs ...Attribute) {
	t.Helper()
	ctx := context.Background()

	t.Cleanup(func() { DropCatalog(t, db, prefix) })
	for _, stmt := range catalogSchema {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(stmt, prefix)); err != nil {
			t.Fatalf("failed to create catalog schema: %v", err)
		}
	}

	entityTypes := map[string]int64{}
	var valueID int64
	for _, attr := range attrs {
		typeID, ok := entityTypes[attr.EntityType]
		if !ok {
			typeID = int64(len(entityTypes) + 1)
			entityTypes[attr.EntityType] = typeID
			mustExec(t, db, "INSERT INTO %seav_entity_type (entity_type_id, entity_type_code) VALUES (?, ?)", prefix,
				typeID, attr.EntityType)
		}

		mustExec(t, db, "INSERT INTO %seav_attribute (attribute_id, entity_type_id, attribute_code) VALUES (?, ?, ?)", prefix,
			attr.ID, typeID, attr.Code)

		for _, option := range attr.Options {
			mustExec(t, db, "INSERT INTO %seav_attribute_option (option_id, attribute_id) VALUES (?, ?)", prefix,
				option, attr.ID)
		}

		for i, value := range attr.Values {
			valueID++
			mustExec(t, db, "INSERT INTO %scatalog_product_entity_int (value_id, attribute_id, entity_id, value) VALUES (?, ?, ?, ?)", prefix,
				valueID, attr.ID, i+1, value)
		}
	}
}

// DropCatalog drops the seeded tables, ignoring tables that do not exist
func DropCatalog(t testing.TB, db *sqlx.DB, prefix string) {
	t.Helper()
	for i := len(CatalogTables) - 1; i >= 0; i-- {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + prefix + CatalogTables[i]); err != nil {
			t.Errorf("failed to drop %s%s: %v", prefix, CatalogTables[i], err)
		}
	}
}

// OptionIDs returns the option ids left for attributeID, ascending
func OptionIDs(t testing.TB, db *sqlx.DB, prefix string, attributeID int64) []int64 {
	t.Helper()

	ids := []int64{}
	query := db.Rebind(fmt.Sprintf("SELECT option_id FROM %seav_attribute_option WHERE attribute_id = ? ORDER BY option_id", prefix))
	if err := db.Select(&ids, query, attributeID); err != nil {
		t.Fatalf("failed to read option ids: %v", err)
	}
	return ids
}

func mustExec(t testing.TB, db *sqlx.DB, format, prefix string, args ...any) {
	t.Helper()
	query := db.Rebind(fmt.Sprintf(format, prefix))
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("failed to execute %q: %v", query, err)
	}
}
