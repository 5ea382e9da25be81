//go:build integration

package main

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/optionpruner/internal/catalog"
	"github.com/tordrt/optionpruner/internal/testutil"
)

func seedCatalogFile(t *testing.T) (string, *sqlx.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	conn, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	testutil.SeedCatalog(t, conn, "", testutil.Attribute{
		ID:         93,
		Code:       "color",
		EntityType: catalog.ProductEntityTypeCode,
		Options:    []int64{1, 2, 3, 4},
		Values:     []*int64{testutil.Int(2), testutil.Int(2), testutil.Int(4)},
	})
	return "sqlite://" + path, conn
}

func TestRun_DeletesAfterDoubleConfirmation(t *testing.T) {
	url, conn := seedCatalogFile(t)

	out, err := execute(t, "y\nyes\n", "--db-url", url, "--attribute-code", "color")

	require.NoError(t, err)
	assert.Contains(t, out, msgDeleting+"\nFound 2 unused options for attribute code => color\n"+msgDeleted+"\n")
	assert.Contains(t, out, "ATTRIBUTE color (id 93)")
	assert.Equal(t, []int64{2, 4}, testutil.OptionIDs(t, conn, "", 93))
}

func TestRun_DeclinedLeavesCatalogUntouched(t *testing.T) {
	url, conn := seedCatalogFile(t)

	out, err := execute(t, "y\nn\n", "--db-url", url, "-a", "color")

	require.NoError(t, err)
	assert.Contains(t, out, msgNothingDeleted)
	assert.Equal(t, []int64{1, 2, 3, 4}, testutil.OptionIDs(t, conn, "", 93))
}

func TestRun_DryRunSkipsQuestions(t *testing.T) {
	url, conn := seedCatalogFile(t)

	out, err := execute(t, "", "--db-url", url, "-a", "color", "--dry-run", "--format", "json")

	require.NoError(t, err)
	assert.NotContains(t, out, msgDeleting)
	assert.Contains(t, out, `"dry_run": true`)
	assert.Equal(t, []int64{1, 2, 3, 4}, testutil.OptionIDs(t, conn, "", 93))
}

func TestRun_UnknownAttributeFails(t *testing.T) {
	url, _ := seedCatalogFile(t)

	out, err := execute(t, "", "--db-url", url, "-a", "nonexistent_attr", "--yes")

	require.ErrorIs(t, err, catalog.ErrAttributeNotFound)
	assert.NotContains(t, out, msgDeleted)
}
