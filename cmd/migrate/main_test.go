package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE orders (id text primary key);
ALTER TABLE orders ADD COLUMN customer_name text;

-- +migrate Down
DROP TABLE orders;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE orders")
		assert.Contains(t, up, "ALTER TABLE orders")
		assert.NotContains(t, up, "DROP TABLE orders")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE orders")
		assert.NotContains(t, down, "CREATE TABLE orders")
	})
}

func TestRunMigrationsUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tmpDir := t.TempDir()
	fileName := "0001_init.sql"
	filePath := filepath.Join(tmpDir, fileName)

	content := "-- +migrate Up\nCREATE TABLE test (id int);"
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))

	t.Run("Applies pending migration", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(fileName).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`CREATE TABLE test`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO schema_migrations`).
			WithArgs(fileName).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := runMigrationsUp(db, []string{filePath})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips applied migration", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(fileName).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := runMigrationsUp(db, []string{filePath})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunMigrationsDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tmpDir := t.TempDir()
	fileName := "0001_init.sql"
	filePath := filepath.Join(tmpDir, fileName)

	content := "-- +migrate Up\nCREATE TABLE test (id int);\n-- +migrate Down\nDROP TABLE test;"
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))

	t.Run("Rolls back the latest migration", func(t *testing.T) {
		mock.ExpectQuery(`SELECT version FROM schema_migrations`).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(fileName))
		mock.ExpectExec(`DROP TABLE test`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM schema_migrations`).
			WithArgs(fileName).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := runMigrationsDown(db, []string{filePath})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing to roll back", func(t *testing.T) {
		mock.ExpectQuery(`SELECT version FROM schema_migrations`).
			WillReturnError(sql.ErrNoRows)

		err := runMigrationsDown(db, nil)
		assert.NoError(t, err)
	})
}
