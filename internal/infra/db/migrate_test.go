package db

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableNames = []string{"sources", "data_entries", "tags", "data_lineage", "country_profiles"}

func expectTables(mock sqlmock.Sqlmock) {
	for _, name := range tableNames {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + name + " (")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func expectIndexes(mock sqlmock.Sqlmock) {
	for range indexes {
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestMigrateUp_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectTables(mock)
	expectIndexes(mock)
	// pg_trgm and its indexes are best effort; unexpected calls fail and are ignored.
	mock.ExpectExec("INSERT INTO sources").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = MigrateUp(db)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_TableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sources").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS data_entries").
		WillReturnError(sql.ErrTxDone)

	err = MigrateUp(db)
	assert.Equal(t, sql.ErrTxDone, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_IndexError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectTables(mock)
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_data_entries_collected_date").
		WillReturnError(sql.ErrNoRows)

	err = MigrateUp(db)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_SeedDataError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectTables(mock)
	expectIndexes(mock)
	mock.ExpectExec("INSERT INTO sources").
		WillReturnError(sql.ErrConnDone)

	err = MigrateUp(db)
	assert.Equal(t, sql.ErrConnDone, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown_DropsInReverseOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for i := len(tableNames) - 1; i >= 0; i-- {
		mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS " + tableNames[i] + " CASCADE")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	assert.NoError(t, MigrateDown(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSourcesSQL_Embedded(t *testing.T) {
	assert.Contains(t, seedSourcesSQL, "INSERT INTO sources")
	assert.Contains(t, seedSourcesSQL, "'cia_factbook'")
	assert.Contains(t, seedSourcesSQL, "ON CONFLICT (id) DO NOTHING")
}
