package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/persistence/sqlite"
	"github.com/example/empmanager/internal/testfixtures"
)

func TestStoreContract(t *testing.T) {
	testfixtures.RunStoreContract(t, testfixtures.NewSQLiteStore)
}

func TestOpenRejectsFileDatabases(t *testing.T) {
	dir := t.TempDir()
	for _, dsn := range []string{
		filepath.Join(dir, "empmanager.db"),
		filepath.Join(dir, "journal.db") + "?_pragma=journal_mode=memory",
		"file:" + filepath.Join(dir, "journal.db") + "?_pragma=journal_mode(memory)",
		"file:" + filepath.Join(dir, "mixed.db") + "?mode=memory&mode=rwc",
	} {
		_, err := sqlite.Open(dsn)
		assert.Error(t, err, dsn)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no database file may be created")
}

func TestIsInMemoryDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{":memory:", true},
		{" :memory: ", true},
		{":memory:?_pragma=foreign_keys(1)", true},
		{"file::memory:", true},
		{"file::memory:?cache=shared", true},
		{"file:empmanager?mode=memory&cache=shared", true},
		{"file:empmanager.db", false},
		{"file:empmanager.db?mode=rwc", false},
		{"file:empmanager.db?mode=memory&mode=rwc", false},
		{"/var/lib/empmanager.db?_pragma=journal_mode=memory", false},
		{"file:empmanager.db?_pragma=journal_mode%3Dmemory", false},
		{"empmanager?mode=memory", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlite.IsInMemoryDSN(tt.dsn), "dsn %q", tt.dsn)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, persistence.Seed(ctx, store))
	require.NoError(t, store.Migrate(ctx))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 3)
}

func TestNegativeSalaryViolatesConstraint(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewSQLiteStore(t)

	employee := persistence.SeedEmployees()[0]
	employee.Salary = -1
	err := store.AddEmployee(ctx, employee)
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
}

func TestErrorMapper(t *testing.T) {
	mapper := sqlite.NewErrorMapper()

	assert.NoError(t, mapper.MapError(nil))
	assert.ErrorIs(t, mapper.MapError(errors.New("UNIQUE constraint failed: employees.id")), persistence.ErrDuplicate)
	assert.ErrorIs(t, mapper.MapError(errors.New("CHECK constraint failed: budget >= 0")), persistence.ErrConstraintViolation)

	other := errors.New("disk I/O error")
	assert.Equal(t, other, mapper.MapError(other))
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	pool, err := sqlite.NewConnectionPool(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	_, err = pool.DB().ExecContext(ctx, `CREATE TABLE notes (body TEXT)`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO notes (body) VALUES ('draft')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, pool.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count))
	assert.Zero(t, count)
}
