package db_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaGreal2/filmes-server/internal/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(context.Background(), db.Config{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.Migrate())
	return database
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), db.Config{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
}

func TestMigrate_IsRepeatable(t *testing.T) {
	database := openTestDB(t)
	require.NoError(t, database.Migrate())

	var n int
	err := database.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('usuario', 'favoritos', 'historico')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMigrate_LeavesSharedPoolFree(t *testing.T) {
	database := openTestDB(t)
	require.NoError(t, database.Migrate())

	assert.Zero(t, database.Stats().InUse)
	require.NoError(t, database.Ping(context.Background()))

	_, err := database.Exec(context.Background(),
		`INSERT INTO historico (titulo, tipo, data_busca) VALUES ($1, $2, CURRENT_TIMESTAMP)`, "Matrix", "filme")
	require.NoError(t, err)
	assert.Zero(t, database.Stats().InUse)
}

func TestQueryRow_MissingRowIsNotFound(t *testing.T) {
	database := openTestDB(t)

	var id int64
	err := database.QueryRow(context.Background(), `SELECT id FROM usuario WHERE email = $1`, "nobody@x.com").Scan(&id)
	assert.True(t, db.IsNotFound(err), "got %v", err)
}

func TestExec_UniqueViolationIsDuplicateKey(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	const q = `INSERT INTO usuario (nome, email) VALUES ($1, $2)`
	_, err := database.Exec(ctx, q, "Ana", "ana@x.com")
	require.NoError(t, err)

	_, err = database.Exec(ctx, q, "Outra Ana", "ana@x.com")
	assert.True(t, db.IsDuplicateKey(err), "got %v", err)
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.ExecTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO historico (titulo, tipo) VALUES ($1, $2)`, "Matrix", "filme"); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO favoritos (titulo, tipo) VALUES ($1, $2)`, "Matrix", "documentario")
		return err
	})
	require.Error(t, err)

	var n int
	require.NoError(t, database.QueryRow(ctx, `SELECT COUNT(*) FROM historico`).Scan(&n))
	assert.Zero(t, n)
}

func TestExecTx_Commits(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO historico (titulo, tipo) VALUES ($1, $2)`, "Matrix", "filme")
		return err
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(ctx, `SELECT COUNT(*) FROM historico`).Scan(&n))
	assert.Equal(t, 1, n)
}
