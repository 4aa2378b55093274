package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRunAsRole(t *testing.T) {
	t.Run("sets_role_and_claims_then_commits", func(t *testing.T) {
		db, mock := newMockDB(t)
		claims := &apikey.Claims{Role: apikey.RoleAnon}

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("SELECT set_config('role', $1, true)")).
			WithArgs(apikey.RoleAnon, `{"role":"anon"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := RunAsRole(context.Background(), db, claims, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "UPDATE tasks SET status = 'completed'")
			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_when_role_cannot_be_set", func(t *testing.T) {
		db, mock := newMockDB(t)
		claims := &apikey.Claims{Role: apikey.RoleService}

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("SELECT set_config")).
			WillReturnError(newPgErrorCode("42501"))
		mock.ExpectRollback()

		called := false
		err := RunAsRole(context.Background(), db, claims, func(ctx context.Context, tx *sql.Tx) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, store.ErrPermissionDenied)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_on_function_error", func(t *testing.T) {
		db, mock := newMockDB(t)
		fnErr := errors.New("insert failed")

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("SELECT set_config")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := RunAsRole(context.Background(), db, &apikey.Claims{Role: apikey.RoleService},
			func(ctx context.Context, tx *sql.Tx) error { return fnErr })

		assert.ErrorIs(t, err, fnErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects_missing_or_unknown_claims", func(t *testing.T) {
		db, mock := newMockDB(t)
		noop := func(ctx context.Context, tx *sql.Tx) error { return nil }

		assert.ErrorIs(t, RunAsRole(context.Background(), db, nil, noop), apikey.ErrMissingKey)
		assert.ErrorIs(t,
			RunAsRole(context.Background(), db, &apikey.Claims{Role: "postgres"}, noop),
			apikey.ErrUnknownRole)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRunAsRole(t *testing.T) {
	db, mock := newMockDB(t)
	session := NewSession(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT set_config")).
		WithArgs(apikey.RoleService, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := session.RunAsRole(context.Background(), &apikey.Claims{Role: apikey.RoleService},
		func(ctx context.Context, tx *sql.Tx) error { return nil })

	require.NoError(t, err)
	assert.Same(t, db, session.DB())
	assert.NoError(t, mock.ExpectationsWereMet())
}
