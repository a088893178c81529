package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &DB{DB: gdb}, mock
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "shared"\."cors_config" SET "isActive" = \$1`).
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := database.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`UPDATE "shared"."cors_config" SET "isActive" = ?`, false).Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("business rule violated")
	err := database.WithTx(context.Background(), func(tx *gorm.DB) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxPropagatesExecError(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "shared"\."cors_config"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := database.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`UPDATE "shared"."cors_config" SET "isActive" = ?`, false).Error
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
