package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finvolv/lendingplatform/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestActiveOriginsForServiceQueriesServiceAndWildcard(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCorsConfigRepository(db)

	mock.ExpectQuery(`SELECT "origin" FROM "shared"\."cors_config" WHERE "isActive" = \$1 AND \("service" = \$2 OR "service" = \$3\)`).
		WithArgs(true, "los", "*").
		WillReturnRows(sqlmock.NewRows([]string{"origin"}).
			AddRow("https://a.com").
			AddRow("https://b.com"))

	origins, err := repo.ActiveOriginsForService(context.Background(), "los")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, origins)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveOriginsForServicePropagatesError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCorsConfigRepository(db)

	mock.ExpectQuery(`SELECT "origin" FROM "shared"\."cors_config"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ActiveOriginsForService(context.Background(), "los")
	assert.Error(t, err)
}

func TestApiKeyFindByKeyMapsMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApiKeyRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "shared"\."api_keys" WHERE "key" = \$1`).
		WithArgs("absent", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "secret"}))

	_, err := repo.FindByKey(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrApiKeyNotFound)
}
