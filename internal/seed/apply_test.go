package seed

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func existing(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

// A second run finds every row and writes nothing.
func TestApply_AlreadySeeded(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "branches"`).WillReturnRows(existing("north"))
	mock.ExpectQuery(`SELECT \* FROM "branch_alert_configs"`).WillReturnRows(existing("cfg-north"))
	mock.ExpectQuery(`SELECT \* FROM "branches"`).WillReturnRows(existing("center"))
	mock.ExpectQuery(`SELECT \* FROM "branch_alert_configs"`).WillReturnRows(existing("cfg-center"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(existing("admin"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(existing("norte"))
	mock.ExpectQuery(`SELECT \* FROM "branch_access"`).WillReturnRows(existing("grant"))
	mock.ExpectQuery(`SELECT \* FROM "scales"`).WillReturnRows(existing("s1"))
	mock.ExpectQuery(`SELECT \* FROM "scale_alert_configs"`).WillReturnRows(existing("o1"))
	mock.ExpectQuery(`SELECT \* FROM "scales"`).WillReturnRows(existing("s2"))
	mock.ExpectCommit()

	require.NoError(t, Apply(context.Background(), db, Demo(""), zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_InvalidDatasetTouchesNothing(t *testing.T) {
	db, mock := setupMockDB(t)

	d := Demo("")
	d.Scales[0].BranchCode = "SUR"
	assert.Error(t, Apply(context.Background(), db, d, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
