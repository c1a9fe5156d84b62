package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGormProductRepository_DecrementStock(t *testing.T) {
	t.Run("decrements when enough stock remains", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = .* AND stock >= .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementStock(context.Background(), uuid.New(), 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses to go below zero", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		mock.ExpectExec(`UPDATE "products" SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.DecrementStock(context.Background(), uuid.New(), 50)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		mock.ExpectExec(`UPDATE "products" SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.DecrementStock(context.Background(), uuid.New(), 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("maps missing product to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), uuid.New())

		assert.Nil(t, product)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
