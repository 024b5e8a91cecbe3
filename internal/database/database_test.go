package database_test

import (
	"testing"

	"github.com/budgetmaster/backend/internal/database"
	"github.com/budgetmaster/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type budgetEntry struct {
	ID       uint
	Category string
}

func TestReopenMigratedFile(t *testing.T) {
	file := test.TmpFile(t)

	for range 2 {
		db, err := database.Connect(file, &budgetEntry{})
		require.Nil(t, err)
		require.Nil(t, db.Create(&budgetEntry{Category: "Food"}).Error)

		sqlDB, err := db.DB()
		require.Nil(t, err)
		require.Nil(t, sqlDB.Close())
	}

	db, err := database.Connect(file, &budgetEntry{})
	require.Nil(t, err)

	var count int64
	require.Nil(t, db.Model(&budgetEntry{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestNotFoundNamesResource(t *testing.T) {
	db, err := database.Connect(test.TmpFile(t), &budgetEntry{})
	require.Nil(t, err)

	err = db.First(&budgetEntry{}, 42).Error
	assert.ErrorIs(t, err, database.ErrResourceNotFound)
	assert.Equal(t, "there is no budget entry matching your query", err.Error())
}

func TestClosedDatabase(t *testing.T) {
	db, err := database.Connect(test.TmpFile(t), &budgetEntry{})
	require.Nil(t, err)

	sqlDB, err := db.DB()
	require.Nil(t, err)
	require.Nil(t, sqlDB.Close())

	assert.ErrorIs(t, db.Create(&budgetEntry{Category: "Rent"}).Error, database.ErrGeneral)
	assert.ErrorIs(t, db.First(&budgetEntry{}).Error, database.ErrGeneral)
}
