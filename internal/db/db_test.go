package db_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/db"
	"github.com/sujalbistaa/unlinked/internal/db/dbtest"
	"github.com/sujalbistaa/unlinked/internal/models"
)

func TestInitRejectsUnknownScheme(t *testing.T) {
	_, err := db.Init("mysql://localhost/app")
	assert.Error(t, err)
}

func TestInitSQLite(t *testing.T) {
	gdb, err := db.Init("sqlite://file:init_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.NoError(t, sqlDB.Ping())
}

func TestSeedCategoriesOnce(t *testing.T) {
	gdb := dbtest.Open(t)

	require.NoError(t, db.SeedCategories(gdb))
	require.NoError(t, db.SeedCategories(gdb))

	var n int64
	require.NoError(t, gdb.Model(&models.Category{}).Count(&n).Error)
	assert.Equal(t, int64(len(db.DefaultCategories)), n)
}

func TestIsUniqueViolation(t *testing.T) {
	gdb := dbtest.Open(t)

	require.NoError(t, gdb.Create(&models.Category{Name: "A", Slug: "a"}).Error)
	err := gdb.Create(&models.Category{Name: "B", Slug: "a"}).Error

	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
	assert.True(t, db.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, db.IsUniqueViolation(nil))
	assert.False(t, db.IsUniqueViolation(errors.New("connection refused")))
}
