package db

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever", nil)
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestMigrateAndReset(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), newGormConfig(nil))
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB))
	for _, m := range Models() {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}
	assert.True(t, gormDB.Migrator().HasTable("project_collaborators"))
	assert.True(t, gormDB.Migrator().HasTable("project_tasks"))

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.Project{}))
	// A second reset skips the missing tables.
	require.NoError(t, Reset(gormDB))
}

func TestGormConfig_WritesThroughApplicationLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	gormDB, err := gorm.Open(sqlite.Open("file:logger_test?mode=memory&cache=shared"), newGormConfig(logger))
	require.NoError(t, err)

	var n int
	err = gormDB.Raw("SELECT count(*) FROM missing_table").Scan(&n).Error
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "gorm")
	assert.Contains(t, out, "missing_table")
}
