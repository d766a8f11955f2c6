package services

import (
	"testing"

	"github.com/quillpost/quillpost/pkg/internal/database"
	"github.com/quillpost/quillpost/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

// The listing filters mix raw SQL with gorm-derived table names; both sides
// must resolve to the tables the migrator actually creates.
func TestFilterPostQueryMatchesMigratedTables(t *testing.T) {
	db := newDryRunDB(t)
	restore := database.C
	database.C = db
	defer func() { database.C = restore }()

	viewer := NewViewerContext(makeAccount(1, "alice"), []uint{2}, nil)

	var out []models.Post
	stmt := FilterPostWithViewerContext(db.Model(&models.Post{}), viewer).
		Order("posts.created_at DESC").
		Find(&out).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "`posts`")
	assert.Contains(t, sql, "JOIN accounts ON accounts.id = posts.account_id")
	assert.Contains(t, sql, "posts.account_id NOT IN")
}

func TestFilterPostQueryAnonymous(t *testing.T) {
	db := newDryRunDB(t)
	restore := database.C
	database.C = db
	defer func() { database.C = restore }()

	var out []models.Post
	stmt := FilterPostWithAuthor(FilterPostWithViewerContext(db.Model(&models.Post{}), AnonymousViewer()), 1).
		Find(&out).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "NOT posts.is_hidden")
	assert.NotContains(t, sql, "NOT IN")
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 10, clampPageSize(-5))
	assert.Equal(t, 10, clampPageSize(0))
	assert.Equal(t, 1, clampPageSize(1))
	assert.Equal(t, 100, clampPageSize(100))
	assert.Equal(t, 100, clampPageSize(5000))
}
