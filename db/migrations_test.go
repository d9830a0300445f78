package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_OrderedAndCreatesArticles(t *testing.T) {
	up, err := Up()
	require.NoError(t, err)
	require.NotEmpty(t, up)

	assert.Equal(t, "000001_create_articles.up.sql", up[0].Name)
	assert.Contains(t, up[0].SQL, "CREATE TABLE IF NOT EXISTS articles")
	assert.Contains(t, up[0].SQL, "USING GIN (search_vector)")
}

func TestDown_ReverseOrder(t *testing.T) {
	down, err := Down()
	require.NoError(t, err)
	require.NotEmpty(t, down)

	for i := 1; i < len(down); i++ {
		assert.Greater(t, down[i-1].Name, down[i].Name)
	}
	assert.Contains(t, down[len(down)-1].SQL, "DROP TABLE IF EXISTS articles")
}
