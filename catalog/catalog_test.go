package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arvidellis/toydb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
  "tables": [
    {
      "name": "users",
      "id": 1,
      "id_name": "users",
      "format": "csv",
      "schema": [
        {"name": "id", "type": "INT64", "nullable": false},
        {"name": "name", "type": "STRING", "nullable": false},
        {"name": "age", "type": "INT32", "nullable": false},
        {"name": "city", "type": "STRING", "nullable": true},
        {"name": "created_at", "type": "STRING", "nullable": false}
      ],
      "files": [ {"path": "users.tbl"} ]
    },
    {
      "name": "orders",
      "id": 2,
      "id_name": "orders",
      "format": "csv",
      "schema": [
        {"name": "id", "type": "INT64", "nullable": false},
        {"name": "user_id", "type": "INT64", "nullable": false}
      ],
      "files": [ {"path": "orders.tbl"} ]
    }
  ]
}`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tdb_manifest.json")
	require.New(t).NoError(os.WriteFile(path, []byte(sampleManifest), 0644))
	return path
}

func TestLoadAssignsColumnIdsFromOne(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := writeManifest(t)
	cat, err := Load(path)
	require.NoError(err)

	users, ok := cat.GetTableByName("users")
	require.True(ok)
	assert.Equal(uint64(1), users.Schema.Columns[0].ColumnId.Id)
	assert.Equal(uint64(4), users.Schema.Columns[3].ColumnId.Id)
	assert.True(users.Schema.Columns[3].Nullable)
	assert.False(users.Schema.Columns[0].Nullable)
}

func TestLoadResolvesFilePathsRelativeToManifestDir(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := writeManifest(t)
	cat, err := Load(path)
	require.NoError(err)

	users, _ := cat.GetTableByName("users")
	assert.Equal(filepath.Join(filepath.Dir(path), "users.tbl"), users.Files[0].Path)
}

func TestResolveColumnAmbiguous(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := writeManifest(t)
	cat, err := Load(path)
	require.NoError(err)

	users, _ := cat.GetTableByName("users")
	orders, _ := cat.GetTableByName("orders")

	q := NewQueryContext()
	q.AddTable(users, "")
	q.AddTable(orders, "")

	_, _, err = cat.ResolveColumn(q, "", "id")
	assert.Error(err)

	id, _, err := cat.ResolveColumn(q, "users", "id")
	require.NoError(err)
	assert.Equal(types.ColumnId{Id: 1, Name: "id", Owner: users.TableId}, id)
}

func TestTableHandleNewScan(t *testing.T) {
	require := require.New(t)

	path := writeManifest(t)
	cat, err := Load(path)
	require.NoError(err)

	handle, err := cat.GetTableHandle("users")
	require.NoError(err)

	scan, err := handle.NewScan(5)
	require.NoError(err)
	require.NotNil(scan)
}
