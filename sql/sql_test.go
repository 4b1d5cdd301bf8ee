package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectStarWithWhere(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	stmt, err := NewParser(`SELECT * FROM users WHERE age > 30`).Parse()
	require.NoError(err)

	sel, ok := stmt.(*SelectStmt)
	require.True(ok)
	require.Len(sel.Items, 1)
	assert.True(sel.Items[0].Star)
	require.Len(sel.From, 1)
	assert.Equal("users", sel.From[0].Name)

	cmp, ok := sel.Where.(*BinaryCompare)
	require.True(ok)
	assert.Equal(OpGt, cmp.Op)
	ident, ok := cmp.Left.(*Ident)
	require.True(ok)
	assert.Equal("age", ident.Column)
	lit, ok := cmp.Right.(*IntLiteral)
	require.True(ok)
	assert.EqualValues(30, lit.Value)
}

func TestParseSelectNamedColumnsQualifiedAndAlias(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	stmt, err := NewParser(`SELECT u.id, u.name AS n FROM users AS u`).Parse()
	require.NoError(err)

	sel := stmt.(*SelectStmt)
	require.Len(sel.Items, 2)

	id0 := sel.Items[0].Expr.(*Ident)
	assert.Equal("u", id0.Table)
	assert.Equal("id", id0.Column)
	assert.Equal("", sel.Items[0].Alias)

	id1 := sel.Items[1].Expr.(*Ident)
	assert.Equal("name", id1.Column)
	assert.Equal("n", sel.Items[1].Alias)

	require.Len(sel.From, 1)
	assert.Equal("users", sel.From[0].Name)
	assert.Equal("u", sel.From[0].Alias)
}

func TestParseSelectCommaFromAndAndOr(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	stmt, err := NewParser(`SELECT * FROM a, b WHERE a.x = 1 AND b.y = 2 OR a.x = 3`).Parse()
	require.NoError(err)

	sel := stmt.(*SelectStmt)
	require.Len(sel.From, 2)
	assert.Equal("a", sel.From[0].Name)
	assert.Equal("b", sel.From[1].Name)

	or, ok := sel.Where.(*BinaryLogical)
	require.True(ok)
	assert.Equal(OpOr, or.Op)

	and, ok := or.Left.(*BinaryLogical)
	require.True(ok)
	assert.Equal(OpAnd, and.Op)
}

func TestParseSelectNotExpression(t *testing.T) {
	require := require.New(t)

	stmt, err := NewParser(`SELECT * FROM t WHERE NOT t.flag = TRUE`).Parse()
	require.NoError(err)

	sel := stmt.(*SelectStmt)
	_, ok := sel.Where.(*Not)
	require.True(ok)
}

func TestParseSelectJoinOn(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	stmt, err := NewParser(`SELECT * FROM users u JOIN orders o ON u.id = o.user_id`).Parse()
	require.NoError(err)

	sel := stmt.(*SelectStmt)
	require.Len(sel.Joins, 1)
	assert.Equal("INNER", sel.Joins[0].Kind)
	assert.Equal("orders", sel.Joins[0].Table.Name)
	assert.Equal("o", sel.Joins[0].Table.Alias)
	require.NotNil(sel.Joins[0].On)
}

func TestParseInsertUpdateDeleteCreateTable(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	stmt, err := NewParser(`INSERT INTO users (id, name) VALUES (1, 'alice')`).Parse()
	require.NoError(err)
	ins := stmt.(*InsertStmt)
	assert.Equal("users", ins.Table)
	assert.Equal([]string{"id", "name"}, ins.Columns)
	require.Len(ins.Values, 2)

	stmt, err = NewParser(`UPDATE users SET name = 'bob' WHERE id = 1`).Parse()
	require.NoError(err)
	upd := stmt.(*UpdateStmt)
	assert.Equal("users", upd.Table)
	assert.Contains(upd.Set, "name")
	require.NotNil(upd.Where)

	stmt, err = NewParser(`DELETE FROM users WHERE id = 1`).Parse()
	require.NoError(err)
	del := stmt.(*DeleteStmt)
	assert.Equal("users", del.Table)

	stmt, err = NewParser(`CREATE TABLE t (id INT64, name STRING)`).Parse()
	require.NoError(err)
	ct := stmt.(*CreateTableStmt)
	assert.Equal("t", ct.Table)
	require.Len(ct.Columns, 2)
	assert.Equal("INT64", ct.Columns[0].Type)
}

func TestParseRejectsGarbageTrailingInput(t *testing.T) {
	assert := assert.New(t)

	_, err := NewParser(`SELECT * FROM users WHERE age > 30 garbage`).Parse()
	assert.Error(err)
}

func TestParseReportsPositionOnSyntaxError(t *testing.T) {
	require := require.New(t)

	_, err := NewParser(`SELECT FROM users`).Parse()
	require.Error(err)
	require.Contains(err.Error(), "(line 1, col 12")
}

func TestLexerSkipsLineComments(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	stmt, err := NewParser("SELECT * FROM users -- trailing comment\nWHERE id = 1").Parse()
	require.NoError(err)
	sel := stmt.(*SelectStmt)
	assert.NotNil(sel.Where)
}
