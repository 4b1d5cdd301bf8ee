package physop

import (
	"strconv"
	"strings"
	"testing"

	gawki "github.com/benhoyt/goawk/interp"
	gawkp "github.com/benhoyt/goawk/parser"
	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/predicate"
	"github.com/arvidellis/toydb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runAwk parses and executes src against the whitespace-delimited records in
// path, the same gawkp.ParseProgram/gawki.New/Execute sequence the teacher's
// own cg_test.go cookbook.runGoAwk uses to drive goawk as an output oracle.
func runAwk(t *testing.T, src, path string) string {
	t.Helper()
	prog, err := gawkp.ParseProgram([]byte(src), nil)
	require.NoError(t, err)

	interp, err := gawki.New(prog)
	require.NoError(t, err)

	var buf strings.Builder
	config := &gawki.Config{
		Output: &buf,
		Args:   []string{path},
	}
	_, err = interp.Execute(config)
	require.NoError(t, err)
	return buf.String()
}

func countNonEmptyLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// TestFilterMatchesGoAwkOracleForGreaterThan checks physop.Filter's
// "age > 25" row count against an independently-computed goawk oracle
// reading the same data as whitespace-delimited fields ($2 > 25) rather
// than toydb's own CSV reader, so the two row-count tallies can't share a
// parsing bug.
func TestFilterMatchesGoAwkOracleForGreaterThan(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	ages := []int{30, 25, 40, 22, 35, 28, 45, 19, 50, 33}

	var awkLines strings.Builder
	var csvLines strings.Builder
	csvLines.WriteString("id,age\n")
	for i, age := range ages {
		id := i + 1
		awkLines.WriteString(strconv.Itoa(id) + " " + strconv.Itoa(age) + "\n")
		csvLines.WriteString(strconv.Itoa(id) + "," + strconv.Itoa(age) + "\n")
	}

	awkPath := writeTempCSV(t, awkLines.String())
	out := runAwk(t, `$2 > 25 { print $1 }`, awkPath)
	oracleCount := countNonEmptyLines(out)

	csvPath := writeTempCSV(t, csvLines.String())
	tbl := types.TableId{Id: 1, Name: "ages"}
	schema := []ColumnSpec{
		{ColumnId: types.ColumnId{Id: 1, Name: "id", Owner: tbl}, Type: types.Int64},
		{ColumnId: types.ColumnId{Id: 2, Name: "age", Owner: tbl}, Type: types.Int32},
	}
	scan := NewCsvScan(csvPath, schema, 100)

	ageRef := predicate.NewColumnRef(schema[1].ColumnId, types.Int32)
	cmp, err := predicate.NewCompare(predicate.Greater, types.Int32, ageRef, predicate.NewIntConstant(types.Int32, 25))
	require.NoError(err)

	filter := NewFilter(scan, cmp)
	require.NoError(filter.Initialize())

	rv := buffer.NewRowVector()
	n, err := filter.Next(rv)
	require.NoError(err)

	assert.EqualValues(oracleCount, n, "toydb Filter row count must match the goawk oracle's")
}
