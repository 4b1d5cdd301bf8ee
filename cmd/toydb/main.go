// Command toydb is the REPL entrypoint of spec.md §6: read one SQL
// statement at a time, plan it, execute it, and print the result as a
// bordered table. Grounded on the teacher's own root main.go (flag
// parsing, stage-tagged error reporting) but reshaped into the
// original C++ prototype's interactive loop (src/repl.cpp) instead of
// a single stdin-to-stdout batch conversion — liner for line editing
// and history, fatih/color for error highlighting, and
// google/uuid to tag each statement's log lines with a correlation id,
// the same "one id per unit of work" idea the teacher's plan package
// uses stage names for for, here extended across a whole REPL session.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arvidellis/toydb/buffer"
	"github.com/arvidellis/toydb/catalog"
	"github.com/arvidellis/toydb/config"
	"github.com/arvidellis/toydb/logutil"
	"github.com/arvidellis/toydb/planner"
	"github.com/arvidellis/toydb/sql"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/peterh/liner"
)

var (
	fManifest = flag.String("manifest", "", "path to the manifest JSON (overrides TOYDB_MANIFEST_PATH/.env)")
	fExplain  = flag.Bool("explain", false, "print the logical plan instead of executing")
)

func fail(stage string, err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error: [%s] %s", stage, err))
}

func main() {
	flag.Parse()

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		fail("config", err)
		os.Exit(1)
	}
	if *fManifest != "" {
		cfg.ManifestPath = *fManifest
	}
	logutil.Reconfigure(cfg.LogFile)

	cat, err := catalog.Load(cfg.ManifestPath)
	if err != nil {
		fail("catalog", err)
		os.Exit(1)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("toydb> ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		runStatement(input, cat, cfg.BatchSize)
	}
}

func runStatement(source string, cat *catalog.Catalog, batchSize int64) {
	id := uuid.New().String()
	logutil.Infof("[%s] statement: %s", id, source)

	stmt, err := sql.NewParser(source).Parse()
	if err != nil {
		fail("parse", err)
		return
	}

	result, err := planner.PlanStatement(stmt, cat, batchSize)
	if err != nil {
		fail("plan", err)
		return
	}

	if *fExplain {
		fmt.Println(planner.Explain(result.Logical))
		return
	}

	if err := result.Physical.Initialize(); err != nil {
		fail("execute", err)
		return
	}

	var total int64
	for {
		out := buffer.NewRowVector()
		n, err := result.Physical.Next(out)
		if err != nil {
			fail("execute", err)
			return
		}
		if n == 0 {
			break
		}
		fmt.Println(out.ToPrettyString(100))
		total += n
	}
	logutil.Infof("[%s] produced %d rows", id, total)
}
