package migrate

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/datbolt/dbmigrate/logger"
	"github.com/datbolt/dbmigrate/source"
	"github.com/datbolt/dbmigrate/transform"
)

func testLogger() logger.Logger {
	return logger.NewLogger("test", "error", false)
}

// widgetTable is a minimal table migration for exercising the paging loop
// without realistic row shapes.
func widgetTable() transform.TableMigration {
	return transform.TableMigration{
		Name:        "widgets",
		SourceTable: "widgets",
		TargetTable: "widgets",
		OrderBy:     "created_at",
		Columns:     []string{"id"},
		Transform: func(row source.Row) ([]interface{}, error) {
			return []interface{}{row["id"]}, nil
		},
	}
}

func widgetRows(n int) []source.Row {
	rows := make([]source.Row, n)
	for i := range rows {
		rows[i] = source.Row{"id": fmt.Sprintf("w-%v", i)}
	}
	return rows
}

func TestMigrateTablePaging(t *testing.T) {
	src := newMockSource()
	src.data["widgets"] = widgetRows(2500)
	tgt := newMockTarget()

	res := MigrateTable(context.Background(), testLogger(), src, tgt, widgetTable(), 1000, false)

	if !res.Success {
		t.Fatal("expected success, got error: ", res.Error)
	}
	if res.RecordsMigrated != 2500 {
		t.Fatal("expected 2500 records migrated, got ", res.RecordsMigrated)
	}
	if src.fetchCalls["widgets"] != 3 {
		t.Fatal("expected 3 page fetches, got ", src.fetchCalls["widgets"])
	}
	if tgt.insertCalls != 3 {
		t.Fatal("expected 3 batch inserts, got ", tgt.insertCalls)
	}
	sizes := []int{}
	for _, batch := range tgt.batches["widgets"] {
		sizes = append(sizes, len(batch))
	}
	if sizes[0] != 1000 || sizes[1] != 1000 || sizes[2] != 500 {
		t.Fatal("unexpected batch sizes: ", sizes)
	}
}

func TestMigrateTableExactPageBoundary(t *testing.T) {
	src := newMockSource()
	src.data["widgets"] = widgetRows(2000)
	tgt := newMockTarget()

	res := MigrateTable(context.Background(), testLogger(), src, tgt, widgetTable(), 1000, false)

	if !res.Success || res.RecordsMigrated != 2000 {
		t.Fatal("unexpected result: ", res)
	}
	if src.fetchCalls["widgets"] != 2 {
		t.Fatal("expected 2 page fetches, got ", src.fetchCalls["widgets"])
	}
}

func TestMigrateTableEmpty(t *testing.T) {
	src := newMockSource()
	tgt := newMockTarget()

	res := MigrateTable(context.Background(), testLogger(), src, tgt, widgetTable(), 1000, false)

	if !res.Success {
		t.Fatal("empty table should succeed")
	}
	if res.RecordsMigrated != 0 {
		t.Fatal("expected 0 records migrated, got ", res.RecordsMigrated)
	}
	if src.fetchCalls["widgets"] != 0 || tgt.insertCalls != 0 {
		t.Fatal("empty table must not fetch pages or write")
	}
}

func TestMigrateTableDryRun(t *testing.T) {
	src := newMockSource()
	src.data["widgets"] = widgetRows(1500)
	tgt := newMockTarget()

	res := MigrateTable(context.Background(), testLogger(), src, tgt, widgetTable(), 1000, true)

	if !res.Success {
		t.Fatal("expected success, got error: ", res.Error)
	}
	if tgt.insertCalls != 0 {
		t.Fatal("dry-run must not write, got ", tgt.insertCalls, " insert calls")
	}
	if res.RecordsMigrated != 1500 {
		t.Fatal("dry-run should still count rows, got ", res.RecordsMigrated)
	}
}

func TestMigrateTableCountError(t *testing.T) {
	src := newMockSource()
	src.countErr["widgets"] = errors.New("source exploded")
	tgt := newMockTarget()

	res := MigrateTable(context.Background(), testLogger(), src, tgt, widgetTable(), 1000, false)

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "source exploded" {
		t.Fatal("unexpected error text: ", res.Error)
	}
}

func TestMigrateTableWriteErrorAbortsTable(t *testing.T) {
	src := newMockSource()
	src.data["widgets"] = widgetRows(2500)
	tgt := newMockTarget()
	tgt.batchErr["widgets"] = errors.New("type mismatch")

	res := MigrateTable(context.Background(), testLogger(), src, tgt, widgetTable(), 1000, false)

	if res.Success {
		t.Fatal("expected failure")
	}
	if tgt.insertCalls != 1 {
		t.Fatal("expected the table to abort after the first failed batch, got ", tgt.insertCalls, " calls")
	}
	if res.RecordsMigrated != 0 {
		t.Fatal("no records should count after a failed batch, got ", res.RecordsMigrated)
	}
}
