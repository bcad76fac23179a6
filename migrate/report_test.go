package migrate

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	c "github.com/datbolt/dbmigrate/constants"
)

func TestReportFinalize(t *testing.T) {
	rep := NewReport(false)
	rep.Add(TableResult{Table: "a", Success: true, RecordsMigrated: 10})
	rep.Add(TableResult{Table: "b", Success: true, RecordsMigrated: 5})
	rep.Add(TableResult{Table: "c", Error: "boom"})
	rep.Finalize()

	s := rep.Summary
	if s.TotalTables != 3 || s.SuccessfulTables != 2 || s.FailedTables != 1 {
		t.Fatal("unexpected summary: ", s)
	}
	if s.TotalRecordsMigrated != 15 {
		t.Fatal("expected 15 records in total, got ", s.TotalRecordsMigrated)
	}
}

func TestReportAddOverwritesSameTable(t *testing.T) {
	rep := NewReport(false)
	rep.Add(TableResult{Table: "a", RecordsMigrated: 1})
	rep.Add(TableResult{Table: "a", Success: true, RecordsMigrated: 2})
	rep.Finalize()

	if rep.Summary.TotalTables != 1 || rep.Summary.TotalRecordsMigrated != 2 {
		t.Fatal("re-adding a table should replace its result: ", rep.Summary)
	}
}

func TestReportWriteFileRoundTrip(t *testing.T) {
	rep := NewReport(true)
	rep.Add(TableResult{Table: "incidents", Success: true, RecordsMigrated: 7})
	rep.Validation = map[string]ValidationResult{
		"incidents": {Source: 7, Target: 7, Match: true},
	}
	rep.Finalize()

	dir := t.TempDir()
	path, err := rep.WriteFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(path, c.ReportFilePrefix) {
		t.Fatal("report path should carry the standard prefix: ", path)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(buf, &got); err != nil {
		t.Fatal(err)
	}
	if got.RunID != rep.RunID || !got.DryRun {
		t.Fatal("round trip lost run identity: ", got.RunID)
	}
	if got.Results["incidents"].RecordsMigrated != 7 {
		t.Fatal("round trip lost results: ", got.Results)
	}
	if !got.Validation["incidents"].Match {
		t.Fatal("round trip lost validation: ", got.Validation)
	}
}

func TestReportValidationOmittedWhenEmpty(t *testing.T) {
	rep := NewReport(true)
	rep.Finalize()

	buf, err := json.Marshal(rep)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(buf), "\"validation\"") {
		t.Fatal("dry-run reports should omit the validation block")
	}
}
