package rdbms

import (
	"strings"
	"testing"
)

func TestInsertBatchStatementPlaceholders(t *testing.T) {
	b := NewInsertBatch("incidents", []string{"id", "severity"})
	for _, row := range [][]interface{}{
		{"i-1", "critical"},
		{"i-2", "low"},
		{"i-3", nil},
	} {
		if err := b.Add(row); err != nil {
			t.Fatal(err)
		}
	}

	if b.Len() != 3 {
		t.Fatal("expected 3 rows, got ", b.Len())
	}
	if len(b.Values()) != 6 {
		t.Fatal("expected 6 flattened values, got ", len(b.Values()))
	}
	got := b.Statement()
	want := `INSERT INTO "incidents" (id,severity) VALUES ($1,$2),($3,$4),($5,$6) ON CONFLICT DO NOTHING`
	if got != want {
		t.Fatalf("unexpected statement:\n got  %v\n want %v", got, want)
	}
}

func TestInsertBatchConflictTarget(t *testing.T) {
	b := NewInsertBatch("users", []string{"id", "email"}, "email")
	if err := b.Add([]interface{}{"u-1", "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	got := b.Statement()
	if !strings.HasSuffix(got, "ON CONFLICT (email) DO NOTHING") {
		t.Fatal("expected a targeted conflict clause, got: ", got)
	}
}

func TestInsertBatchQuotesMixedCaseTable(t *testing.T) {
	b := NewInsertBatch("AuditReport", []string{"id"})
	if err := b.Add([]interface{}{"r-1"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.Statement(), `INSERT INTO "AuditReport" `) {
		t.Fatal("mixed-case table names must be quoted: ", b.Statement())
	}
}

func TestInsertBatchRejectsShortRow(t *testing.T) {
	b := NewInsertBatch("incidents", []string{"id", "severity"})
	if err := b.Add([]interface{}{"i-1"}); err == nil {
		t.Fatal("expected an error for a row shorter than the column list")
	}
	if b.Len() != 0 {
		t.Fatal("a rejected row must not count towards the batch")
	}
}

func TestBindValueSerializesStructuredValues(t *testing.T) {
	got, err := BindValue(map[string]interface{}{"sensors": []interface{}{"t1"}})
	if err != nil {
		t.Fatal(err)
	}
	s, ok := got.(string)
	if !ok {
		t.Fatal("expected JSON text, got ", got)
	}
	if !strings.Contains(s, `"sensors"`) {
		t.Fatal("unexpected JSON payload: ", s)
	}

	got, err = BindValue([]interface{}{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if got != "[1,2]" {
		t.Fatal("arrays should bind as JSON text, got ", got)
	}
}

func TestBindValuePassesScalarsThrough(t *testing.T) {
	for _, v := range []interface{}{"text", 42, 4.2, true} {
		got, err := BindValue(v)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatal("scalar should pass through unchanged: ", v, " became ", got)
		}
	}
	got, err := BindValue(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("nil should bind as NULL, got ", got)
	}
}
