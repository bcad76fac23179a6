package rdbms

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// InsertBatch generates one parameterized multi-row INSERT statement with
// conflict-skip semantics. Column order in the generated statement matches
// the Columns list exactly; each added row supplies one positional value
// per column, in that order.
type InsertBatch struct {
	Table          string
	Columns        []string
	ConflictTarget []string // optional column list for ON CONFLICT (...); empty means a bare ON CONFLICT
	values         []interface{}
	rowsInBatch    int
}

// NewInsertBatch creates a batch generator for the given target table.
func NewInsertBatch(table string, columns []string, conflictTarget ...string) *InsertBatch {
	return &InsertBatch{Table: table, Columns: columns, ConflictTarget: conflictTarget}
}

// Add appends one row of values to the batch. Structured (object/array)
// values are serialized to JSON text before binding; scalars pass through
// unmodified. Nils bind as NULL.
func (b *InsertBatch) Add(values []interface{}) error {
	if len(values) != len(b.Columns) {
		return errors.Errorf("row has %v values but table %v expects %v columns", len(values), b.Table, len(b.Columns))
	}
	for _, v := range values {
		bound, err := BindValue(v)
		if err != nil {
			return errors.Wrapf(err, "unable to bind value for table %v", b.Table)
		}
		b.values = append(b.values, bound)
	}
	b.rowsInBatch++
	return nil
}

// Len returns the number of rows added so far.
func (b *InsertBatch) Len() int {
	return b.rowsInBatch
}

// Values returns the flattened positional parameter list, one value per
// placeholder in Statement().
func (b *InsertBatch) Values() []interface{} {
	return b.values
}

// Statement returns the INSERT text for the rows added so far. Callers
// must not invoke this with an empty batch; zero rows would produce an
// invalid empty-VALUES statement.
func (b *InsertBatch) Statement() string {
	groups := make([]string, 0, b.rowsInBatch)
	n := 1
	for row := 0; row < b.rowsInBatch; row++ {
		ph := make([]string, len(b.Columns))
		for col := range b.Columns {
			ph[col] = fmt.Sprintf("$%v", n)
			n++
		}
		groups = append(groups, "("+strings.Join(ph, ",")+")")
	}
	conflict := "ON CONFLICT DO NOTHING"
	if len(b.ConflictTarget) > 0 {
		conflict = fmt.Sprintf("ON CONFLICT (%v) DO NOTHING", strings.Join(b.ConflictTarget, ","))
	}
	return fmt.Sprintf(`INSERT INTO %v (%v) VALUES %v %v`,
		quoteIdent(b.Table), strings.Join(b.Columns, ","), strings.Join(groups, ","), conflict)
}

// BindValue prepares a single value for parameter binding. Non-nil maps
// and slices become JSON text; everything else passes through.
func BindValue(v interface{}) (interface{}, error) {
	switch v.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}, []interface{}:
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(buf), nil
	default:
		return v, nil
	}
}

// quoteIdent double-quotes an identifier so mixed-case table names survive.
func quoteIdent(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}
