// Package migrate drives the end-to-end migration run: user synthesis
// first, then each declared table in fixed order, then the count
// validation pass and the JSON run report.
package migrate

import (
	"context"

	"github.com/datbolt/dbmigrate/source"
)

// SourceReader is the paginated read surface of the source store.
// Implemented by source.Client; mocked in tests.
type SourceReader interface {
	Count(ctx context.Context, table string) (int, error)
	FetchPage(ctx context.Context, table, orderBy string, offset, limit int) ([]source.Row, error)
}

// TargetWriter is the write surface of the target store.
// Implemented by rdbms.Connection; mocked in tests.
type TargetWriter interface {
	InsertBatch(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error)
	InsertRow(ctx context.Context, table string, columns []string, values []interface{}, conflictCols ...string) (int64, error)
	Count(ctx context.Context, table string) (int, error)
}
