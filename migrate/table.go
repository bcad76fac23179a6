package migrate

import (
	"context"

	"github.com/datbolt/dbmigrate/logger"
	"github.com/datbolt/dbmigrate/stats"
	"github.com/datbolt/dbmigrate/transform"
)

// TableResult is the outcome of one table's migration. A failure is
// table-scoped: the run records it and carries on with the next table.
type TableResult struct {
	Table           string `json:"table"`
	Success         bool   `json:"success"`
	RecordsMigrated int    `json:"recordsMigrated"`
	Error           string `json:"error,omitempty"`
}

// MigrateTable runs one table end to end: count, page, transform, write.
// In dry-run mode writes are skipped entirely and the result still counts
// the rows that would have been written. Any read or write error ends the
// table in a failed result; nothing is retried.
func MigrateTable(ctx context.Context, log logger.Logger, src SourceReader, tgt TargetWriter, tm transform.TableMigration, pageSize int, dryRun bool) TableResult {
	res := TableResult{Table: tm.Name}
	total, err := src.Count(ctx, tm.SourceTable)
	if err != nil {
		log.Error("unable to count source table ", tm.SourceTable, ": ", err)
		res.Error = err.Error()
		return res
	}
	if total == 0 {
		log.Warn("source table ", tm.SourceTable, " is empty, skipping")
		res.Success = true
		return res
	}
	log.Info("migrating ", tm.Name, ": ", total, " rows in ", tm.SourceTable)
	progress := stats.NewProgress(log, tm.Name, total)
	for offset := 0; offset < total; offset += pageSize {
		rows, err := src.FetchPage(ctx, tm.SourceTable, tm.OrderBy, offset, pageSize)
		if err != nil {
			log.Error("page fetch failed for ", tm.SourceTable, ": ", err)
			res.Error = err.Error()
			return res
		}
		if len(rows) == 0 {
			break
		}
		batch := make([][]interface{}, 0, len(rows))
		for _, row := range rows {
			values, err := tm.Transform(row)
			if err != nil {
				log.Error("row transform failed for ", tm.SourceTable, ": ", err)
				res.Error = err.Error()
				return res
			}
			batch = append(batch, values)
		}
		if dryRun {
			log.Info("dry-run: would insert ", len(batch), " rows into ", tm.TargetTable)
		} else {
			if _, err := tgt.InsertBatch(ctx, tm.TargetTable, tm.Columns, batch); err != nil {
				log.Error(err)
				res.Error = err.Error()
				return res
			}
		}
		res.RecordsMigrated += len(batch)
		progress.Advance(len(batch))
		if len(rows) < pageSize {
			break
		}
	}
	res.Success = true
	return res
}
