package migrate

import (
	"context"

	"github.com/datbolt/dbmigrate/logger"
	"github.com/datbolt/dbmigrate/transform"
)

// ValidationResult compares row cardinality between source and target for
// one table. Content is not compared.
type ValidationResult struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Match  bool   `json:"match"`
	Error  string `json:"error,omitempty"`
}

// ValidateCounts fetches source and target row counts for every supplied
// table migration. A count failure for one table is captured in its result
// and does not abort validation of the remaining tables.
func ValidateCounts(ctx context.Context, log logger.Logger, src SourceReader, tgt TargetWriter, tables []transform.TableMigration) map[string]ValidationResult {
	out := make(map[string]ValidationResult, len(tables))
	for _, tm := range tables {
		res := ValidationResult{}
		srcCount, err := src.Count(ctx, tm.SourceTable)
		if err != nil {
			log.Error("validation count failed for source table ", tm.SourceTable, ": ", err)
			res.Error = err.Error()
			out[tm.Name] = res
			continue
		}
		tgtCount, err := tgt.Count(ctx, tm.TargetTable)
		if err != nil {
			log.Error("validation count failed for target table ", tm.TargetTable, ": ", err)
			res.Error = err.Error()
			out[tm.Name] = res
			continue
		}
		res.Source = srcCount
		res.Target = tgtCount
		res.Match = srcCount == tgtCount
		if res.Match {
			log.Info("validation: ", tm.Name, " matches (", srcCount, " rows)")
		} else {
			log.Warn("validation: ", tm.Name, " mismatch, source=", srcCount, " target=", tgtCount)
		}
		out[tm.Name] = res
	}
	return out
}
