package migrate

import (
	"context"

	"github.com/datbolt/dbmigrate/logger"
	"github.com/datbolt/dbmigrate/transform"
)

// RunOptions selects what a run does. The table order itself is fixed and
// not configurable.
type RunOptions struct {
	DryRun    bool
	Table     string // optional: restrict the run to one configured table
	ReportDir string
	PageSize  int
}

// Runner holds the process-scoped collaborators for one migration run.
// Connections are constructed once by the caller and passed in; nothing
// here is ambient or global.
type Runner struct {
	Log    logger.Logger
	Source SourceReader
	Target TargetWriter
}

// Run executes the fixed migration sequence: user synthesis, each declared
// table in order (honoring the optional filter), the validation pass
// (skipped on dry runs) and the JSON report. Table failures are recorded
// and do not stop the run; the returned report carries them in its
// summary. The returned error covers report generation only.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	rep := NewReport(opts.DryRun)
	if opts.DryRun {
		r.Log.Info("dry-run mode: no writes will be issued")
	}

	// Users are synthesized before any table so foreign keys resolve.
	rep.Add(MigrateUsers(ctx, r.Log, r.Source, r.Target, opts.PageSize, opts.DryRun))

	selected := make([]transform.TableMigration, 0)
	for _, tm := range transform.Tables() {
		if opts.Table != "" && tm.Name != opts.Table {
			continue
		}
		selected = append(selected, tm)
	}
	for _, tm := range selected {
		rep.Add(MigrateTable(ctx, r.Log, r.Source, r.Target, tm, opts.PageSize, opts.DryRun))
	}

	if !opts.DryRun {
		rep.Validation = ValidateCounts(ctx, r.Log, r.Source, r.Target, selected)
	}

	rep.Finalize()
	path, err := rep.WriteFile(opts.ReportDir)
	if err != nil {
		return rep, err
	}
	r.Log.Info("migration report written to ", path)
	r.Log.Info("run complete: ", rep.Summary.SuccessfulTables, "/", rep.Summary.TotalTables,
		" sources succeeded, ", rep.Summary.FailedTables, " failed, ",
		rep.Summary.TotalRecordsMigrated, " records migrated")
	return rep, nil
}
