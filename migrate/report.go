package migrate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"

	c "github.com/datbolt/dbmigrate/constants"
)

// Summary aggregates the per-source results of one run.
type Summary struct {
	TotalTables          int `json:"totalTables"`
	SuccessfulTables     int `json:"successfulTables"`
	FailedTables         int `json:"failedTables"`
	TotalRecordsMigrated int `json:"totalRecordsMigrated"`
}

// Report is the persisted record of one migration run. One JSON file is
// written per run; no other state survives between runs.
type Report struct {
	RunID      string                      `json:"runId"`
	Timestamp  time.Time                   `json:"timestamp"`
	DryRun     bool                        `json:"dryRun"`
	Results    map[string]TableResult      `json:"results"`
	Validation map[string]ValidationResult `json:"validation,omitempty"`
	Summary    Summary                     `json:"summary"`
}

// NewReport starts a report for a run beginning now.
func NewReport(dryRun bool) *Report {
	return &Report{
		RunID:     xid.New().String(),
		Timestamp: time.Now().UTC(),
		DryRun:    dryRun,
		Results:   map[string]TableResult{},
	}
}

// Add records one source's result.
func (r *Report) Add(res TableResult) {
	r.Results[res.Table] = res
}

// Finalize computes the summary from the recorded results.
func (r *Report) Finalize() {
	s := Summary{TotalTables: len(r.Results)}
	for _, res := range r.Results {
		if res.Success {
			s.SuccessfulTables++
		} else {
			s.FailedTables++
		}
		s.TotalRecordsMigrated += res.RecordsMigrated
	}
	r.Summary = s
}

// WriteFile serializes the report into dir using a UTC-timestamped file
// name and returns the path written.
func (r *Report) WriteFile(dir string) (string, error) {
	name := c.ReportFilePrefix + r.Timestamp.Format(c.TimeFormatYearSeconds) + ".json"
	path := filepath.Join(dir, name)
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "unable to serialize migration report")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", errors.Wrapf(err, "unable to write migration report %v", path)
	}
	return path, nil
}
