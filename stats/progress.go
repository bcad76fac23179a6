// Package stats reports per-table migration progress.
package stats

import (
	"fmt"
	"time"

	"github.com/datbolt/dbmigrate/logger"
)

// Progress tracks one table's migration and emits a progress line after
// every page. The pipeline is single-threaded so no synchronization is
// needed here.
type Progress struct {
	log   logger.Logger
	name  string
	total int
	done  int
	pages int
	start time.Time
}

// NewProgress starts tracking a table with the given total row count.
func NewProgress(log logger.Logger, name string, total int) *Progress {
	return &Progress{log: log, name: name, total: total, start: time.Now()}
}

// Advance records one processed page of n rows and logs running totals.
func (p *Progress) Advance(n int) {
	p.pages++
	p.done += n
	elapsed := time.Since(p.start).Seconds()
	rps := float64(p.done)
	if elapsed > 0 {
		rps = float64(p.done) / elapsed
	}
	p.log.Info(fmt.Sprintf("%v: page %v done, %v/%v rows (%.0f rows/sec)", p.name, p.pages, p.done, p.total, rps))
}

// Done returns the number of rows processed so far.
func (p *Progress) Done() int {
	return p.done
}

// Pages returns the number of pages processed so far.
func (p *Progress) Pages() int {
	return p.pages
}
