// Package transform maps source row shapes onto target row shapes.
// Each table has a typed source struct, decoded from the loose JSON map
// with mapstructure, and a pure transform that applies renames and literal
// defaults field by field. Transforms never fail for syntactically valid
// rows; absent optional fields become defaults, never omissions.
package transform

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/datbolt/dbmigrate/source"
)

type auditReportSource struct {
	ID             string                 `mapstructure:"Id"`
	UserEmail      *string                `mapstructure:"UserEmail"`
	UserFullName   *string                `mapstructure:"UserFullName"`
	GeneratedBy    *string                `mapstructure:"GeneratedBy"`
	Timestamp      *string                `mapstructure:"Timestamp"`
	Datacenter     *string                `mapstructure:"datacenter"`
	Datahall       *string                `mapstructure:"datahall"`
	IssuesReported *int                   `mapstructure:"issues_reported"`
	State          *string                `mapstructure:"state"`
	WalkthroughID  *int                   `mapstructure:"walkthrough_id"`
	ReportData     map[string]interface{} `mapstructure:"ReportData"`
}

type userProfileSource struct {
	UserID     string  `mapstructure:"user_id"`
	FullName   *string `mapstructure:"full_name"`
	AvatarURL  *string `mapstructure:"avatar_url"`
	Phone      *string `mapstructure:"phone"`
	Department *string `mapstructure:"department"`
	UpdatedAt  *string `mapstructure:"updated_at"`
}

type userActivitySource struct {
	ID           string  `mapstructure:"id"`
	UserID       *string `mapstructure:"user_id"`
	ActivityType *string `mapstructure:"activity_type"`
	Description  *string `mapstructure:"description"`
	CreatedAt    *string `mapstructure:"created_at"`
}

type userStatsSource struct {
	UserID                string  `mapstructure:"user_id"`
	WalkthroughsCompleted *int    `mapstructure:"walkthroughs_completed"`
	IssuesResolved        *int    `mapstructure:"issues_resolved"`
	ReportsGenerated      *int    `mapstructure:"reports_generated"`
	UpdatedAt             *string `mapstructure:"updated_at"`
}

type incidentSource struct {
	ID          string  `mapstructure:"id"`
	Location    *string `mapstructure:"location"`
	Datahall    *string `mapstructure:"datahall"`
	Description *string `mapstructure:"description"`
	Severity    *string `mapstructure:"severity"`
	Status      *string `mapstructure:"status"`
	CreatedAt   *string `mapstructure:"created_at"`
	UpdatedAt   *string `mapstructure:"updated_at"`
	UserID      *string `mapstructure:"user_id"`
}

type reportSource struct {
	ID             string                 `mapstructure:"id"`
	Title          *string                `mapstructure:"title"`
	GeneratedBy    *string                `mapstructure:"generated_by"`
	GeneratedAt    *string                `mapstructure:"generated_at"`
	DateRangeStart *string                `mapstructure:"date_range_start"`
	DateRangeEnd   *string                `mapstructure:"date_range_end"`
	Datacenter     *string                `mapstructure:"datacenter"`
	Datahall       *string                `mapstructure:"datahall"`
	Status         *string                `mapstructure:"status"`
	TotalIncidents *int                   `mapstructure:"total_incidents"`
	ReportData     map[string]interface{} `mapstructure:"report_data"`
}

// decode fills out from the loose row map. WeaklyTypedInput tolerates the
// JSON number/int mismatch without per-field conversions.
func decode(row source.Row, out interface{}) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "unable to build row decoder")
	}
	if err := d.Decode(map[string]interface{}(row)); err != nil {
		return errors.Wrap(err, "unable to decode source row")
	}
	return nil
}

// strOr returns *p, or def when p is nil or empty.
func strOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

// intOr returns *p, or def when p is nil.
func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// strOrNil passes a nullable string through, mapping nil to SQL NULL.
func strOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// objOr returns m, or an empty object when m is nil.
func objOr(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
