package transform

import (
	"math/rand"

	c "github.com/datbolt/dbmigrate/constants"
	"github.com/datbolt/dbmigrate/source"
)

// RowTransform maps one source row to the ordered list of target column
// values for its table.
type RowTransform func(source.Row) ([]interface{}, error)

// TableMigration declares one table's migration: where to read, where to
// write, the page ordering column and the transform between the two shapes.
type TableMigration struct {
	Name        string   // config key, used by the --table filter and the report
	SourceTable string
	TargetTable string
	OrderBy     string   // source timestamp column used for stable paging
	Columns     []string // target columns, in insert order
	Transform   RowTransform
}

// Tables returns the declared table migrations in their fixed dependency
// order. The order is load-bearing: profile/activity/stat rows reference
// users synthesized before any table runs, and reports count incidents.
func Tables() []TableMigration {
	return []TableMigration{
		{
			Name:        c.TargetTableUserProfiles,
			SourceTable: c.SourceTableUserProfiles,
			TargetTable: c.TargetTableUserProfiles,
			OrderBy:     "updated_at",
			Columns:     []string{"user_id", "full_name", "avatar_url", "phone", "department", "updated_at"},
			Transform:   transformUserProfile,
		},
		{
			Name:        c.TargetTableUserActivity,
			SourceTable: c.SourceTableUserActivity,
			TargetTable: c.TargetTableUserActivity,
			OrderBy:     "created_at",
			Columns:     []string{"id", "user_id", "activity_type", "description", "created_at"},
			Transform:   transformUserActivity,
		},
		{
			Name:        c.TargetTableUserStats,
			SourceTable: c.SourceTableUserStats,
			TargetTable: c.TargetTableUserStats,
			OrderBy:     "updated_at",
			Columns:     []string{"user_id", "walkthroughs_completed", "issues_resolved", "reports_generated", "updated_at"},
			Transform:   transformUserStats,
		},
		{
			Name:        c.TargetTableAuditReports,
			SourceTable: c.SourceTableAuditReports,
			TargetTable: c.TargetTableAuditReports,
			OrderBy:     "Timestamp",
			Columns:     []string{"id", "user_email", "generated_by", "timestamp", "datacenter", "datahall", "issues_reported", "state", "walkthrough_id", "report_data"},
			Transform:   transformAuditReport,
		},
		{
			Name:        c.TargetTableIncidents,
			SourceTable: c.SourceTableIncidents,
			TargetTable: c.TargetTableIncidents,
			OrderBy:     "created_at",
			Columns:     []string{"id", "location", "datahall", "description", "severity", "status", "created_at", "updated_at", "user_id"},
			Transform:   transformIncident,
		},
		{
			Name:        c.TargetTableReports,
			SourceTable: c.SourceTableReports,
			TargetTable: c.TargetTableReports,
			OrderBy:     "generated_at",
			Columns:     []string{"id", "title", "generated_by", "generated_at", "date_range_start", "date_range_end", "datacenter", "datahall", "status", "total_incidents", "report_data"},
			Transform:   transformReport,
		},
	}
}

// TableByName looks up a declared table migration by its config name.
func TableByName(name string) (TableMigration, bool) {
	for _, tm := range Tables() {
		if tm.Name == name {
			return tm, true
		}
	}
	return TableMigration{}, false
}

func transformAuditReport(row source.Row) ([]interface{}, error) {
	var src auditReportSource
	if err := decode(row, &src); err != nil {
		return nil, err
	}
	userEmail := strOr(src.UserEmail, "")
	walkthroughID := 0
	if src.WalkthroughID != nil {
		walkthroughID = *src.WalkthroughID
	} else {
		// The submission API treats walkthrough_id as a natural key but
		// legacy rows predate it; a random id keeps them loadable.
		walkthroughID = rand.Intn(100000)
	}
	return []interface{}{
		src.ID,
		userEmail,
		strOr(src.GeneratedBy, userEmail),
		strOrNil(src.Timestamp),
		strOr(src.Datacenter, c.DefaultDatacenter),
		strOr(src.Datahall, c.DefaultDatahall),
		intOr(src.IssuesReported, 0),
		strOr(src.State, c.DefaultHealthState),
		walkthroughID,
		objOr(src.ReportData),
	}, nil
}

func transformUserProfile(row source.Row) ([]interface{}, error) {
	var src userProfileSource
	if err := decode(row, &src); err != nil {
		return nil, err
	}
	return []interface{}{
		src.UserID,
		strOrNil(src.FullName),
		strOrNil(src.AvatarURL),
		strOrNil(src.Phone),
		strOr(src.Department, c.DefaultDepartment),
		strOrNil(src.UpdatedAt),
	}, nil
}

func transformUserActivity(row source.Row) ([]interface{}, error) {
	var src userActivitySource
	if err := decode(row, &src); err != nil {
		return nil, err
	}
	return []interface{}{
		src.ID,
		strOrNil(src.UserID),
		strOrNil(src.ActivityType),
		strOrNil(src.Description),
		strOrNil(src.CreatedAt),
	}, nil
}

func transformUserStats(row source.Row) ([]interface{}, error) {
	var src userStatsSource
	if err := decode(row, &src); err != nil {
		return nil, err
	}
	return []interface{}{
		src.UserID,
		intOr(src.WalkthroughsCompleted, 0),
		intOr(src.IssuesResolved, 0),
		intOr(src.ReportsGenerated, 0),
		strOrNil(src.UpdatedAt),
	}, nil
}

func transformIncident(row source.Row) ([]interface{}, error) {
	var src incidentSource
	if err := decode(row, &src); err != nil {
		return nil, err
	}
	return []interface{}{
		src.ID,
		strOrNil(src.Location),
		strOrNil(src.Datahall),
		strOr(src.Description, ""),
		strOrNil(src.Severity),
		strOr(src.Status, c.DefaultIncidentStatus),
		strOrNil(src.CreatedAt),
		strOrNil(src.UpdatedAt),
		strOrNil(src.UserID), // nullable owner
	}, nil
}

func transformReport(row source.Row) ([]interface{}, error) {
	var src reportSource
	if err := decode(row, &src); err != nil {
		return nil, err
	}
	return []interface{}{
		src.ID,
		strOrNil(src.Title),
		strOrNil(src.GeneratedBy),
		strOrNil(src.GeneratedAt),
		strOrNil(src.DateRangeStart),
		strOrNil(src.DateRangeEnd),
		strOrNil(src.Datacenter),
		strOrNil(src.Datahall),
		strOr(src.Status, c.DefaultReportStatus),
		intOr(src.TotalIncidents, 0),
		objOr(src.ReportData),
	}, nil
}
