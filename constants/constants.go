package constants

// General

const (
	PageSizeDefault       = 1000
	TimeFormatYearSeconds = "20060102T150405" // used for human readable report file names
	EnvVarPrefix          = "DATBOLT"
	EnvVarSourceURL       = EnvVarPrefix + "_SOURCE_URL"
	EnvVarSourceKey       = EnvVarPrefix + "_SOURCE_SERVICE_KEY"
	EnvVarTargetDSN       = EnvVarPrefix + "_TARGET_DSN"
	EnvVarPageSize        = EnvVarPrefix + "_PAGE_SIZE"
	EnvVarReportDir       = EnvVarPrefix + "_REPORT_DIR"
)

// Source tables. AuditReport predates the naming convention used by the
// rest of the source schema so it keeps its mixed-case name.

const (
	SourceTableAuditReports = "AuditReport"
	SourceTableUserProfiles = "user_profiles"
	SourceTableUserActivity = "user_activities"
	SourceTableUserStats    = "user_stats"
	SourceTableIncidents    = "incidents"
	SourceTableReports      = "reports"
)

// Target tables.

const (
	TargetTableAuditReports = "audit_reports"
	TargetTableUserProfiles = "user_profiles"
	TargetTableUserActivity = "user_activities"
	TargetTableUserStats    = "user_stats"
	TargetTableIncidents    = "incidents"
	TargetTableReports      = "reports"
	TargetTableUsers        = "users"
)

// Literal defaults applied by the row transforms.

const (
	DefaultDepartment     = "Data Center Operations"
	DefaultDatacenter     = "Unknown"
	DefaultDatahall       = "Unknown"
	DefaultHealthState    = "Healthy"
	DefaultIncidentStatus = "open"
	DefaultReportStatus   = "draft"
	UnknownUserName       = "Unknown User"
)

// User synthesis.

const (
	PlaceholderEmailDomain = "datbolt.migrated"
	PlaceholderEmailPrefix = "user-"
	PlaceholderIDLength    = 8
	UsersResultKey         = "users"
)

// Report files.

const (
	ReportFilePrefix = "migration-report-"
)
