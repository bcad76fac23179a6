package migrate

import (
	"context"

	"github.com/cevaris/ordered_map"
	"github.com/google/uuid"

	c "github.com/datbolt/dbmigrate/constants"
	"github.com/datbolt/dbmigrate/helper"
	"github.com/datbolt/dbmigrate/logger"
	"github.com/datbolt/dbmigrate/source"
)

// SynthesizedUser is a target users row derived from other source tables;
// no single source row corresponds to it.
type SynthesizedUser struct {
	ID         string
	Email      string
	FullName   string
	Department string
}

var userColumns = []string{"id", "email", "full_name", "department"}

func (u SynthesizedUser) values() []interface{} {
	return []interface{}{u.ID, u.Email, u.FullName, u.Department}
}

// placeholderEmail derives a synthetic address from an opaque user id.
// These never collide with real addresses, which is exactly why a person
// present in both source tables yields two user rows (see SynthesizeUsers).
func placeholderEmail(userID string) string {
	return c.PlaceholderEmailPrefix + helper.ShortID(userID, c.PlaceholderIDLength) + "@" + c.PlaceholderEmailDomain
}

// SynthesizeUsers builds the users row set from user_profiles and
// AuditReport, two source tables that reference users only by foreign id
// or by email, with no shared key between them.
//
// Phase 1 keys candidates by profile user id with a placeholder email;
// phase 2 adds report authors whose exact email is not yet present.
// Known caveat carried over from the original design: one real person
// appearing in both sources is emitted as two distinct users, because
// profile-derived users are matched by id and report-derived users by
// email, and placeholder emails cannot equal real ones. Do not merge.
func SynthesizeUsers(ctx context.Context, log logger.Logger, src SourceReader, pageSize int) ([]SynthesizedUser, error) {
	users := ordered_map.NewOrderedMap()

	profiles, err := fetchAll(ctx, src, c.SourceTableUserProfiles, "updated_at", pageSize)
	if err != nil {
		return nil, err
	}
	for _, row := range profiles {
		userID, _ := row["user_id"].(string)
		if userID == "" {
			continue
		}
		if _, ok := users.Get(userID); ok {
			continue
		}
		fullName, _ := row["full_name"].(string)
		department, _ := row["department"].(string)
		if department == "" {
			department = c.DefaultDepartment
		}
		users.Set(userID, SynthesizedUser{
			ID:         userID,
			Email:      placeholderEmail(userID),
			FullName:   fullName,
			Department: department,
		})
	}
	log.Info("user synthesis: ", users.Len(), " candidates from ", c.SourceTableUserProfiles)

	reports, err := fetchAll(ctx, src, c.SourceTableAuditReports, "Timestamp", pageSize)
	if err != nil {
		return nil, err
	}
	fromReports := 0
	for _, row := range reports {
		email, _ := row["UserEmail"].(string)
		if email == "" {
			continue
		}
		if hasEmail(users, email) {
			continue
		}
		fullName, _ := row["UserFullName"].(string)
		if fullName == "" {
			fullName = c.UnknownUserName
		}
		id := uuid.New().String()
		users.Set(id, SynthesizedUser{
			ID:         id,
			Email:      email,
			FullName:   fullName,
			Department: c.DefaultDepartment,
		})
		fromReports++
	}
	log.Info("user synthesis: ", fromReports, " candidates added from ", c.SourceTableAuditReports)

	out := make([]SynthesizedUser, 0, users.Len())
	iter := users.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		out = append(out, kv.Value.(SynthesizedUser))
	}
	return out, nil
}

// hasEmail scans all current candidates for an exact email match.
func hasEmail(users *ordered_map.OrderedMap, email string) bool {
	iter := users.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		if kv.Value.(SynthesizedUser).Email == email {
			return true
		}
	}
	return false
}

// MigrateUsers runs the user synthesis pre-pass and inserts the resulting
// rows one at a time with ON CONFLICT (email) DO NOTHING. Individual
// insert failures are warnings; only a synthesis read failure fails the
// step as a whole.
func MigrateUsers(ctx context.Context, log logger.Logger, src SourceReader, tgt TargetWriter, pageSize int, dryRun bool) TableResult {
	res := TableResult{Table: c.UsersResultKey}
	users, err := SynthesizeUsers(ctx, log, src, pageSize)
	if err != nil {
		log.Error("user synthesis failed: ", err)
		res.Error = err.Error()
		return res
	}
	if dryRun {
		log.Info("dry-run: would insert ", len(users), " users")
		res.RecordsMigrated = len(users)
		res.Success = true
		return res
	}
	for _, u := range users {
		if _, err := tgt.InsertRow(ctx, c.TargetTableUsers, userColumns, u.values(), "email"); err != nil {
			log.Warn("skipping user ", u.Email, ": ", err)
			continue
		}
		res.RecordsMigrated++
	}
	log.Info("user synthesis: inserted ", res.RecordsMigrated, " of ", len(users), " users")
	res.Success = true
	return res
}

// fetchAll pages through an entire source table. Used only by the user
// synthesis pre-pass, which needs full scans of two tables.
func fetchAll(ctx context.Context, src SourceReader, table, orderBy string, pageSize int) ([]source.Row, error) {
	total, err := src.Count(ctx, table)
	if err != nil {
		return nil, err
	}
	all := make([]source.Row, 0, total)
	for offset := 0; offset < total; offset += pageSize {
		rows, err := src.FetchPage(ctx, table, orderBy, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)
		if len(rows) < pageSize {
			break
		}
	}
	return all, nil
}
