package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// newBackupID returns a fresh backup ID of the form backup-<32 hex digits>.
func newBackupID() string {
	return "backup-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// backupCommand is the gcloud command that backs up the database as of ts.
func backupCommand(target domain.DatabaseTarget, backupID, ts string) string {
	return fmt.Sprintf(
		"gcloud spanner backups create %s --project=%s --instance=%s --database=%s --version-time=%s --retention-period=7d --async",
		backupID, target.Project, target.Instance, target.Database, ts)
}

// executeSQLCommand is the gcloud command that reads the database as of ts.
func executeSQLCommand(target domain.DatabaseTarget, ts string) string {
	return fmt.Sprintf(
		"gcloud spanner databases execute-sql %s --project=%s --instance=%s --sql='SELECT true' --read-timestamp=%s",
		target.Database, target.Project, target.Instance, ts)
}
