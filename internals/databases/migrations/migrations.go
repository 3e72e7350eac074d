// file: internals/databases/migrations/migrations.go
package migrations

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobintake_backend/internals/features/applications/model"
)

// Migration is one ordered, idempotent schema step. Up runs inside its own
// transaction; the version is recorded in the same transaction.
type Migration struct {
	Version string
	Name    string
	Up      func(tx *gorm.DB) error
}

type SchemaMigration struct {
	Version   string    `gorm:"type:varchar(32);primaryKey;column:version"`
	Name      string    `gorm:"type:varchar(255);not null;column:name"`
	AppliedAt time.Time `gorm:"not null;column:applied_at"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// arbitrary constant shared by every instance of this service
const advisoryLockKey = 7_310_425_001

// All is the canonical ordered list. Append only; never edit a shipped step.
func All() []Migration {
	return []Migration{
		{Version: "0001", Name: "create_applications", Up: createApplications},
		{Version: "0002", Name: "reconcile_application_columns", Up: reconcileApplicationColumns},
		{Version: "0003", Name: "applications_indexes", Up: applicationIndexes},
	}
}

func Run(ctx context.Context, db *gorm.DB) error {
	return RunList(ctx, db, All())
}

// RunList applies every migration of list not yet recorded, in order.
func RunList(ctx context.Context, db *gorm.DB, list []Migration) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range list {
		if applied[m.Version] {
			continue
		}
		ran := false
		err := db.Transaction(func(tx *gorm.DB) error {
			if tx.Dialector.Name() == "postgres" {
				if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey).Error; err != nil {
					return err
				}
			}
			// another instance may have won the race while we waited
			var n int64
			if err := tx.Model(&SchemaMigration{}).Where("version = ?", m.Version).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return nil
			}
			if err := m.Up(tx); err != nil {
				return err
			}
			ran = true
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s_%s: %w", m.Version, m.Name, err)
		}
		if ran {
			log.Printf("[MIGRATE] applied %s_%s", m.Version, m.Name)
		}
	}
	return nil
}

func appliedVersions(db *gorm.DB) (map[string]bool, error) {
	var rows []SchemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Version] = true
	}
	return out, nil
}

/* =========================================================
   0001: applications table
   ========================================================= */

func createApplications(tx *gorm.DB) error {
	m := tx.Migrator()
	if m.HasTable(&model.ApplicationModel{}) {
		// legacy deployments created it by hand; 0002 brings it up to date
		return nil
	}
	return m.CreateTable(&model.ApplicationModel{})
}

/* =========================================================
   0002: additive column reconcile
   ========================================================= */

func reconcileApplicationColumns(tx *gorm.DB) error {
	dialect := tx.Dialector.Name()
	for _, col := range ExpectedColumns {
		if tx.Migrator().HasColumn(ApplicationsTable, col.Name) {
			continue
		}
		if err := addColumn(tx, dialect, col); err != nil {
			return fmt.Errorf("column %s: %w", col.Name, err)
		}
		log.Printf("[MIGRATE] added column %s.%s %s", ApplicationsTable, col.Name, col.sqlType(dialect))
	}
	return nil
}

func addColumn(tx *gorm.DB, dialect string, col ExpectedColumn) error {
	table := clause.Table{Name: ApplicationsTable}
	column := clause.Column{Name: col.Name}

	ddl := "ALTER TABLE ? ADD COLUMN ? " + col.sqlType(dialect)
	if col.Default != "" {
		ddl += " DEFAULT " + col.Default
	}
	if err := tx.Exec(ddl, table, column).Error; err != nil {
		return err
	}

	if fill := col.backfill(); fill != "" {
		if err := tx.Exec("UPDATE ? SET ? = "+fill+" WHERE ? IS NULL", table, column, column).Error; err != nil {
			return fmt.Errorf("backfill: %w", err)
		}
	}

	// sqlite cannot alter nullability in place
	if !col.Nullable && dialect == "postgres" {
		if err := tx.Exec("ALTER TABLE ? ALTER COLUMN ? SET NOT NULL", table, column).Error; err != nil {
			return fmt.Errorf("set not null: %w", err)
		}
	}
	return nil
}

/* =========================================================
   0003: lookup indexes
   ========================================================= */

func applicationIndexes(tx *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_submission_date ON applications (submission_date)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_reference_code ON applications (reference_code)",
	}
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
