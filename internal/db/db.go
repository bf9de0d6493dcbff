package db

import (
	"fmt"

	"complipilot/internal/auth"
	"complipilot/internal/compliance"
	"complipilot/internal/jobs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&compliance.Policy{},
		&compliance.Gap{},
		&compliance.Task{},
		&compliance.Evidence{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// Framework filter (GIN for text[])
	if err := gdb.Exec(`create index if not exists idx_policies_frameworks on policies using gin (frameworks);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_policies_owner_created on policies(owner_id, created_at desc);`,
		`create index if not exists idx_gaps_policy on gaps(policy_id, id);`,
		`create index if not exists idx_tasks_gap_status on tasks(gap_id, status);`,
		`create index if not exists idx_tasks_due on tasks(status, due_date);`,
		`create index if not exists idx_evidence_task on evidence(task_id, id);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
