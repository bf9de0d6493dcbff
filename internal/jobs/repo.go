package jobs

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// EnqueueTaskDueAlert schedules a due-date alert for a task. Takes the
// caller's handle so it can run inside the task's own transaction.
func EnqueueTaskDueAlert(db *gorm.DB, ownerID, taskID uint64, runAt time.Time) error {
	payload, _ := json.Marshal(map[string]any{
		"task_id": taskID,
	})
	j := Job{
		UserID:  ownerID,
		Type:    "TASK_DUE_ALERT",
		Payload: payload,
		RunAt:   runAt,
		Status:  "PENDING",
	}
	return db.Create(&j).Error
}

// CancelTaskDueAlerts removes pending alerts for a task so a reschedule
// never double-fires.
func CancelTaskDueAlerts(db *gorm.DB, ownerID, taskID uint64) error {
	return db.Exec(`
delete from jobs
where user_id = ?
  and type = 'TASK_DUE_ALERT'
  and status = 'PENDING'
  and (payload->>'task_id')::bigint = ?
`, ownerID, taskID).Error
}

type Repo struct {
	DB *gorm.DB
}

// Claim one due job atomically using SKIP LOCKED.
// Works on Postgres.
func (r *Repo) Claim(workerID string) (*Job, error) {
	var job Job
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		// requeue stuck RUNNING jobs (optional safety)
		tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`)

		// claim
		// FOR UPDATE SKIP LOCKED ensures no double-claim
		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(id uint64) error {
	return r.DB.Exec(`update jobs set status='DONE', updated_at=now() where id=?`, id).Error
}

func (r *Repo) MarkFailed(id uint64, errMsg string) error {
	return r.DB.Exec(`update jobs set status='FAILED', last_error=?, updated_at=now() where id=?`, errMsg, id).Error
}

func (r *Repo) RetryLater(id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.Exec(`
update jobs
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=now()
where id=?`, attempts, runAt, errMsg, id).Error
}
