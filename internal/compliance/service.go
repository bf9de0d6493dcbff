package compliance

import (
	"context"
	"errors"
	"time"

	"complipilot/internal/jobs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	DB *gorm.DB
}

type CreatePolicyInput struct {
	Title      string
	FileKey    string
	Frameworks []string
}

func (s *Service) CreatePolicy(ctx context.Context, ownerID uint64, in CreatePolicyInput) (*Policy, error) {
	if in.Title == "" || in.FileKey == "" {
		return nil, ErrInvalidInput
	}

	p := Policy{
		OwnerID:    ownerID,
		Title:      in.Title,
		FilePath:   in.FileKey,
		Frameworks: pq.StringArray(in.Frameworks),
	}
	if p.Frameworks == nil {
		p.Frameworks = pq.StringArray{}
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) ListPolicies(ctx context.Context, ownerID uint64) ([]Policy, error) {
	var rows []Policy
	err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").Limit(100).
		Find(&rows).Error
	return rows, err
}

func (s *Service) GetPolicy(ctx context.Context, ownerID, policyID uint64) (*Policy, error) {
	var p Policy
	err := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", policyID, ownerID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) CreateGap(ctx context.Context, ownerID, policyID uint64, description, severity string) (*Gap, error) {
	if description == "" || !ValidSeverity(severity) {
		return nil, ErrInvalidInput
	}

	var g Gap
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedPolicy(tx, ownerID, policyID); err != nil {
			return err
		}
		g = Gap{PolicyID: policyID, Description: description, Severity: severity}
		return tx.Create(&g).Error
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) ListGaps(ctx context.Context, ownerID, policyID uint64) ([]Gap, error) {
	if _, err := ownedPolicy(s.DB.WithContext(ctx), ownerID, policyID); err != nil {
		return nil, err
	}
	var rows []Gap
	err := s.DB.WithContext(ctx).
		Where("policy_id = ?", policyID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

type CreateTaskInput struct {
	GapID      uint64
	Title      string
	DueDate    *time.Time
	AssignedTo *uint64
}

func (s *Service) CreateTask(ctx context.Context, ownerID uint64, in CreateTaskInput) (*Task, error) {
	if in.Title == "" {
		return nil, ErrInvalidInput
	}

	var t Task
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gapOwned(tx, ownerID, in.GapID); err != nil {
			return err
		}

		t = Task{
			GapID:      in.GapID,
			Title:      in.Title,
			DueDate:    in.DueDate,
			AssignedTo: in.AssignedTo,
			Status:     "open",
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}

		// due-date alert rides the same tx
		if in.DueDate != nil {
			return jobs.EnqueueTaskDueAlert(tx, ownerID, t.ID, *in.DueDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) ListTasks(ctx context.Context, ownerID, gapID uint64) ([]Task, error) {
	if err := gapOwned(s.DB.WithContext(ctx), ownerID, gapID); err != nil {
		return nil, err
	}
	var rows []Task
	err := s.DB.WithContext(ctx).
		Where("gap_id = ?", gapID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

type UpdateTaskInput struct {
	Status     *string
	DueDate    *time.Time
	ClearDue   bool
	AssignedTo *uint64
}

func (s *Service) UpdateTask(ctx context.Context, ownerID, taskID uint64, in UpdateTaskInput) (*Task, error) {
	if in.Status != nil && !ValidStatus(*in.Status) {
		return nil, ErrInvalidInput
	}

	var t Task
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := taskOwned(tx, ownerID, taskID)
		if err != nil {
			return err
		}
		t = *found

		if in.Status != nil {
			t.Status = *in.Status
		}
		if in.ClearDue {
			t.DueDate = nil
		} else if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.AssignedTo != nil {
			t.AssignedTo = in.AssignedTo
		}

		if err := tx.Save(&t).Error; err != nil {
			return err
		}

		// keep at most one pending alert, aimed at the current due date
		if err := jobs.CancelTaskDueAlerts(tx, ownerID, t.ID); err != nil {
			return err
		}
		if t.DueDate != nil && t.Status != "done" {
			return jobs.EnqueueTaskDueAlert(tx, ownerID, t.ID, *t.DueDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) AttachEvidence(ctx context.Context, ownerID, taskID uint64, fileKey string) (*Evidence, error) {
	if fileKey == "" {
		return nil, ErrInvalidInput
	}

	var e Evidence
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := taskOwned(tx, ownerID, taskID); err != nil {
			return err
		}
		e = Evidence{TaskID: taskID, FilePath: fileKey}
		return tx.Create(&e).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) ListEvidence(ctx context.Context, ownerID, taskID uint64) ([]Evidence, error) {
	if _, err := taskOwned(s.DB.WithContext(ctx), ownerID, taskID); err != nil {
		return nil, err
	}
	var rows []Evidence
	err := s.DB.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

func (s *Service) GetEvidence(ctx context.Context, ownerID, evidenceID uint64) (*Evidence, error) {
	var e Evidence
	err := s.DB.WithContext(ctx).
		Where(`id = ? AND task_id IN (
			select t.id from tasks t
			join gaps g on g.id = t.gap_id
			join policies p on p.id = g.policy_id
			where p.owner_id = ?)`, evidenceID, ownerID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Ownership runs through the policy chain: a record outside the
// caller's chain looks exactly like a missing one.

func ownedPolicy(db *gorm.DB, ownerID, policyID uint64) (*Policy, error) {
	var p Policy
	err := db.Where("id = ? AND owner_id = ?", policyID, ownerID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func gapOwned(db *gorm.DB, ownerID, gapID uint64) error {
	var g Gap
	err := db.Where(`id = ? AND policy_id IN (
		select id from policies where owner_id = ?)`, gapID, ownerID).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func taskOwned(db *gorm.DB, ownerID, taskID uint64) (*Task, error) {
	var t Task
	err := db.Where(`id = ? AND gap_id IN (
		select g.id from gaps g
		join policies p on p.id = g.policy_id
		where p.owner_id = ?)`, taskID, ownerID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
