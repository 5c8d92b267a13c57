package agentruns

import (
	"context"
	"errors"

	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository persists agent runs plus their append-only step logs and
// approvals.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindRun loads a run, nil when absent.
func (r *Repository) FindRun(ctx context.Context, id string) (*models.AgentRun, error) {
	var run models.AgentRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading agent run")
	}
	return &run, nil
}

// CreateRun inserts a new run row.
func (r *Repository) CreateRun(ctx context.Context, run *models.AgentRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating agent run")
	}
	return nil
}

// SaveRun writes all columns of an existing run row.
func (r *Repository) SaveRun(ctx context.Context, run *models.AgentRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving agent run")
	}
	return nil
}

// CreateStepLog appends a step log. The parent run is not validated.
func (r *Repository) CreateStepLog(ctx context.Context, stepLog *models.AgentRunStepLog) error {
	if err := r.db.WithContext(ctx).Create(stepLog).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating step log")
	}
	return nil
}

// CreateApproval appends an approval record.
func (r *Repository) CreateApproval(ctx context.Context, approval *models.Approval) error {
	if err := r.db.WithContext(ctx).Create(approval).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating approval")
	}
	return nil
}
