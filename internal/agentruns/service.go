package agentruns

import (
	"context"
	"time"

	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	"github.com/dishfeed/merchant-backend/pkg/enums"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes agent-run lifecycle operations.
type Service interface {
	Upsert(ctx context.Context, input RunInput) (*models.AgentRun, error)
	Patch(ctx context.Context, id string, input RunInput) (*models.AgentRun, error)
	Get(ctx context.Context, id string) (*models.AgentRun, error)
	CreateStepLog(ctx context.Context, input StepLogInput) (*models.AgentRunStepLog, error)
	CreateApproval(ctx context.Context, input ApprovalInput) (*models.Approval, error)
}

// RunInput carries merge-patch values for a run. Nil fields are absent.
// State legality is not checked against the current state; callers own the
// transition graph.
type RunInput struct {
	ID              *string
	UserID          *string
	DeviceID        *string
	RecipeID        *string
	MerchantBaseURL *string
	StoreID         *string
	CreatedAt       *string
	UpdatedAt       *string
	State           *enums.AgentRunState
	FailureCode     *string
	FailureDetail   *string
	CartDraftID     *string
	OrderID         *string
}

// StepLogInput is one append-only step record.
type StepLogInput struct {
	ID             *string
	AgentRunID     string
	StepName       string
	RequestID      *string
	IdempotencyKey *string
	StartedAt      *string
	FinishedAt     *string
	DurationMS     *int
	Success        bool
	ErrorSummary   *string
}

// ApprovalInput is one append-only approval record.
type ApprovalInput struct {
	ID                 *string
	AgentRunID         string
	CartHash           string
	QuoteHash          string
	ApprovedTotalCents *int
	ApprovedAt         *string
	SignatureMock      *string
	Status             string
}

type service struct {
	repo *Repository
}

// NewService builds the agent-run service on the transactional store.
func NewService(client *db.Client) Service {
	return &service{repo: NewRepository(client.DB())}
}

// Upsert merge-patches the run when the id already exists, otherwise creates
// it with state defaulting to DISCOVER_MERCHANT.
func (s *service) Upsert(ctx context.Context, input RunInput) (*models.AgentRun, error) {
	runID := valueOr(input.ID, uuid.NewString())
	now := nowISO()

	existing, err := s.repo.FindRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		applyRunFields(existing, input)
		existing.UpdatedAt = valueOr(input.UpdatedAt, now)
		if err := s.repo.SaveRun(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	state := enums.AgentRunStateDiscoverMerchant
	if input.State != nil {
		state = *input.State
	}
	run := models.AgentRun{
		ID:              runID,
		UserID:          input.UserID,
		DeviceID:        input.DeviceID,
		RecipeID:        input.RecipeID,
		MerchantBaseURL: input.MerchantBaseURL,
		StoreID:         input.StoreID,
		CreatedAt:       valueOr(input.CreatedAt, now),
		UpdatedAt:       valueOr(input.UpdatedAt, now),
		State:           state,
		FailureCode:     input.FailureCode,
		FailureDetail:   input.FailureDetail,
		CartDraftID:     input.CartDraftID,
		OrderID:         input.OrderID,
	}
	if err := s.repo.CreateRun(ctx, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Patch merge-patches an existing run; NotFound on unknown id.
func (s *service) Patch(ctx context.Context, id string, input RunInput) (*models.AgentRun, error) {
	existing, err := s.repo.FindRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent run not found")
	}

	applyRunFields(existing, input)
	existing.UpdatedAt = valueOr(input.UpdatedAt, nowISO())
	if err := s.repo.SaveRun(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get returns the run, NotFound on unknown id.
func (s *service) Get(ctx context.Context, id string) (*models.AgentRun, error) {
	existing, err := s.repo.FindRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent run not found")
	}
	return existing, nil
}

func (s *service) CreateStepLog(ctx context.Context, input StepLogInput) (*models.AgentRunStepLog, error) {
	stepLog := models.AgentRunStepLog{
		ID:             valueOr(input.ID, uuid.NewString()),
		AgentRunID:     input.AgentRunID,
		StepName:       input.StepName,
		RequestID:      input.RequestID,
		IdempotencyKey: input.IdempotencyKey,
		StartedAt:      valueOr(input.StartedAt, nowISO()),
		FinishedAt:     input.FinishedAt,
		DurationMS:     input.DurationMS,
		Success:        input.Success,
		ErrorSummary:   input.ErrorSummary,
	}
	if err := s.repo.CreateStepLog(ctx, &stepLog); err != nil {
		return nil, err
	}
	return &stepLog, nil
}

func (s *service) CreateApproval(ctx context.Context, input ApprovalInput) (*models.Approval, error) {
	approval := models.Approval{
		ID:                 valueOr(input.ID, uuid.NewString()),
		AgentRunID:         input.AgentRunID,
		CartHash:           input.CartHash,
		QuoteHash:          input.QuoteHash,
		ApprovedTotalCents: input.ApprovedTotalCents,
		ApprovedAt:         valueOr(input.ApprovedAt, nowISO()),
		SignatureMock:      input.SignatureMock,
		Status:             input.Status,
	}
	if err := s.repo.CreateApproval(ctx, &approval); err != nil {
		return nil, err
	}
	return &approval, nil
}

func applyRunFields(run *models.AgentRun, input RunInput) {
	if input.UserID != nil {
		run.UserID = input.UserID
	}
	if input.DeviceID != nil {
		run.DeviceID = input.DeviceID
	}
	if input.RecipeID != nil {
		run.RecipeID = input.RecipeID
	}
	if input.MerchantBaseURL != nil {
		run.MerchantBaseURL = input.MerchantBaseURL
	}
	if input.StoreID != nil {
		run.StoreID = input.StoreID
	}
	if input.State != nil {
		run.State = *input.State
	}
	if input.FailureCode != nil {
		run.FailureCode = input.FailureCode
	}
	if input.FailureDetail != nil {
		run.FailureDetail = input.FailureDetail
	}
	if input.CartDraftID != nil {
		run.CartDraftID = input.CartDraftID
	}
	if input.OrderID != nil {
		run.OrderID = input.OrderID
	}
}

func valueOr(v *string, fallback string) string {
	if v != nil && *v != "" {
		return *v
	}
	return fallback
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
