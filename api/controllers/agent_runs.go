package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dishfeed/merchant-backend/api/responses"
	"github.com/dishfeed/merchant-backend/api/validators"
	"github.com/dishfeed/merchant-backend/internal/agentruns"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	"github.com/dishfeed/merchant-backend/pkg/enums"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/dishfeed/merchant-backend/pkg/logger"
)

type agentRunRequest struct {
	ID              *string `json:"id,omitempty"`
	UserID          *string `json:"userId,omitempty"`
	DeviceID        *string `json:"deviceId,omitempty"`
	RecipeID        *string `json:"recipeId,omitempty"`
	MerchantBaseURL *string `json:"merchantBaseUrl,omitempty"`
	StoreID         *string `json:"storeId,omitempty"`
	CreatedAt       *string `json:"createdAt,omitempty"`
	UpdatedAt       *string `json:"updatedAt,omitempty"`
	State           *string `json:"state,omitempty"`
	FailureCode     *string `json:"failureCode,omitempty"`
	FailureDetail   *string `json:"failureDetail,omitempty"`
	CartDraftID     *string `json:"cartDraftId,omitempty"`
	OrderID         *string `json:"orderId,omitempty"`
}

func (p agentRunRequest) toInput() (agentruns.RunInput, error) {
	input := agentruns.RunInput{
		ID:              p.ID,
		UserID:          p.UserID,
		DeviceID:        p.DeviceID,
		RecipeID:        p.RecipeID,
		MerchantBaseURL: p.MerchantBaseURL,
		StoreID:         p.StoreID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		FailureCode:     p.FailureCode,
		FailureDetail:   p.FailureDetail,
		CartDraftID:     p.CartDraftID,
		OrderID:         p.OrderID,
	}
	if p.State != nil {
		state, err := enums.ParseAgentRunState(*p.State)
		if err != nil {
			return agentruns.RunInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent run state")
		}
		input.State = &state
	}
	return input, nil
}

type agentRunDTO struct {
	ID              string  `json:"id"`
	UserID          *string `json:"userId"`
	DeviceID        *string `json:"deviceId"`
	RecipeID        *string `json:"recipeId"`
	MerchantBaseURL *string `json:"merchantBaseUrl"`
	StoreID         *string `json:"storeId"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
	State           string  `json:"state"`
	FailureCode     *string `json:"failureCode"`
	FailureDetail   *string `json:"failureDetail"`
	CartDraftID     *string `json:"cartDraftId"`
	OrderID         *string `json:"orderId"`
}

type agentRunResponse struct {
	AgentRun agentRunDTO `json:"agentRun"`
}

func toAgentRunDTO(run *models.AgentRun) agentRunDTO {
	return agentRunDTO{
		ID:              run.ID,
		UserID:          run.UserID,
		DeviceID:        run.DeviceID,
		RecipeID:        run.RecipeID,
		MerchantBaseURL: run.MerchantBaseURL,
		StoreID:         run.StoreID,
		CreatedAt:       run.CreatedAt,
		UpdatedAt:       run.UpdatedAt,
		State:           run.State.String(),
		FailureCode:     run.FailureCode,
		FailureDetail:   run.FailureDetail,
		CartDraftID:     run.CartDraftID,
		OrderID:         run.OrderID,
	}
}

// UpsertAgentRun creates the run or merge-patches it when the id exists.
func UpsertAgentRun(svc agentruns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload agentRunRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		run, err := svc.Upsert(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agentRunResponse{AgentRun: toAgentRunDTO(run)})
	}
}

// PatchAgentRun merge-patches an existing run.
func PatchAgentRun(svc agentruns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "id")

		var payload agentRunRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithAgentRunID(ctx, runID)
		}
		run, err := svc.Patch(ctx, runID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, agentRunResponse{AgentRun: toAgentRunDTO(run)})
	}
}

// GetAgentRun returns the run by id.
func GetAgentRun(svc agentruns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "id")

		run, err := svc.Get(r.Context(), runID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agentRunResponse{AgentRun: toAgentRunDTO(run)})
	}
}

type stepLogRequest struct {
	ID             *string `json:"id,omitempty"`
	AgentRunID     string  `json:"agentRunId" validate:"required"`
	StepName       string  `json:"stepName" validate:"required"`
	RequestID      *string `json:"requestId,omitempty"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty"`
	StartedAt      *string `json:"startedAt,omitempty"`
	FinishedAt     *string `json:"finishedAt,omitempty"`
	DurationMS     *int    `json:"durationMs,omitempty"`
	Success        bool    `json:"success"`
	ErrorSummary   *string `json:"errorSummary,omitempty"`
}

type stepLogDTO struct {
	ID             string  `json:"id"`
	AgentRunID     string  `json:"agentRunId"`
	StepName       string  `json:"stepName"`
	RequestID      *string `json:"requestId"`
	IdempotencyKey *string `json:"idempotencyKey"`
	StartedAt      string  `json:"startedAt"`
	FinishedAt     *string `json:"finishedAt"`
	DurationMS     *int    `json:"durationMs"`
	Success        bool    `json:"success"`
	ErrorSummary   *string `json:"errorSummary"`
}

type stepLogResponse struct {
	StepLog stepLogDTO `json:"stepLog"`
}

// CreateAgentRunStep appends one step log row.
func CreateAgentRunStep(svc agentruns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload stepLogRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stepLog, err := svc.CreateStepLog(r.Context(), agentruns.StepLogInput{
			ID:             payload.ID,
			AgentRunID:     payload.AgentRunID,
			StepName:       payload.StepName,
			RequestID:      payload.RequestID,
			IdempotencyKey: payload.IdempotencyKey,
			StartedAt:      payload.StartedAt,
			FinishedAt:     payload.FinishedAt,
			DurationMS:     payload.DurationMS,
			Success:        payload.Success,
			ErrorSummary:   payload.ErrorSummary,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stepLogResponse{StepLog: stepLogDTO{
			ID:             stepLog.ID,
			AgentRunID:     stepLog.AgentRunID,
			StepName:       stepLog.StepName,
			RequestID:      stepLog.RequestID,
			IdempotencyKey: stepLog.IdempotencyKey,
			StartedAt:      stepLog.StartedAt,
			FinishedAt:     stepLog.FinishedAt,
			DurationMS:     stepLog.DurationMS,
			Success:        stepLog.Success,
			ErrorSummary:   stepLog.ErrorSummary,
		}})
	}
}

type approvalRequest struct {
	ID                 *string `json:"id,omitempty"`
	AgentRunID         string  `json:"agentRunId" validate:"required"`
	CartHash           string  `json:"cartHash" validate:"required"`
	QuoteHash          string  `json:"quoteHash" validate:"required"`
	ApprovedTotalCents *int    `json:"approvedTotalCents,omitempty"`
	ApprovedAt         *string `json:"approvedAt,omitempty"`
	SignatureMock      *string `json:"signatureMock,omitempty"`
	Status             string  `json:"status" validate:"required"`
}

type approvalDTO struct {
	ID                 string  `json:"id"`
	AgentRunID         string  `json:"agentRunId"`
	CartHash           string  `json:"cartHash"`
	QuoteHash          string  `json:"quoteHash"`
	ApprovedTotalCents *int    `json:"approvedTotalCents"`
	ApprovedAt         string  `json:"approvedAt"`
	SignatureMock      *string `json:"signatureMock"`
	Status             string  `json:"status"`
}

type approvalResponse struct {
	Approval approvalDTO `json:"approval"`
}

// CreateApproval appends one approval record.
func CreateApproval(svc agentruns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload approvalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		approval, err := svc.CreateApproval(r.Context(), agentruns.ApprovalInput{
			ID:                 payload.ID,
			AgentRunID:         payload.AgentRunID,
			CartHash:           payload.CartHash,
			QuoteHash:          payload.QuoteHash,
			ApprovedTotalCents: payload.ApprovedTotalCents,
			ApprovedAt:         payload.ApprovedAt,
			SignatureMock:      payload.SignatureMock,
			Status:             payload.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, approvalResponse{Approval: approvalDTO{
			ID:                 approval.ID,
			AgentRunID:         approval.AgentRunID,
			CartHash:           approval.CartHash,
			QuoteHash:          approval.QuoteHash,
			ApprovedTotalCents: approval.ApprovedTotalCents,
			ApprovedAt:         approval.ApprovedAt,
			SignatureMock:      approval.SignatureMock,
			Status:             approval.Status,
		}})
	}
}
