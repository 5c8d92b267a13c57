package models

import "github.com/dishfeed/merchant-backend/pkg/enums"

// AgentRun tracks one shopping agent's progress through the checkout flow.
// Timestamps are RFC 3339 strings supplied by the caller or stamped at write
// time.
type AgentRun struct {
	ID              string              `gorm:"column:id;primaryKey"`
	UserID          *string             `gorm:"column:user_id"`
	DeviceID        *string             `gorm:"column:device_id"`
	RecipeID        *string             `gorm:"column:recipe_id"`
	MerchantBaseURL *string             `gorm:"column:merchant_base_url"`
	StoreID         *string             `gorm:"column:store_id"`
	CreatedAt       string              `gorm:"column:created_at"`
	UpdatedAt       string              `gorm:"column:updated_at"`
	State           enums.AgentRunState `gorm:"column:state"`
	FailureCode     *string             `gorm:"column:failure_code"`
	FailureDetail   *string             `gorm:"column:failure_detail"`
	CartDraftID     *string             `gorm:"column:cart_draft_id"`
	OrderID         *string             `gorm:"column:order_id"`
}

func (AgentRun) TableName() string {
	return "agent_runs"
}

// AgentRunStepLog is an append-only audit record for one agent step. The
// parent run is referenced but not validated to exist.
type AgentRunStepLog struct {
	ID             string  `gorm:"column:id;primaryKey"`
	AgentRunID     string  `gorm:"column:agent_run_id"`
	StepName       string  `gorm:"column:step_name"`
	RequestID      *string `gorm:"column:request_id"`
	IdempotencyKey *string `gorm:"column:idempotency_key"`
	StartedAt      string  `gorm:"column:started_at"`
	FinishedAt     *string `gorm:"column:finished_at"`
	DurationMS     *int    `gorm:"column:duration_ms"`
	Success        bool    `gorm:"column:success"`
	ErrorSummary   *string `gorm:"column:error_summary"`
}

func (AgentRunStepLog) TableName() string {
	return "agent_run_step_logs"
}

// Approval records a user's sign-off on a quoted cart. Append-only.
type Approval struct {
	ID                 string  `gorm:"column:id;primaryKey"`
	AgentRunID         string  `gorm:"column:agent_run_id"`
	CartHash           string  `gorm:"column:cart_hash"`
	QuoteHash          string  `gorm:"column:quote_hash"`
	ApprovedTotalCents *int    `gorm:"column:approved_total_cents"`
	ApprovedAt         string  `gorm:"column:approved_at"`
	SignatureMock      *string `gorm:"column:signature_mock"`
	Status             string  `gorm:"column:status"`
}

func (Approval) TableName() string {
	return "approvals"
}
