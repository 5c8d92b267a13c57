package models

import "github.com/dishfeed/merchant-backend/pkg/types"

// CartDraft is the parent of a three-level cart graph: draft, line items,
// and per-item alternatives. Children are replaced wholesale on upsert.
type CartDraft struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	AgentRunID         *string    `gorm:"column:agent_run_id"`
	RecipeID           *string    `gorm:"column:recipe_id"`
	Servings           *int       `gorm:"column:servings"`
	PantryItemsRemoved types.JSON `gorm:"column:pantry_items_removed"`
	Policies           types.JSON `gorm:"column:policies"`
	QuoteSummary       types.JSON `gorm:"column:quote_summary"`
	CheckoutSessionID  *string    `gorm:"column:checkout_session_id"`
	CartHash           *string    `gorm:"column:cart_hash"`
	QuoteHash          *string    `gorm:"column:quote_hash"`
	CreatedAt          string     `gorm:"column:created_at"`
	UpdatedAt          string     `gorm:"column:updated_at"`
}

func (CartDraft) TableName() string {
	return "cart_drafts"
}

// CartDraftLineItem is one resolved ingredient in a draft.
type CartDraftLineItem struct {
	ID                      string     `gorm:"column:id;primaryKey"`
	CartDraftID             string     `gorm:"column:cart_draft_id"`
	IngredientKey           string     `gorm:"column:ingredient_key"`
	CanonicalIngredientJSON types.JSON `gorm:"column:canonical_ingredient_json"`
	PrimarySKUJSON          types.JSON `gorm:"column:primary_sku_json"`
	Quantity                float64    `gorm:"column:quantity"`
	Unit                    *string    `gorm:"column:unit"`
	Confidence              *float64   `gorm:"column:confidence"`
	ChosenReason            *string    `gorm:"column:chosen_reason"`
	SubstitutionPolicyJSON  types.JSON `gorm:"column:substitution_policy_json"`
	LineTotalCents          *int       `gorm:"column:line_total_cents"`
}

func (CartDraftLineItem) TableName() string {
	return "cart_draft_line_items"
}

// CartDraftAlternative is a ranked substitute SKU for a line item. Rank
// ordering is caller-assigned; ties are preserved in insertion order.
type CartDraftAlternative struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	LineItemID         string     `gorm:"column:line_item_id"`
	Rank               int        `gorm:"column:rank"`
	SKUJSON            types.JSON `gorm:"column:sku_json"`
	ScoreBreakdownJSON types.JSON `gorm:"column:score_breakdown_json"`
	Reason             *string    `gorm:"column:reason"`
	Confidence         *float64   `gorm:"column:confidence"`
}

func (CartDraftAlternative) TableName() string {
	return "cart_draft_alternatives"
}
