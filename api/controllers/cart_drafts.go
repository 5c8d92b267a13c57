package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dishfeed/merchant-backend/api/responses"
	"github.com/dishfeed/merchant-backend/api/validators"
	"github.com/dishfeed/merchant-backend/internal/cartdrafts"
	"github.com/dishfeed/merchant-backend/pkg/logger"
	"github.com/dishfeed/merchant-backend/pkg/types"
)

type cartDraftFields struct {
	ID                 *string    `json:"id,omitempty"`
	AgentRunID         *string    `json:"agentRunId,omitempty"`
	RecipeID           *string    `json:"recipeId,omitempty"`
	Servings           *int       `json:"servings,omitempty"`
	PantryItemsRemoved types.JSON `json:"pantryItemsRemoved,omitempty"`
	Policies           types.JSON `json:"policies,omitempty"`
	QuoteSummary       types.JSON `json:"quoteSummary,omitempty"`
	CheckoutSessionID  *string    `json:"checkoutSessionId,omitempty"`
	CartHash           *string    `json:"cartHash,omitempty"`
	QuoteHash          *string    `json:"quoteHash,omitempty"`
	CreatedAt          *string    `json:"createdAt,omitempty"`
	UpdatedAt          *string    `json:"updatedAt,omitempty"`
}

func (p cartDraftFields) toFields() cartdrafts.DraftFields {
	return cartdrafts.DraftFields{
		AgentRunID:         p.AgentRunID,
		RecipeID:           p.RecipeID,
		Servings:           p.Servings,
		PantryItemsRemoved: p.PantryItemsRemoved,
		Policies:           p.Policies,
		QuoteSummary:       p.QuoteSummary,
		CheckoutSessionID:  p.CheckoutSessionID,
		CartHash:           p.CartHash,
		QuoteHash:          p.QuoteHash,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type cartAlternativeRequest struct {
	ID                 *string    `json:"id,omitempty"`
	Rank               int        `json:"rank"`
	SKUJSON            types.JSON `json:"skuJson,omitempty"`
	ScoreBreakdownJSON types.JSON `json:"scoreBreakdownJson,omitempty"`
	Reason             *string    `json:"reason,omitempty"`
	Confidence         *float64   `json:"confidence,omitempty"`
}

type cartLineItemRequest struct {
	ID                      *string                  `json:"id,omitempty"`
	IngredientKey           string                   `json:"ingredientKey" validate:"required"`
	CanonicalIngredientJSON types.JSON               `json:"canonicalIngredientJson,omitempty"`
	PrimarySKUJSON          types.JSON               `json:"primarySkuJson,omitempty"`
	Quantity                float64                  `json:"quantity"`
	Unit                    *string                  `json:"unit,omitempty"`
	Confidence              *float64                 `json:"confidence,omitempty"`
	ChosenReason            *string                  `json:"chosenReason,omitempty"`
	SubstitutionPolicyJSON  types.JSON               `json:"substitutionPolicyJson,omitempty"`
	LineTotalCents          *int                     `json:"lineTotalCents,omitempty"`
	Alternatives            []cartAlternativeRequest `json:"alternatives,omitempty"`
}

type cartDraftUpsertRequest struct {
	Cart      cartDraftFields       `json:"cart"`
	LineItems []cartLineItemRequest `json:"lineItems,omitempty" validate:"dive"`
}

func (p cartDraftUpsertRequest) toInput() cartdrafts.UpsertInput {
	input := cartdrafts.UpsertInput{
		ID:   p.Cart.ID,
		Cart: p.Cart.toFields(),
	}
	for _, line := range p.LineItems {
		item := cartdrafts.LineItemInput{
			ID:                      line.ID,
			IngredientKey:           line.IngredientKey,
			CanonicalIngredientJSON: line.CanonicalIngredientJSON,
			PrimarySKUJSON:          line.PrimarySKUJSON,
			Quantity:                line.Quantity,
			Unit:                    line.Unit,
			Confidence:              line.Confidence,
			ChosenReason:            line.ChosenReason,
			SubstitutionPolicyJSON:  line.SubstitutionPolicyJSON,
			LineTotalCents:          line.LineTotalCents,
		}
		for _, alt := range line.Alternatives {
			item.Alternatives = append(item.Alternatives, cartdrafts.AlternativeInput{
				ID:                 alt.ID,
				Rank:               alt.Rank,
				SKUJSON:            alt.SKUJSON,
				ScoreBreakdownJSON: alt.ScoreBreakdownJSON,
				Reason:             alt.Reason,
				Confidence:         alt.Confidence,
			})
		}
		input.LineItems = append(input.LineItems, item)
	}
	return input
}

type cartDraftDTO struct {
	ID                 string     `json:"id"`
	AgentRunID         *string    `json:"agentRunId"`
	RecipeID           *string    `json:"recipeId"`
	Servings           *int       `json:"servings"`
	PantryItemsRemoved types.JSON `json:"pantryItemsRemoved"`
	Policies           types.JSON `json:"policies"`
	QuoteSummary       types.JSON `json:"quoteSummary"`
	CheckoutSessionID  *string    `json:"checkoutSessionId"`
	CartHash           *string    `json:"cartHash"`
	QuoteHash          *string    `json:"quoteHash"`
	CreatedAt          string     `json:"createdAt"`
	UpdatedAt          string     `json:"updatedAt"`
}

type cartAlternativeDTO struct {
	ID                 string     `json:"id"`
	LineItemID         string     `json:"lineItemId"`
	Rank               int        `json:"rank"`
	SKUJSON            types.JSON `json:"skuJson"`
	ScoreBreakdownJSON types.JSON `json:"scoreBreakdownJson"`
	Reason             *string    `json:"reason"`
	Confidence         *float64   `json:"confidence"`
}

type cartLineItemDTO struct {
	ID                      string               `json:"id"`
	CartDraftID             string               `json:"cartDraftId"`
	IngredientKey           string               `json:"ingredientKey"`
	CanonicalIngredientJSON types.JSON           `json:"canonicalIngredientJson"`
	PrimarySKUJSON          types.JSON           `json:"primarySkuJson"`
	Quantity                float64              `json:"quantity"`
	Unit                    *string              `json:"unit"`
	Confidence              *float64             `json:"confidence"`
	ChosenReason            *string              `json:"chosenReason"`
	SubstitutionPolicyJSON  types.JSON           `json:"substitutionPolicyJson"`
	LineTotalCents          *int                 `json:"lineTotalCents"`
	Alternatives            []cartAlternativeDTO `json:"alternatives"`
}

type cartDraftResponse struct {
	Cart      cartDraftDTO      `json:"cart"`
	LineItems []cartLineItemDTO `json:"lineItems"`
}

func toCartDraftResponse(graph *cartdrafts.DraftGraph) cartDraftResponse {
	resp := cartDraftResponse{
		Cart: cartDraftDTO{
			ID:                 graph.Draft.ID,
			AgentRunID:         graph.Draft.AgentRunID,
			RecipeID:           graph.Draft.RecipeID,
			Servings:           graph.Draft.Servings,
			PantryItemsRemoved: graph.Draft.PantryItemsRemoved,
			Policies:           graph.Draft.Policies,
			QuoteSummary:       graph.Draft.QuoteSummary,
			CheckoutSessionID:  graph.Draft.CheckoutSessionID,
			CartHash:           graph.Draft.CartHash,
			QuoteHash:          graph.Draft.QuoteHash,
			CreatedAt:          graph.Draft.CreatedAt,
			UpdatedAt:          graph.Draft.UpdatedAt,
		},
		LineItems: []cartLineItemDTO{},
	}

	for _, line := range graph.LineItems {
		dto := cartLineItemDTO{
			ID:                      line.Item.ID,
			CartDraftID:             line.Item.CartDraftID,
			IngredientKey:           line.Item.IngredientKey,
			CanonicalIngredientJSON: line.Item.CanonicalIngredientJSON,
			PrimarySKUJSON:          line.Item.PrimarySKUJSON,
			Quantity:                line.Item.Quantity,
			Unit:                    line.Item.Unit,
			Confidence:              line.Item.Confidence,
			ChosenReason:            line.Item.ChosenReason,
			SubstitutionPolicyJSON:  line.Item.SubstitutionPolicyJSON,
			LineTotalCents:          line.Item.LineTotalCents,
			Alternatives:            []cartAlternativeDTO{},
		}
		for _, alt := range line.Alternatives {
			dto.Alternatives = append(dto.Alternatives, cartAlternativeDTO{
				ID:                 alt.ID,
				LineItemID:         alt.LineItemID,
				Rank:               alt.Rank,
				SKUJSON:            alt.SKUJSON,
				ScoreBreakdownJSON: alt.ScoreBreakdownJSON,
				Reason:             alt.Reason,
				Confidence:         alt.Confidence,
			})
		}
		resp.LineItems = append(resp.LineItems, dto)
	}
	return resp
}

// UpsertCartDraft creates or merge-patches the draft and replaces its child
// subtree with the supplied line items.
func UpsertCartDraft(svc cartdrafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartDraftUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		graph, err := svc.Upsert(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartDraftResponse(graph))
	}
}

// PatchCartDraft merge-patches the draft record only; children are untouched.
func PatchCartDraft(svc cartdrafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "id")

		var payload cartDraftFields
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		graph, err := svc.Patch(r.Context(), draftID, payload.toFields())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartDraftResponse(graph))
	}
}

// GetCartDraft returns the draft with its full child graph.
func GetCartDraft(svc cartdrafts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "id")

		graph, err := svc.Get(r.Context(), draftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartDraftResponse(graph))
	}
}
