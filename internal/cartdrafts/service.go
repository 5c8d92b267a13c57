package cartdrafts

import (
	"context"
	"time"

	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/dishfeed/merchant-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes cart-draft graph operations.
type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*DraftGraph, error)
	Patch(ctx context.Context, id string, fields DraftFields) (*DraftGraph, error)
	Get(ctx context.Context, id string) (*DraftGraph, error)
}

// DraftFields carries merge-patch values for the draft itself. Nil fields are
// absent and leave the stored value untouched.
type DraftFields struct {
	AgentRunID         *string
	RecipeID           *string
	Servings           *int
	PantryItemsRemoved types.JSON
	Policies           types.JSON
	QuoteSummary       types.JSON
	CheckoutSessionID  *string
	CartHash           *string
	QuoteHash          *string
	CreatedAt          *string
	UpdatedAt          *string
}

// AlternativeInput is one replacement alternative for a line item.
type AlternativeInput struct {
	ID                 *string
	Rank               int
	SKUJSON            types.JSON
	ScoreBreakdownJSON types.JSON
	Reason             *string
	Confidence         *float64
}

// LineItemInput is one replacement line item with its alternatives.
type LineItemInput struct {
	ID                      *string
	IngredientKey           string
	CanonicalIngredientJSON types.JSON
	PrimarySKUJSON          types.JSON
	Quantity                float64
	Unit                    *string
	Confidence              *float64
	ChosenReason            *string
	SubstitutionPolicyJSON  types.JSON
	LineTotalCents          *int
	Alternatives            []AlternativeInput
}

// UpsertInput is the full upsert payload: draft fields plus the complete
// replacement subtree.
type UpsertInput struct {
	ID        *string
	Cart      DraftFields
	LineItems []LineItemInput
}

// LineItemGraph pairs a persisted line item with its alternatives.
type LineItemGraph struct {
	Item         models.CartDraftLineItem
	Alternatives []models.CartDraftAlternative
}

// DraftGraph is the authoritative post-state of a draft and its children.
type DraftGraph struct {
	Draft     models.CartDraft
	LineItems []LineItemGraph
}

type service struct {
	client *db.Client
	repo   *Repository
}

// NewService builds the cart-draft service on the transactional store.
func NewService(client *db.Client) Service {
	return &service{client: client, repo: NewRepository(client.DB())}
}

// Upsert creates or merge-patches the draft and replaces its entire child
// subtree in one transaction, then re-reads the persisted graph.
func (s *service) Upsert(ctx context.Context, input UpsertInput) (*DraftGraph, error) {
	draftID := valueOr(input.ID, uuid.NewString())
	now := nowISO()

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByID(ctx, draftID)
		if err != nil {
			return err
		}

		if existing != nil {
			applyDraftFields(existing, input.Cart)
			existing.UpdatedAt = valueOr(input.Cart.UpdatedAt, now)
			if err := repo.Save(ctx, existing); err != nil {
				return err
			}
		} else {
			draft := models.CartDraft{
				ID:                 draftID,
				AgentRunID:         input.Cart.AgentRunID,
				RecipeID:           input.Cart.RecipeID,
				Servings:           input.Cart.Servings,
				PantryItemsRemoved: input.Cart.PantryItemsRemoved,
				Policies:           input.Cart.Policies,
				QuoteSummary:       input.Cart.QuoteSummary,
				CheckoutSessionID:  input.Cart.CheckoutSessionID,
				CartHash:           input.Cart.CartHash,
				QuoteHash:          input.Cart.QuoteHash,
				CreatedAt:          valueOr(input.Cart.CreatedAt, now),
				UpdatedAt:          valueOr(input.Cart.UpdatedAt, now),
			}
			if err := repo.Create(ctx, &draft); err != nil {
				return err
			}
		}

		return replaceChildren(ctx, repo, draftID, input.LineItems)
	})
	if err != nil {
		return nil, err
	}

	return s.loadGraph(ctx, draftID)
}

// Patch merge-patches draft fields only; children are left alone.
func (s *service) Patch(ctx context.Context, id string, fields DraftFields) (*DraftGraph, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart draft not found")
	}

	applyDraftFields(existing, fields)
	existing.UpdatedAt = valueOr(fields.UpdatedAt, nowISO())
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}

	return s.loadGraph(ctx, id)
}

// Get returns the full graph, NotFound on unknown id.
func (s *service) Get(ctx context.Context, id string) (*DraftGraph, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart draft not found")
	}
	return s.loadGraph(ctx, id)
}

func replaceChildren(ctx context.Context, repo *Repository, draftID string, items []LineItemInput) error {
	if err := repo.DeleteChildren(ctx, draftID); err != nil {
		return err
	}

	for _, line := range items {
		itemID := valueOr(line.ID, uuid.NewString())
		record := models.CartDraftLineItem{
			ID:                      itemID,
			CartDraftID:             draftID,
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
		if err := repo.CreateLineItem(ctx, &record); err != nil {
			return err
		}

		alts := make([]models.CartDraftAlternative, 0, len(line.Alternatives))
		for _, alt := range line.Alternatives {
			alts = append(alts, models.CartDraftAlternative{
				ID:                 valueOr(alt.ID, uuid.NewString()),
				LineItemID:         itemID,
				Rank:               alt.Rank,
				SKUJSON:            alt.SKUJSON,
				ScoreBreakdownJSON: alt.ScoreBreakdownJSON,
				Reason:             alt.Reason,
				Confidence:         alt.Confidence,
			})
		}
		if err := repo.CreateAlternatives(ctx, alts); err != nil {
			return err
		}
	}
	return nil
}

// loadGraph re-reads the persisted state so responses reflect storage, not
// the request payload.
func (s *service) loadGraph(ctx context.Context, draftID string) (*DraftGraph, error) {
	draft, err := s.repo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart draft not found")
	}

	items, err := s.repo.ListLineItems(ctx, draftID)
	if err != nil {
		return nil, err
	}

	graph := &DraftGraph{Draft: *draft, LineItems: make([]LineItemGraph, 0, len(items))}
	for _, item := range items {
		alts, err := s.repo.ListAlternatives(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		graph.LineItems = append(graph.LineItems, LineItemGraph{Item: item, Alternatives: alts})
	}
	return graph, nil
}

func applyDraftFields(draft *models.CartDraft, fields DraftFields) {
	if fields.AgentRunID != nil {
		draft.AgentRunID = fields.AgentRunID
	}
	if fields.RecipeID != nil {
		draft.RecipeID = fields.RecipeID
	}
	if fields.Servings != nil {
		draft.Servings = fields.Servings
	}
	if fields.PantryItemsRemoved != nil {
		draft.PantryItemsRemoved = fields.PantryItemsRemoved
	}
	if fields.Policies != nil {
		draft.Policies = fields.Policies
	}
	if fields.QuoteSummary != nil {
		draft.QuoteSummary = fields.QuoteSummary
	}
	if fields.CheckoutSessionID != nil {
		draft.CheckoutSessionID = fields.CheckoutSessionID
	}
	if fields.CartHash != nil {
		draft.CartHash = fields.CartHash
	}
	if fields.QuoteHash != nil {
		draft.QuoteHash = fields.QuoteHash
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
