package cartdrafts

import (
	"context"
	"errors"

	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository persists the cart-draft graph: drafts, line items, alternatives.
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

// FindByID loads a draft, nil when absent.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.CartDraft, error) {
	var draft models.CartDraft
	err := r.db.WithContext(ctx).First(&draft, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart draft")
	}
	return &draft, nil
}

// Create inserts a new draft row.
func (r *Repository) Create(ctx context.Context, draft *models.CartDraft) error {
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart draft")
	}
	return nil
}

// Save writes all columns of an existing draft row.
func (r *Repository) Save(ctx context.Context, draft *models.CartDraft) error {
	if err := r.db.WithContext(ctx).Save(draft).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart draft")
	}
	return nil
}

// ListLineItems returns the draft's current line items.
func (r *Repository) ListLineItems(ctx context.Context, draftID string) ([]models.CartDraftLineItem, error) {
	var items []models.CartDraftLineItem
	err := r.db.WithContext(ctx).
		Where("cart_draft_id = ?", draftID).
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing line items")
	}
	return items, nil
}

// ListAlternatives returns a line item's current alternatives.
func (r *Repository) ListAlternatives(ctx context.Context, lineItemID string) ([]models.CartDraftAlternative, error) {
	var alts []models.CartDraftAlternative
	err := r.db.WithContext(ctx).
		Where("line_item_id = ?", lineItemID).
		Find(&alts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing alternatives")
	}
	return alts, nil
}

// DeleteChildren removes every line item of the draft and every alternative
// hanging off those items. Callers run this inside the replacement
// transaction.
func (r *Repository) DeleteChildren(ctx context.Context, draftID string) error {
	tx := r.db.WithContext(ctx)

	var itemIDs []string
	if err := tx.Model(&models.CartDraftLineItem{}).
		Where("cart_draft_id = ?", draftID).
		Pluck("id", &itemIDs).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collecting line item ids")
	}

	if len(itemIDs) > 0 {
		if err := tx.Where("line_item_id IN ?", itemIDs).
			Delete(&models.CartDraftAlternative{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting alternatives")
		}
	}

	if err := tx.Where("cart_draft_id = ?", draftID).
		Delete(&models.CartDraftLineItem{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting line items")
	}
	return nil
}

// CreateLineItem inserts one replacement line item.
func (r *Repository) CreateLineItem(ctx context.Context, item *models.CartDraftLineItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating line item")
	}
	return nil
}

// CreateAlternatives inserts a line item's replacement alternatives.
func (r *Repository) CreateAlternatives(ctx context.Context, alts []models.CartDraftAlternative) error {
	if len(alts) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&alts).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating alternatives")
	}
	return nil
}
