package controllers

import (
	"net/http"

	"github.com/dishfeed/merchant-backend/api/responses"
	"github.com/dishfeed/merchant-backend/internal/catalog"
	"github.com/dishfeed/merchant-backend/pkg/logger"
	"github.com/dishfeed/merchant-backend/pkg/types"
)

// ListProducts returns the catalog. The inventory_quantity key appears only
// when the attached catalog file carries that column.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hasInventory := svc.Capabilities().InventoryQuantity
		items := make([]map[string]any, 0, len(products))
		for _, product := range products {
			item := map[string]any{
				"id":        product.ID,
				"title":     product.Title,
				"price":     product.Price,
				"image_url": product.ImageURL,
			}
			if hasInventory {
				item["inventory_quantity"] = product.InventoryQuantity
			}
			items = append(items, item)
		}

		responses.WriteSuccess(w, map[string]any{"products": items})
	}
}

type promotionDTO struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	MinSubtotal     *int       `json:"minSubtotal"`
	EligibleItemIDs types.JSON `json:"eligibleItemIds"`
	Description     string     `json:"description"`
}

type promotionsResponse struct {
	Promotions []promotionDTO `json:"promotions"`
}

// ListPromotions returns every catalog promotion.
func ListPromotions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promotions, err := svc.ListPromotions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := promotionsResponse{Promotions: []promotionDTO{}}
		for _, promo := range promotions {
			resp.Promotions = append(resp.Promotions, promotionDTO{
				ID:              promo.ID,
				Type:            promo.Type,
				MinSubtotal:     promo.MinSubtotal,
				EligibleItemIDs: promo.EligibleItemIDs,
				Description:     promo.Description,
			})
		}

		responses.WriteSuccess(w, resp)
	}
}
