package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dishfeed/merchant-backend/api/responses"
	"github.com/dishfeed/merchant-backend/api/validators"
	"github.com/dishfeed/merchant-backend/internal/checkout"
	"github.com/dishfeed/merchant-backend/pkg/logger"
	"github.com/dishfeed/merchant-backend/pkg/types"
)

type checkoutSessionRequest struct {
	ID     string     `json:"id" validate:"required"`
	Status string     `json:"status" validate:"required"`
	Data   types.JSON `json:"data,omitempty"`
}

type checkoutSessionDTO struct {
	ID     string     `json:"id"`
	Status string     `json:"status"`
	Data   types.JSON `json:"data"`
}

type checkoutSessionResponse struct {
	Checkout checkoutSessionDTO `json:"checkout"`
}

// SaveCheckoutSession saves the session document and reserves stock for its
// line items.
func SaveCheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCheckoutID(ctx, payload.ID)
		}

		if err := svc.LogRequest(ctx, r.Method, r.URL.Path, &payload.ID, payload.Data); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := svc.SaveCheckoutSession(ctx, checkout.CheckoutInput{
			ID:     payload.ID,
			Status: payload.Status,
			Data:   payload.Data,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutSessionResponse{Checkout: checkoutSessionDTO{
			ID:     session.ID,
			Status: session.Status,
			Data:   session.Data,
		}})
	}
}

// GetCheckoutSession returns the stored session document.
func GetCheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		session, err := svc.GetCheckoutSession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutSessionResponse{Checkout: checkoutSessionDTO{
			ID:     session.ID,
			Status: session.Status,
			Data:   session.Data,
		}})
	}
}

type orderRequest struct {
	ID   string     `json:"id" validate:"required"`
	Data types.JSON `json:"data,omitempty"`
}

type orderDTO struct {
	ID   string     `json:"id"`
	Data types.JSON `json:"data"`
}

type orderResponse struct {
	Order orderDTO `json:"order"`
}

// SaveOrder saves or overwrites the order document.
func SaveOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SaveOrder(r.Context(), payload.ID, payload.Data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderResponse{Order: orderDTO{ID: order.ID, Data: order.Data}})
	}
}

// GetOrder returns the stored order document.
func GetOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderResponse{Order: orderDTO{ID: order.ID, Data: order.Data}})
	}
}

type shippingRateDTO struct {
	ID           string `json:"id"`
	CountryCode  string `json:"countryCode"`
	ServiceLevel string `json:"serviceLevel"`
	Price        int    `json:"price"`
	Title        string `json:"title"`
}

type shippingRatesResponse struct {
	ShippingRates []shippingRateDTO `json:"shippingRates"`
}

// ListShippingRates returns rates for the requested country plus defaults.
func ListShippingRates(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country := r.URL.Query().Get("country")
		if country == "" {
			country = "default"
		}

		rates, err := svc.ShippingRates(r.Context(), country)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := shippingRatesResponse{ShippingRates: []shippingRateDTO{}}
		for _, rate := range rates {
			resp.ShippingRates = append(resp.ShippingRates, shippingRateDTO{
				ID:           rate.ID,
				CountryCode:  rate.CountryCode,
				ServiceLevel: rate.ServiceLevel,
				Price:        rate.Price,
				Title:        rate.Title,
			})
		}

		responses.WriteSuccess(w, resp)
	}
}

type discountDTO struct {
	Code        string `json:"code"`
	Type        string `json:"type"`
	Value       int    `json:"value"`
	Description string `json:"description"`
}

type discountsResponse struct {
	Discounts []discountDTO `json:"discounts"`
}

// ListDiscounts returns the discounts matching the comma-separated codes.
func ListDiscounts(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var codes []string
		for _, code := range strings.Split(r.URL.Query().Get("codes"), ",") {
			if trimmed := strings.TrimSpace(code); trimmed != "" {
				codes = append(codes, trimmed)
			}
		}

		discounts, err := svc.DiscountsByCodes(r.Context(), codes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := discountsResponse{Discounts: []discountDTO{}}
		for _, discount := range discounts {
			resp.Discounts = append(resp.Discounts, discountDTO{
				Code:        discount.Code,
				Type:        discount.Type.String(),
				Value:       discount.Value,
				Description: discount.Description,
			})
		}

		responses.WriteSuccess(w, resp)
	}
}

type customerAddressRequest struct {
	ID              *string `json:"id,omitempty"`
	StreetAddress   string  `json:"streetAddress" validate:"required"`
	AddressLocality string  `json:"addressLocality" validate:"required"`
	AddressRegion   string  `json:"addressRegion,omitempty"`
	PostalCode      string  `json:"postalCode" validate:"required"`
	AddressCountry  string  `json:"addressCountry" validate:"required"`
}

type customerAddressDTO struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customerId"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

type customerAddressResponse struct {
	Address customerAddressDTO `json:"address"`
}

type customerAddressListResponse struct {
	Addresses []customerAddressDTO `json:"addresses"`
}

// SaveCustomerAddress saves an address under the customer, reusing an
// existing id when the content matches.
func SaveCustomerAddress(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")

		var payload customerAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.SaveCustomerAddress(r.Context(), email, checkout.AddressInput{
			ID:              payload.ID,
			StreetAddress:   payload.StreetAddress,
			AddressLocality: payload.AddressLocality,
			AddressRegion:   payload.AddressRegion,
			PostalCode:      payload.PostalCode,
			AddressCountry:  payload.AddressCountry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customerAddressResponse{Address: customerAddressDTO{
			ID:              address.ID,
			CustomerID:      address.CustomerID,
			StreetAddress:   address.StreetAddress,
			AddressLocality: address.City,
			AddressRegion:   address.State,
			PostalCode:      address.PostalCode,
			AddressCountry:  address.Country,
		}})
	}
}

// ListCustomerAddresses returns the customer's saved addresses.
func ListCustomerAddresses(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")

		addresses, err := svc.ListCustomerAddresses(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := customerAddressListResponse{Addresses: []customerAddressDTO{}}
		for _, address := range addresses {
			resp.Addresses = append(resp.Addresses, customerAddressDTO{
				ID:              address.ID,
				CustomerID:      address.CustomerID,
				StreetAddress:   address.StreetAddress,
				AddressLocality: address.City,
				AddressRegion:   address.State,
				PostalCode:      address.PostalCode,
				AddressCountry:  address.Country,
			})
		}

		responses.WriteSuccess(w, resp)
	}
}
