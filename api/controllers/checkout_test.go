package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dishfeed/merchant-backend/internal/checkout"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	"github.com/dishfeed/merchant-backend/pkg/enums"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/dishfeed/merchant-backend/pkg/types"
)

type stubCheckoutService struct {
	session    *models.CheckoutSession
	order      *models.Order
	rates      []models.ShippingRate
	discounts  []models.Discount
	address    *models.CustomerAddress
	addresses  []models.CustomerAddress
	err        error
	lastID     string
	lastEmail  string
	lastCodes  []string
	loggedPath string
}

func (s *stubCheckoutService) SaveCheckoutSession(ctx context.Context, input checkout.CheckoutInput) (*models.CheckoutSession, error) {
	s.lastID = input.ID
	return s.session, s.err
}

func (s *stubCheckoutService) GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error) {
	s.lastID = id
	return s.session, s.err
}

func (s *stubCheckoutService) SaveOrder(ctx context.Context, id string, data types.JSON) (*models.Order, error) {
	s.lastID = id
	return s.order, s.err
}

func (s *stubCheckoutService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.lastID = id
	return s.order, s.err
}

func (s *stubCheckoutService) ShippingRates(ctx context.Context, countryCode string) ([]models.ShippingRate, error) {
	s.lastID = countryCode
	return s.rates, s.err
}

func (s *stubCheckoutService) DiscountsByCodes(ctx context.Context, codes []string) ([]models.Discount, error) {
	s.lastCodes = codes
	return s.discounts, s.err
}

func (s *stubCheckoutService) SaveCustomerAddress(ctx context.Context, email string, input checkout.AddressInput) (*models.CustomerAddress, error) {
	s.lastEmail = email
	return s.address, s.err
}

func (s *stubCheckoutService) ListCustomerAddresses(ctx context.Context, email string) ([]models.CustomerAddress, error) {
	s.lastEmail = email
	return s.addresses, s.err
}

func (s *stubCheckoutService) LogRequest(ctx context.Context, method, url string, checkoutID *string, payload types.JSON) error {
	s.loggedPath = url
	return nil
}

func TestSaveCheckoutSessionSuccess(t *testing.T) {
	session := &models.CheckoutSession{
		ID:     "chk-1",
		Status: "pending",
		Data:   types.JSON(`{"lineItems":[]}`),
	}
	service := &stubCheckoutService{session: session}
	handler := SaveCheckoutSession(service, nil)

	body := `{"id":"chk-1","status":"pending","data":{"lineItems":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/checkout-sessions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.loggedPath != "/checkout-sessions" {
		t.Fatalf("request not logged, got %q", service.loggedPath)
	}

	var payload struct {
		Checkout struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"checkout"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Checkout.ID != "chk-1" || payload.Checkout.Status != "pending" {
		t.Fatalf("unexpected checkout: %+v", payload.Checkout)
	}
}

func TestSaveCheckoutSessionRequiresID(t *testing.T) {
	handler := SaveCheckoutSession(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/checkout-sessions", strings.NewReader(`{"status":"pending"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSaveCheckoutSessionInsufficientStock(t *testing.T) {
	service := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for product prod-1")}
	handler := SaveCheckoutSession(service, nil)

	body := `{"id":"chk-1","status":"pending","data":{"lineItems":[{"productId":"prod-1","quantity":999}]}}`
	req := httptest.NewRequest(http.MethodPost, "/checkout-sessions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestGetCheckoutSessionNotFound(t *testing.T) {
	service := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")}

	router := chi.NewRouter()
	router.Get("/checkout-sessions/{id}", GetCheckoutSession(service, nil))

	req := httptest.NewRequest(http.MethodGet, "/checkout-sessions/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if service.lastID != "missing" {
		t.Fatalf("id not forwarded: %s", service.lastID)
	}
}

func TestSaveOrderSuccess(t *testing.T) {
	order := &models.Order{ID: "order-1", Data: types.JSON(`{"total":4250}`)}
	handler := SaveOrder(&stubCheckoutService{order: order}, nil)

	body := `{"id":"order-1","data":{"total":4250}}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"order"`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestListShippingRatesDefaultsCountry(t *testing.T) {
	service := &stubCheckoutService{
		rates: []models.ShippingRate{
			{ID: "rate-default", CountryCode: "default", ServiceLevel: "standard", Price: 799, Title: "Standard"},
		},
	}
	handler := ListShippingRates(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/shipping-rates", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastID != "default" {
		t.Fatalf("expected default country, got %q", service.lastID)
	}

	var payload struct {
		ShippingRates []struct {
			ID    string `json:"id"`
			Price int    `json:"price"`
		} `json:"shippingRates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.ShippingRates) != 1 || payload.ShippingRates[0].Price != 799 {
		t.Fatalf("unexpected rates: %+v", payload.ShippingRates)
	}
}

func TestListDiscountsParsesCodes(t *testing.T) {
	service := &stubCheckoutService{
		discounts: []models.Discount{
			{Code: "SAVE10", Type: enums.DiscountTypePercentage, Value: 10, Description: "10% off"},
		},
	}
	handler := ListDiscounts(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/discounts?codes=SAVE10,%20FREESHIP", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(service.lastCodes) != 2 || service.lastCodes[0] != "SAVE10" || service.lastCodes[1] != "FREESHIP" {
		t.Fatalf("codes not parsed: %v", service.lastCodes)
	}

	var payload struct {
		Discounts []struct {
			Code string `json:"code"`
			Type string `json:"type"`
		} `json:"discounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Discounts) != 1 || payload.Discounts[0].Type != "percentage" {
		t.Fatalf("unexpected discounts: %+v", payload.Discounts)
	}
}

func TestSaveCustomerAddressSuccess(t *testing.T) {
	address := &models.CustomerAddress{
		ID:            "addr-1",
		CustomerID:    "cust-1",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62701",
		Country:       "US",
	}
	service := &stubCheckoutService{address: address}

	router := chi.NewRouter()
	router.Post("/customers/{email}/addresses", SaveCustomerAddress(service, nil))

	body := `{"streetAddress":"1 Main St","addressLocality":"Springfield","addressRegion":"IL","postalCode":"62701","addressCountry":"US"}`
	req := httptest.NewRequest(http.MethodPost, "/customers/jane@example.test/addresses", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastEmail != "jane@example.test" {
		t.Fatalf("email not forwarded: %s", service.lastEmail)
	}

	var payload struct {
		Address struct {
			ID              string `json:"id"`
			AddressLocality string `json:"addressLocality"`
			AddressRegion   string `json:"addressRegion"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Address.AddressLocality != "Springfield" || payload.Address.AddressRegion != "IL" {
		t.Fatalf("unexpected address: %+v", payload.Address)
	}
}

func TestSaveCustomerAddressRequiresStreet(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/customers/{email}/addresses", SaveCustomerAddress(&stubCheckoutService{}, nil))

	body := `{"addressLocality":"Springfield","postalCode":"62701","addressCountry":"US"}`
	req := httptest.NewRequest(http.MethodPost, "/customers/jane@example.test/addresses", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListCustomerAddressesEmpty(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/customers/{email}/addresses", ListCustomerAddresses(&stubCheckoutService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/customers/nobody@example.test/addresses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"addresses":[]`) {
		t.Fatalf("expected empty addresses array, got %s", resp.Body.String())
	}
}
