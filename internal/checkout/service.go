package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dishfeed/merchant-backend/internal/inventory"
	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"github.com/dishfeed/merchant-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes checkout-session, order, shipping, discount, and customer
// address operations over the transactional store.
type Service interface {
	SaveCheckoutSession(ctx context.Context, input CheckoutInput) (*models.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error)
	SaveOrder(ctx context.Context, id string, data types.JSON) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ShippingRates(ctx context.Context, countryCode string) ([]models.ShippingRate, error)
	DiscountsByCodes(ctx context.Context, codes []string) ([]models.Discount, error)
	SaveCustomerAddress(ctx context.Context, email string, input AddressInput) (*models.CustomerAddress, error)
	ListCustomerAddresses(ctx context.Context, email string) ([]models.CustomerAddress, error)
	LogRequest(ctx context.Context, method, url string, checkoutID *string, payload types.JSON) error
}

// CheckoutInput is a full checkout-session document to save or overwrite.
type CheckoutInput struct {
	ID     string
	Status string
	Data   types.JSON
}

// AddressInput carries one shipping address.
type AddressInput struct {
	ID              *string
	StreetAddress   string
	AddressLocality string
	AddressRegion   string
	PostalCode      string
	AddressCountry  string
}

// checkoutLineItem is the slice of the opaque checkout document the
// reservation path cares about.
type checkoutLineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutDocument struct {
	LineItems []checkoutLineItem `json:"lineItems"`
}

type service struct {
	client    *db.Client
	repo      *Repository
	inventory *inventory.Repository
}

// NewService builds the checkout service on the transactional store.
func NewService(client *db.Client) Service {
	return &service{
		client:    client,
		repo:      NewRepository(client.DB()),
		inventory: inventory.NewRepository(client.DB()),
	}
}

// SaveCheckoutSession saves or overwrites the session and reserves stock for
// every line item in the document, all in one transaction. Any item the store
// cannot cover rolls the whole write back with a conflict.
func (s *service) SaveCheckoutSession(ctx context.Context, input CheckoutInput) (*models.CheckoutSession, error) {
	if input.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout id is required")
	}

	var doc checkoutDocument
	if len(input.Data) > 0 {
		if err := json.Unmarshal(input.Data, &doc); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout data must be a JSON object")
		}
	}

	session := models.CheckoutSession{
		ID:     input.ID,
		Status: input.Status,
		Data:   input.Data,
	}

	fallback := inventory.DefaultFallbackQuantity
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		inv := s.inventory.WithTx(tx)
		for _, line := range doc.LineItems {
			if line.ProductID == "" || line.Quantity <= 0 {
				continue
			}
			reserved, err := inv.Reserve(ctx, line.ProductID, line.Quantity, &fallback)
			if err != nil {
				return err
			}
			if !reserved {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for product %s", line.ProductID))
			}
		}
		return s.repo.WithTx(tx).SaveCheckout(ctx, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCheckoutSession returns the session, NotFound on unknown id.
func (s *service) GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error) {
	session, err := s.repo.FindCheckout(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	return session, nil
}

// SaveOrder saves or overwrites the order document.
func (s *service) SaveOrder(ctx context.Context, id string, data types.JSON) (*models.Order, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order := models.Order{ID: id, Data: data}
	if err := s.repo.SaveOrder(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns the order, NotFound on unknown id.
func (s *service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ShippingRates(ctx context.Context, countryCode string) ([]models.ShippingRate, error) {
	return s.repo.ListShippingRates(ctx, countryCode)
}

func (s *service) DiscountsByCodes(ctx context.Context, codes []string) ([]models.Discount, error) {
	if len(codes) == 0 {
		return []models.Discount{}, nil
	}
	return s.repo.ListDiscountsByCodes(ctx, codes)
}

// SaveCustomerAddress saves the address under the customer with the email,
// creating the customer when missing. An existing address with identical
// content is reused instead of duplicated.
func (s *service) SaveCustomerAddress(ctx context.Context, email string, input AddressInput) (*models.CustomerAddress, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	var saved *models.CustomerAddress
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := repo.FindCustomerByEmail(ctx, email)
		if err != nil {
			return err
		}
		if customer == nil {
			customer = &models.Customer{
				ID:    uuid.NewString(),
				Name:  "Unknown",
				Email: email,
			}
			if err := repo.CreateCustomer(ctx, customer); err != nil {
				return err
			}
		}

		candidate := models.CustomerAddress{
			CustomerID:    customer.ID,
			StreetAddress: input.StreetAddress,
			City:          input.AddressLocality,
			State:         input.AddressRegion,
			PostalCode:    input.PostalCode,
			Country:       input.AddressCountry,
		}

		existing, err := repo.FindMatchingAddress(ctx, customer.ID, candidate)
		if err != nil {
			return err
		}
		if existing != nil {
			saved = existing
			return nil
		}

		candidate.ID = uuid.NewString()
		if input.ID != nil && *input.ID != "" {
			candidate.ID = *input.ID
		}
		if err := repo.CreateAddress(ctx, &candidate); err != nil {
			return err
		}
		saved = &candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListCustomerAddresses returns the customer's addresses, empty when the
// email is unknown.
func (s *service) ListCustomerAddresses(ctx context.Context, email string) ([]models.CustomerAddress, error) {
	customer, err := s.repo.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return []models.CustomerAddress{}, nil
	}
	return s.repo.ListAddresses(ctx, customer.ID)
}

// LogRequest appends one request trace row outside any caller transaction.
func (s *service) LogRequest(ctx context.Context, method, url string, checkoutID *string, payload types.JSON) error {
	entry := models.RequestLog{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Method:     method,
		URL:        url,
		CheckoutID: checkoutID,
		Payload:    payload,
	}
	return s.repo.CreateRequestLog(ctx, &entry)
}
