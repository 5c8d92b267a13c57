package checkout

import (
	"context"
	"errors"

	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	pkgerrors "github.com/dishfeed/merchant-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository reads and writes the transactional store's checkout-side tables.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindCheckout returns nil when the id is unknown.
func (r *Repository) FindCheckout(ctx context.Context, id string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	return &session, nil
}

// SaveCheckout creates or fully overwrites a checkout session.
func (r *Repository) SaveCheckout(ctx context.Context, session *models.CheckoutSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return nil
}

// FindOrder returns nil when the id is unknown.
func (r *Repository) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return &order, nil
}

// SaveOrder creates or fully overwrites an order.
func (r *Repository) SaveOrder(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order")
	}
	return nil
}

// ListShippingRates returns rates for the country plus the "default" bucket.
func (r *Repository) ListShippingRates(ctx context.Context, countryCode string) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("country_code IN ?", []string{countryCode, "default"}).
		Find(&rates).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shipping rates")
	}
	return rates, nil
}

// ListDiscountsByCodes returns the discounts matching any of the codes.
func (r *Repository) ListDiscountsByCodes(ctx context.Context, codes []string) ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&discounts).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading discounts")
	}
	return discounts, nil
}

// FindCustomerByEmail returns nil when no customer has the email.
func (r *Repository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}
	return &customer, nil
}

func (r *Repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer")
	}
	return nil
}

// FindMatchingAddress looks for an address of the customer whose content
// matches field for field. Returns nil when none does.
func (r *Repository) FindMatchingAddress(ctx context.Context, customerID string, address models.CustomerAddress) (*models.CustomerAddress, error) {
	var existing models.CustomerAddress
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Where("street_address = ?", address.StreetAddress).
		Where("city = ?", address.City).
		Where("state = ?", address.State).
		Where("postal_code = ?", address.PostalCode).
		Where("country = ?", address.Country).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "matching customer address")
	}
	return &existing, nil
}

func (r *Repository) CreateAddress(ctx context.Context, address *models.CustomerAddress) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer address")
	}
	return nil
}

// ListAddresses returns the customer's saved addresses.
func (r *Repository) ListAddresses(ctx context.Context, customerID string) ([]models.CustomerAddress, error) {
	var addresses []models.CustomerAddress
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Find(&addresses).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customer addresses")
	}
	return addresses, nil
}

// CreateRequestLog appends one request trace row.
func (r *Repository) CreateRequestLog(ctx context.Context, entry *models.RequestLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "logging request")
	}
	return nil
}

// CreateIdempotencyRecord persists a replayable response for a key. A
// concurrent insert of the same key already stored an identical response, so
// the unique violation is swallowed.
func (r *Repository) CreateIdempotencyRecord(ctx context.Context, record *models.IdempotencyRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if db.IsUniqueViolation(err, "key") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving idempotency record")
	}
	return nil
}

// FindIdempotencyRecord returns nil when the key has not been seen.
func (r *Repository) FindIdempotencyRecord(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	var record models.IdempotencyRecord
	err := r.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading idempotency record")
	}
	return &record, nil
}
