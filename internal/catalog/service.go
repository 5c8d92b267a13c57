package catalog

import (
	"context"

	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
)

// Service exposes catalog reads.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListPromotions(ctx context.Context) ([]models.Promotion, error)
	Capabilities() Capabilities
}

type service struct {
	repo *Repository
	caps Capabilities
}

// NewService builds the catalog service on the catalog store.
func NewService(client *db.Client, caps Capabilities) Service {
	return &service{repo: NewRepository(client.DB(), caps), caps: caps}
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *service) ListPromotions(ctx context.Context) ([]models.Promotion, error) {
	return s.repo.ListPromotions(ctx)
}

func (s *service) Capabilities() Capabilities {
	return s.caps
}
