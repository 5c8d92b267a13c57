package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	client, err := db.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seedLegacySchema(t *testing.T, client *db.Client) {
	t.Helper()
	require.NoError(t, client.DB().Exec(
		`CREATE TABLE products (id TEXT PRIMARY KEY, title TEXT, price INTEGER, image_url TEXT)`,
	).Error)
}

func seedModernSchema(t *testing.T, client *db.Client) {
	t.Helper()
	require.NoError(t, client.DB().Exec(
		`CREATE TABLE products (id TEXT PRIMARY KEY, title TEXT, price INTEGER, image_url TEXT, inventory_quantity INTEGER)`,
	).Error)
}

func TestProbeCapabilitiesDetectsInventoryColumn(t *testing.T) {
	client := newTestClient(t)
	seedModernSchema(t, client)

	caps, err := ProbeCapabilities(context.Background(), client.DB())
	require.NoError(t, err)
	assert.True(t, caps.InventoryQuantity)
}

func TestProbeCapabilitiesLegacySchema(t *testing.T) {
	client := newTestClient(t)
	seedLegacySchema(t, client)

	caps, err := ProbeCapabilities(context.Background(), client.DB())
	require.NoError(t, err)
	assert.False(t, caps.InventoryQuantity)
}

func TestEnsureSchemaCreatesMissingTables(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, EnsureSchema(ctx, client.DB()))
	assert.True(t, client.DB().Migrator().HasTable(&models.Product{}))
	assert.True(t, client.DB().Migrator().HasTable(&models.Promotion{}))
}

func TestEnsureSchemaLeavesLegacyTableAlone(t *testing.T) {
	client := newTestClient(t)
	seedLegacySchema(t, client)
	ctx := context.Background()

	require.NoError(t, EnsureSchema(ctx, client.DB()))

	caps, err := ProbeCapabilities(ctx, client.DB())
	require.NoError(t, err)
	assert.False(t, caps.InventoryQuantity)
}

func TestListProductsLegacySchemaOmitsInventory(t *testing.T) {
	client := newTestClient(t)
	seedLegacySchema(t, client)
	ctx := context.Background()

	require.NoError(t, client.DB().Exec(
		`INSERT INTO products (id, title, price, image_url) VALUES ('prod-1', 'Basil', 249, NULL)`,
	).Error)

	caps, err := ProbeCapabilities(ctx, client.DB())
	require.NoError(t, err)
	svc := NewService(client, caps)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod-1", products[0].ID)
	assert.Nil(t, products[0].InventoryQuantity)
}

func TestListProductsModernSchemaIncludesInventory(t *testing.T) {
	client := newTestClient(t)
	seedModernSchema(t, client)
	ctx := context.Background()

	require.NoError(t, client.DB().Exec(
		`INSERT INTO products (id, title, price, image_url, inventory_quantity)
		 VALUES ('prod-2', 'Olive Oil', 899, NULL, 42)`,
	).Error)

	caps, err := ProbeCapabilities(ctx, client.DB())
	require.NoError(t, err)
	svc := NewService(client, caps)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].InventoryQuantity)
	assert.Equal(t, 42, *products[0].InventoryQuantity)
}

func TestListProductsReturnsAllRows(t *testing.T) {
	client := newTestClient(t)
	seedModernSchema(t, client)
	ctx := context.Background()

	require.NoError(t, client.DB().Exec(
		`INSERT INTO products (id, title, price, image_url, inventory_quantity) VALUES
		 ('p1', 'Zucchini', 150, NULL, 5),
		 ('p2', 'Apples', 300, NULL, 9)`,
	).Error)

	caps, err := ProbeCapabilities(ctx, client.DB())
	require.NoError(t, err)
	svc := NewService(client, caps)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	titles := []string{products[0].Title, products[1].Title}
	assert.ElementsMatch(t, []string{"Apples", "Zucchini"}, titles)
}

func TestListPromotions(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, client.DB()))

	promo := models.Promotion{
		ID:          "promo-1",
		Type:        "percentage",
		Description: "10% off produce",
	}
	require.NoError(t, client.DB().Create(&promo).Error)

	svc := NewService(client, Capabilities{})
	promotions, err := svc.ListPromotions(ctx)
	require.NoError(t, err)
	require.Len(t, promotions, 1)
	assert.Equal(t, "promo-1", promotions[0].ID)
}
