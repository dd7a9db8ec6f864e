package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/juicejoy/juicejoy-backend/internal/orders"
	"github.com/juicejoy/juicejoy-backend/internal/realtime"
	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/logger"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  ingredients TEXT NOT NULL DEFAULT '{}',
  benefits TEXT NOT NULL DEFAULT '{}',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newCatalogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, category enums.ProductCategory, priceCents int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Category:   category,
		IsActive:   active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListMenuReturnsOnlyActiveProducts(t *testing.T) {
	svc, db := newCatalogService(t)
	seedProduct(t, db, "Green Machine", enums.ProductCategoryGreen, 799, true)
	seedProduct(t, db, "Retired Blend", enums.ProductCategoryFruit, 699, false)

	menu, err := svc.ListMenu(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, menu, 1)
	assert.Equal(t, "Green Machine", menu[0].Name)
}

func TestListMenuFiltersByCategory(t *testing.T) {
	svc, db := newCatalogService(t)
	seedProduct(t, db, "Green Machine", enums.ProductCategoryGreen, 799, true)
	seedProduct(t, db, "Berry Blast", enums.ProductCategoryBerry, 849, true)

	category := enums.ProductCategoryBerry
	menu, err := svc.ListMenu(context.Background(), &category)
	require.NoError(t, err)

	require.Len(t, menu, 1)
	assert.Equal(t, "Berry Blast", menu[0].Name)
}

func TestListMenuRejectsUnknownCategory(t *testing.T) {
	svc, _ := newCatalogService(t)

	category := enums.ProductCategory("slush")
	_, err := svc.ListMenu(context.Background(), &category)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateProductValidatesInput(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "  ",
		PriceCents: 799,
		Category:   enums.ProductCategoryGreen,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Green Machine",
		PriceCents: 0,
		Category:   enums.ProductCategoryGreen,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "Green Machine",
		Description: "Kale, spinach, apple",
		PriceCents:  799,
		Category:    enums.ProductCategoryGreen,
		Ingredients: []string{"kale", "spinach", "apple"},
		Benefits:    []string{"immunity"},
		IsActive:    true,
	})
	require.NoError(t, err)

	fetched, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Machine", fetched.Name)
	assert.Equal(t, 799, fetched.PriceCents)
	assert.Equal(t, []string{"kale", "spinach", "apple"}, fetched.Ingredients)
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	svc, db := newCatalogService(t)
	product := seedProduct(t, db, "Green Machine", enums.ProductCategoryGreen, 799, true)

	newPrice := 899
	inactive := false
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		PriceCents: &newPrice,
		IsActive:   &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, 899, updated.PriceCents)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Green Machine", updated.Name)
}

func TestUpdateUnknownProductReturnsNotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	newPrice := 899
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{PriceCents: &newPrice})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteProductRemovesRow(t *testing.T) {
	svc, db := newCatalogService(t)
	product := seedProduct(t, db, "Green Machine", enums.ProductCategoryGreen, 799, true)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))

	_, err := svc.GetProduct(context.Background(), product.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSnapshotProductSkipsInactive(t *testing.T) {
	svc, db := newCatalogService(t)
	active := seedProduct(t, db, "Green Machine", enums.ProductCategoryGreen, 799, true)
	retired := seedProduct(t, db, "Retired Blend", enums.ProductCategoryFruit, 699, false)

	snap, err := svc.SnapshotProduct(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, snap.ProductID)
	assert.Equal(t, 799, snap.UnitPriceCents)

	_, err = svc.SnapshotProduct(context.Background(), retired.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

type catalogTxRunner struct {
	db *gorm.DB
}

func (r *catalogTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type dropNotifier struct{}

func (dropNotifier) NotifyOrderStatus(context.Context, realtime.OrderEvent) error { return nil }

func TestOrderTotalsSurviveCatalogEdits(t *testing.T) {
	svc, db := newCatalogService(t)

	orderTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  recipient_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL,
  address TEXT,
  delivery_method TEXT NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'cash',
  total_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  status_changed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineTable := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name_at_purchase TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orderTable).Error)
	require.NoError(t, db.Exec(lineTable).Error)

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(db),
		DBClient: &catalogTxRunner{db: db},
		Notifier: dropNotifier{},
		Logger:   logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard}),
	})
	require.NoError(t, err)

	product := seedProduct(t, db, "Green Machine", enums.ProductCategoryGreen, 799, true)
	snap, err := svc.SnapshotProduct(context.Background(), product.ID)
	require.NoError(t, err)

	userID := uuid.New()
	order, err := ordersSvc.CreateOrder(context.Background(), orders.CreateOrderInput{
		UserID:         userID,
		RecipientName:  "Casey",
		Phone:          "+15551234567",
		Email:          "casey@example.com",
		DeliveryMethod: enums.DeliveryMethodPickup,
		PaymentMethod:  enums.PaymentMethodCash,
		Lines: []orders.LineInput{
			{ProductID: snap.ProductID, Name: snap.Name, UnitPriceCents: snap.UnitPriceCents, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1598, order.TotalCents)

	newPrice := 999
	newName := "Mean Green"
	_, err = svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		PriceCents: &newPrice,
		Name:       &newName,
	})
	require.NoError(t, err)

	fetched, err := ordersSvc.GetOrder(context.Background(), userID, enums.UserRoleCustomer, order.ID)
	require.NoError(t, err)

	assert.Equal(t, 1598, fetched.TotalCents)
	require.Len(t, fetched.Lines, 1)
	assert.Equal(t, 799, fetched.Lines[0].UnitPriceCents)
	assert.Equal(t, "Green Machine", fetched.Lines[0].Name)
}
