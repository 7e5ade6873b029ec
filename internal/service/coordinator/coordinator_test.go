package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/localstore"
)

// fakeRemote implements sheetstore.Client with call recording and error
// injection.
type fakeRemote struct {
	mu       sync.Mutex
	err      error
	calls    []string
	products []models.Product
	sales    []models.Sale
}

func (f *fakeRemote) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) GetProducts(context.Context) ([]models.Product, error) {
	if err := f.record("getProducts"); err != nil {
		return nil, err
	}
	return f.products, nil
}

func (f *fakeRemote) AddProduct(_ context.Context, _ models.Product) error {
	return f.record("addProduct")
}

func (f *fakeRemote) UpdateProduct(_ context.Context, _ models.Product) error {
	return f.record("updateProduct")
}

func (f *fakeRemote) DeleteProduct(_ context.Context, id string) error {
	return f.record("deleteProduct:" + id)
}

func (f *fakeRemote) GetSales(context.Context) ([]models.Sale, error) {
	if err := f.record("getSales"); err != nil {
		return nil, err
	}
	return f.sales, nil
}

func (f *fakeRemote) AddSale(_ context.Context, _ models.Sale) error {
	return f.record("addSale")
}

// recordingNotifier captures emitted notices.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
	levels  []NoticeLevel
}

func (n *recordingNotifier) Notify(level NoticeLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.notices = append(n.notices, message)
}

func (n *recordingNotifier) lastLevel() NoticeLevel {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.levels) == 0 {
		return ""
	}
	return n.levels[len(n.levels)-1]
}

func newTestCoordinator(t *testing.T, mode Mode, remote *fakeRemote) (*Coordinator, *localstore.Store, *recordingNotifier) {
	t.Helper()
	local, err := localstore.New(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	c := New(mode, local, remote, notifier, zaptest.NewLogger(t))
	return c, local, notifier
}

func TestAddProductAppearsInMemoryAndLocalSnapshot(t *testing.T) {
	remote := &fakeRemote{}
	c, local, _ := newTestCoordinator(t, ModeHybrid, remote)

	product := c.AddProduct(context.Background(), models.ProductInput{
		Name: "Cable USB-C", PurchasePrice: 45, SalePrice: 89, Stock: 12,
	})

	require.NotEmpty(t, product.ID)
	assert.Equal(t, "Cable USB-C", product.Name)

	inMemory := c.Products()
	require.Len(t, inMemory, 1)
	assert.Equal(t, product, inMemory[0])

	// The local snapshot round-trips to an equal collection.
	var persisted []models.Product
	found, err := local.Load(localstore.KeyProducts, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, persisted, 1)
	assert.Equal(t, product.ID, persisted[0].ID)
	assert.Equal(t, product.Name, persisted[0].Name)
	assert.Equal(t, product.Stock, persisted[0].Stock)
}

func TestAddProductOfflineSavesLocallyOnly(t *testing.T) {
	remote := &fakeRemote{}
	c, local, notifier := newTestCoordinator(t, ModeHybrid, remote)
	c.SetOnline(false)

	product := c.AddProduct(context.Background(), models.ProductInput{
		Name: "X", PurchasePrice: 10, SalePrice: 20, Stock: 5,
	})

	require.NotEmpty(t, product.ID)
	assert.Len(t, c.Products(), 1)

	var persisted []models.Product
	found, err := local.Load(localstore.KeyProducts, &persisted)
	require.NoError(t, err)
	assert.True(t, found)

	// No remote call happened and the user was told the save is local-only.
	assert.Zero(t, remote.callCount())
	assert.Equal(t, NoticeWarning, notifier.lastLevel())
	assert.Equal(t, int64(1), c.Failures())
}

func TestAddProductRemoteFailureDegradesToLocal(t *testing.T) {
	remote := &fakeRemote{err: errors.New("boom")}
	c, _, notifier := newTestCoordinator(t, ModeHybrid, remote)

	product := c.AddProduct(context.Background(), models.ProductInput{Name: "X", SalePrice: 1})

	require.NotEmpty(t, product.ID)
	assert.Len(t, c.Products(), 1)
	assert.Equal(t, NoticeWarning, notifier.lastLevel())
	assert.Equal(t, int64(1), c.Failures())
}

func TestAddProductLocalModeNeverCallsRemote(t *testing.T) {
	remote := &fakeRemote{}
	c, _, _ := newTestCoordinator(t, ModeLocal, remote)

	c.AddProduct(context.Background(), models.ProductInput{Name: "X"})

	assert.Zero(t, remote.callCount())
}

func TestUpdateProduct(t *testing.T) {
	remote := &fakeRemote{}
	c, _, _ := newTestCoordinator(t, ModeHybrid, remote)
	ctx := context.Background()

	product := c.AddProduct(ctx, models.ProductInput{Name: "Cable", SalePrice: 89, Stock: 10})

	name := "Cable USB-C"
	stock := 7
	updated, err := c.UpdateProduct(ctx, product.ID, models.ProductUpdate{Name: &name, Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, "Cable USB-C", updated.Name)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, 89.0, updated.SalePrice) // untouched field survives
	assert.True(t, updated.UpdatedAt.After(product.CreatedAt) || updated.UpdatedAt.Equal(product.CreatedAt))
}

func TestUpdateProductNotFound(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)

	_, err := c.UpdateProduct(context.Background(), "missing", models.ProductUpdate{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProductPushesIdentifierKeyedDelete(t *testing.T) {
	remote := &fakeRemote{}
	c, _, _ := newTestCoordinator(t, ModeHybrid, remote)
	ctx := context.Background()

	product := c.AddProduct(ctx, models.ProductInput{Name: "Cable"})

	require.NoError(t, c.DeleteProduct(ctx, product.ID))
	assert.Empty(t, c.Products())

	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Contains(t, remote.calls, "deleteProduct:"+product.ID)
}

func TestDeleteProductNotFound(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)

	assert.ErrorIs(t, c.DeleteProduct(context.Background(), "missing"), ErrProductNotFound)
}

func TestAddSaleCreditStartsUnpaid(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	ctx := context.Background()

	p := c.AddProduct(ctx, models.ProductInput{Name: "Cable", PurchasePrice: 45, SalePrice: 89, Stock: 10})

	sale := c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Ana",
		Items:         []models.SaleItem{{ProductID: p.ID, Quantity: 1}},
		Total:         89,
		PaymentMethod: models.PaymentCredit,
	})

	assert.False(t, sale.IsPaid)

	cash := c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Luis",
		Items:         []models.SaleItem{{ProductID: p.ID, Quantity: 1}},
		Total:         89,
		PaymentMethod: models.PaymentCash,
	})
	assert.True(t, cash.IsPaid)
}

func TestMarkSaleAsPaidFlipsOnce(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	ctx := context.Background()

	sale := c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Ana",
		Items:         []models.SaleItem{{ProductID: "p1", Quantity: 1}},
		PaymentMethod: models.PaymentCredit,
	})

	require.NoError(t, c.MarkSaleAsPaid(sale.ID))
	require.True(t, c.Sales()[0].IsPaid)

	// Settling again never reverts the flag.
	require.NoError(t, c.MarkSaleAsPaid(sale.ID))
	assert.True(t, c.Sales()[0].IsPaid)
}

func TestMarkSaleAsPaidIgnoresNonCreditSales(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	ctx := context.Background()

	sale := c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Ana",
		PaymentMethod: models.PaymentCash,
		Items:         []models.SaleItem{{ProductID: "p1", Quantity: 1}},
	})

	require.NoError(t, c.MarkSaleAsPaid(sale.ID))
	assert.True(t, c.Sales()[0].IsPaid)
}

func TestMarkSaleAsPaidNotFound(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	assert.ErrorIs(t, c.MarkSaleAsPaid("missing"), ErrSaleNotFound)
}

func TestCalculateSaleProfit(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	ctx := context.Background()

	p := c.AddProduct(ctx, models.ProductInput{Name: "P1", PurchasePrice: 100, SalePrice: 150, Stock: 10})

	sale := models.Sale{Items: []models.SaleItem{{ProductID: p.ID, Quantity: 2}}}
	assert.Equal(t, 100.0, c.CalculateSaleProfit(sale))

	// A deleted product contributes zero rather than erroring.
	require.NoError(t, c.DeleteProduct(ctx, p.ID))
	assert.Equal(t, 0.0, c.CalculateSaleProfit(sale))
}

func TestAddSaleDecrementsStockFlooredAtZero(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	ctx := context.Background()

	p := c.AddProduct(ctx, models.ProductInput{Name: "P1", PurchasePrice: 10, SalePrice: 20, Stock: 5})

	c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Ana",
		Items:         []models.SaleItem{{ProductID: p.ID, Quantity: 3}},
		PaymentMethod: models.PaymentCash,
	})

	got, ok := c.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Stock)

	c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Luis",
		Items:         []models.SaleItem{{ProductID: p.ID, Quantity: 10}},
		PaymentMethod: models.PaymentCash,
	})

	got, _ = c.Product(p.ID)
	assert.Equal(t, 0, got.Stock)
}

func TestAddSaleComputesProfitAtSaleTime(t *testing.T) {
	c, _, _ := newTestCoordinator(t, ModeLocal, nil)
	ctx := context.Background()

	p := c.AddProduct(ctx, models.ProductInput{Name: "P1", PurchasePrice: 100, SalePrice: 150, Stock: 10})

	sale := c.AddSale(ctx, models.SaleInput{
		CustomerName:  "Ana",
		Items:         []models.SaleItem{{ProductID: p.ID, Quantity: 2}},
		Total:         300,
		PaymentMethod: models.PaymentCash,
	})

	assert.Equal(t, 100.0, sale.Profit)
	// Item name and price are captured from the catalog.
	assert.Equal(t, "P1", sale.Items[0].Name)
	assert.Equal(t, 150.0, sale.Items[0].Price)
}

func TestSyncAllOverwritesStateAndReplicas(t *testing.T) {
	remote := &fakeRemote{
		products: []models.Product{{ID: "r1", Name: "Remote", Stock: 3}},
		sales:    []models.Sale{{ID: "rs1", CustomerName: "Remota", IsPaid: true}},
	}
	c, local, _ := newTestCoordinator(t, ModeHybrid, remote)

	// Local state the refresh will clobber: remote wins on read.
	c.AddProduct(context.Background(), models.ProductInput{Name: "Local"})

	require.NoError(t, c.SyncAll(context.Background()))

	products := c.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "r1", products[0].ID)
	require.Len(t, c.Sales(), 1)
	assert.False(t, c.LastSync().IsZero())

	var replica []models.Product
	found, err := local.Load(localstore.KeyCloudProducts, &replica)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "r1", replica[0].ID)
}

func TestSyncAllEmptyRemoteLeavesStateUntouched(t *testing.T) {
	remote := &fakeRemote{}
	c, local, _ := newTestCoordinator(t, ModeHybrid, remote)

	c.AddProduct(context.Background(), models.ProductInput{Name: "Local"})

	require.NoError(t, c.SyncAll(context.Background()))

	assert.Len(t, c.Products(), 1)

	var replica []models.Product
	found, err := local.Load(localstore.KeyCloudProducts, &replica)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSyncAllFailureSurfacesNotice(t *testing.T) {
	remote := &fakeRemote{err: errors.New("unreachable")}
	c, _, notifier := newTestCoordinator(t, ModeHybrid, remote)

	err := c.SyncAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, NoticeError, notifier.lastLevel())
	assert.Equal(t, int64(1), c.Failures())
}

func TestSyncAllSkippedWhenOfflineOrLocal(t *testing.T) {
	remote := &fakeRemote{}

	c, _, _ := newTestCoordinator(t, ModeHybrid, remote)
	c.SetOnline(false)
	require.NoError(t, c.SyncAll(context.Background()))
	assert.Zero(t, remote.callCount())

	c, _, _ = newTestCoordinator(t, ModeLocal, remote)
	require.NoError(t, c.SyncAll(context.Background()))
	assert.Zero(t, remote.callCount())
}

func TestFailureCounterResetsOnSuccess(t *testing.T) {
	remote := &fakeRemote{err: errors.New("boom")}
	c, _, _ := newTestCoordinator(t, ModeHybrid, remote)
	ctx := context.Background()

	c.AddProduct(ctx, models.ProductInput{Name: "A"})
	c.AddProduct(ctx, models.ProductInput{Name: "B"})
	assert.Equal(t, int64(2), c.Failures())

	remote.mu.Lock()
	remote.err = nil
	remote.mu.Unlock()

	c.AddProduct(ctx, models.ProductInput{Name: "C"})
	assert.Equal(t, int64(0), c.Failures())
}

func TestLoadLocalMode(t *testing.T) {
	local, err := localstore.New(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, local.Save(localstore.KeyProducts, []models.Product{{ID: "p1", Name: "Saved"}}))

	c := New(ModeLocal, local, nil, &recordingNotifier{}, zaptest.NewLogger(t))
	c.Load(context.Background())

	products := c.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Saved", products[0].Name)
}

func TestLoadHybridFallsBackToLocalOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{err: errors.New("unreachable")}

	local, err := localstore.New(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, local.Save(localstore.KeyProducts, []models.Product{{ID: "p1", Name: "Fallback"}}))

	c := New(ModeHybrid, local, remote, &recordingNotifier{}, zaptest.NewLogger(t))
	c.Load(context.Background())

	products := c.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Fallback", products[0].Name)
}

func TestLoadHybridPrefersCloudReplica(t *testing.T) {
	remote := &fakeRemote{err: errors.New("unreachable")}

	local, err := localstore.New(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, local.Save(localstore.KeyProducts, []models.Product{{ID: "l1", Name: "Local"}}))
	require.NoError(t, local.Save(localstore.KeyCloudProducts, []models.Product{{ID: "c1", Name: "Cloud"}}))

	c := New(ModeHybrid, local, remote, &recordingNotifier{}, zaptest.NewLogger(t))
	c.Load(context.Background())

	products := c.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Cloud", products[0].Name)
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"local", "remote", "hybrid"} {
		mode, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), mode)
	}

	_, err := ParseMode("cloud")
	assert.Error(t, err)
}
