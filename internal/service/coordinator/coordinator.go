// Package coordinator owns the in-memory product and sale collections and
// keeps them reconciled with two replicas: the local snapshot store and the
// sheet-backed remote store.
//
// The reconciliation policy is deliberately asymmetric and lossy: every
// mutation commits locally first and pushes to the remote store best-effort,
// while the periodic refresh overwrites local state with whatever the remote
// returned. Remote wins on read, local wins on write, and no merge is ever
// attempted. Divergence between the replicas is tolerated.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/localstore"
	"github.com/lmendez/inventario/pkg/clients/sheetstore"
)

// Mode selects which replicas the coordinator treats as authoritative.
type Mode string

const (
	// ModeLocal never touches the remote store.
	ModeLocal Mode = "local"
	// ModeRemote loads from the remote store and writes through to it; the
	// local snapshot is kept as the offline fallback.
	ModeRemote Mode = "remote"
	// ModeHybrid writes locally always and remotely best-effort, refreshing
	// from remote on the periodic sync.
	ModeHybrid Mode = "hybrid"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeRemote, ModeHybrid:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown sync mode %q", s)
}

// ErrProductNotFound is returned when no product matches the identifier.
var ErrProductNotFound = errors.New("product not found")

// ErrSaleNotFound is returned when no sale matches the identifier.
var ErrSaleNotFound = errors.New("sale not found")

// Coordinator is the single owner of the in-memory collections. It is
// constructed once at startup and passed to whatever owns the UI binding.
type Coordinator struct {
	mode     Mode
	local    *localstore.Store
	remote   sheetstore.Client
	notifier Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	products []models.Product
	sales    []models.Sale
	lastSync time.Time

	online  atomic.Bool
	syncing atomic.Bool
	// failures counts consecutive remote attempts that did not land; reset on
	// any success. It throttles nothing, it only feeds status reporting.
	failures atomic.Int64
}

// New builds a coordinator. The remote client may be nil in local mode.
func New(mode Mode, local *localstore.Store, remote sheetstore.Client, notifier Notifier, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	c := &Coordinator{
		mode:     mode,
		local:    local,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
	}
	c.online.Store(true)
	return c
}

// SetOnline flips the connectivity flag. While offline every remote attempt
// is skipped and mutations degrade to local-only saves.
func (c *Coordinator) SetOnline(online bool) {
	c.online.Store(online)
}

// Online reports the connectivity flag.
func (c *Coordinator) Online() bool { return c.online.Load() }

// Failures returns the consecutive remote failure count.
func (c *Coordinator) Failures() int64 { return c.failures.Load() }

// LastSync returns the completion time of the last successful refresh.
func (c *Coordinator) LastSync() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// Products returns a copy of the in-memory product collection.
func (c *Coordinator) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product(nil), c.products...)
}

// Sales returns a copy of the in-memory sale collection.
func (c *Coordinator) Sales() []models.Sale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Sale(nil), c.sales...)
}

// Product looks up a product by identifier.
func (c *Coordinator) Product(id string) (models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddProduct assigns an identifier and timestamps, appends the product to
// the in-memory collection, persists the local snapshot and pushes to the
// remote store best-effort. Local persistence never fails the operation from
// the caller's perspective; the product is returned either way.
func (c *Coordinator) AddProduct(ctx context.Context, input models.ProductInput) models.Product {
	now := time.Now().UTC()
	product := models.Product{
		ID:            uuid.NewString(),
		Name:          input.Name,
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		Stock:         input.Stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	c.mu.Lock()
	c.products = append(c.products, product)
	c.persistProductsLocked()
	c.mu.Unlock()

	c.pushRemote(ctx, "addProduct",
		func(ctx context.Context) error { return c.remote.AddProduct(ctx, product) },
		"Producto guardado y sincronizado",
		"Producto guardado localmente (sin conexión)")

	return product
}

// UpdateProduct merges the non-nil update fields onto the product with the
// given identifier and bumps its updated timestamp.
func (c *Coordinator) UpdateProduct(ctx context.Context, id string, updates models.ProductUpdate) (models.Product, error) {
	c.mu.Lock()
	idx := c.productIndexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return models.Product{}, ErrProductNotFound
	}

	updates.Apply(&c.products[idx])
	c.products[idx].UpdatedAt = time.Now().UTC()
	updated := c.products[idx]
	c.persistProductsLocked()
	c.mu.Unlock()

	c.pushRemote(ctx, "updateProduct",
		func(ctx context.Context) error { return c.remote.UpdateProduct(ctx, updated) },
		"Producto actualizado y sincronizado",
		"Producto actualizado localmente (sin conexión)")

	return updated, nil
}

// DeleteProduct removes the product by identifier and pushes an
// identifier-keyed delete to the remote store.
func (c *Coordinator) DeleteProduct(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.productIndexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrProductNotFound
	}

	c.products = append(c.products[:idx], c.products[idx+1:]...)
	c.persistProductsLocked()
	c.mu.Unlock()

	c.pushRemote(ctx, "deleteProduct",
		func(ctx context.Context) error { return c.remote.DeleteProduct(ctx, id) },
		"Producto eliminado y sincronizado",
		"Producto eliminado localmente (sin conexión)")

	return nil
}

// AddSale records a sale: generates identifier and timestamp, derives the
// paid flag from the payment method (credit sales start unpaid), computes
// profit against the current product collection and decrements stock for
// every line item, floored at zero. The stock decrement happens exactly
// once, here, synchronously with the sale being appended.
func (c *Coordinator) AddSale(ctx context.Context, input models.SaleInput) models.Sale {
	sale := models.Sale{
		ID:            uuid.NewString(),
		CustomerName:  input.CustomerName,
		Items:         append([]models.SaleItem(nil), input.Items...),
		Total:         input.Total,
		PaymentMethod: input.PaymentMethod,
		IsPaid:        input.PaymentMethod != models.PaymentCredit,
		Date:          time.Now().UTC(),
	}

	c.mu.Lock()
	for i := range sale.Items {
		item := &sale.Items[i]
		pi := c.productIndexLocked(item.ProductID)
		if pi < 0 {
			continue
		}
		if item.Name == "" {
			item.Name = c.products[pi].Name
		}
		if item.Price == 0 {
			item.Price = c.products[pi].SalePrice
		}
	}

	sale.Profit = c.profitLocked(sale.Items)

	for _, item := range sale.Items {
		pi := c.productIndexLocked(item.ProductID)
		if pi < 0 {
			continue
		}
		stock := c.products[pi].Stock - item.Quantity
		if stock < 0 {
			stock = 0
		}
		c.products[pi].Stock = stock
	}

	c.sales = append(c.sales, sale)
	c.persistSalesLocked()
	c.persistProductsLocked()
	c.mu.Unlock()

	c.pushRemote(ctx, "addSale",
		func(ctx context.Context) error { return c.remote.AddSale(ctx, sale) },
		"Venta guardada y sincronizada",
		"Venta guardada localmente (sin conexión)")

	return sale
}

// MarkSaleAsPaid settles a credit sale. It is a no-op unless the sale's
// payment method is credit and it is currently unpaid; the flip is persisted
// locally only and never pushed to the remote store.
func (c *Coordinator) MarkSaleAsPaid(id string) error {
	c.mu.Lock()
	var sale *models.Sale
	for i := range c.sales {
		if c.sales[i].ID == id {
			sale = &c.sales[i]
			break
		}
	}
	if sale == nil {
		c.mu.Unlock()
		return ErrSaleNotFound
	}
	if sale.PaymentMethod != models.PaymentCredit || sale.IsPaid {
		c.mu.Unlock()
		return nil
	}

	sale.IsPaid = true
	c.persistSalesLocked()
	c.mu.Unlock()

	c.notifier.Notify(NoticeSuccess, "Crédito marcado como pagado")
	return nil
}

// CalculateSaleProfit sums (salePrice − purchasePrice) × quantity over the
// sale's line items against the current product collection. A line whose
// product has since been deleted contributes zero.
func (c *Coordinator) CalculateSaleProfit(sale models.Sale) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profitLocked(sale.Items)
}

// SyncAll refreshes the in-memory collections and the cloud replicas from
// the remote store. It is skipped when a sync is already in flight, the
// client is offline, or the mode never syncs. Empty remote results leave the
// current state untouched, matching the original client.
func (c *Coordinator) SyncAll(ctx context.Context) error {
	if !c.remoteEnabled() || !c.online.Load() {
		return nil
	}
	if !c.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer c.syncing.Store(false)

	products, err := c.remote.GetProducts(ctx)
	if err != nil {
		return c.syncFailed("products", err)
	}

	sales, err := c.remote.GetSales(ctx)
	if err != nil {
		return c.syncFailed("sales", err)
	}

	c.mu.Lock()
	if len(products) > 0 {
		c.products = products
		if err := c.local.Save(localstore.KeyCloudProducts, products); err != nil {
			c.logger.Error("failed saving cloud products replica", zap.Error(err))
		}
	}
	if len(sales) > 0 {
		c.sales = sales
		if err := c.local.Save(localstore.KeyCloudSales, sales); err != nil {
			c.logger.Error("failed saving cloud sales replica", zap.Error(err))
		}
	}
	c.lastSync = time.Now().UTC()
	c.mu.Unlock()

	c.failures.Store(0)
	c.logger.Info("sync completed",
		zap.Int("products", len(products)), zap.Int("sales", len(sales)))
	return nil
}

// Load populates the in-memory collections at startup. Local mode reads only
// the local snapshot. Otherwise a best-effort refresh runs first, then the
// cloud replicas are loaded, falling back to the local snapshot when no
// replica exists.
func (c *Coordinator) Load(ctx context.Context) {
	if c.mode == ModeLocal {
		c.LoadFromLocal()
		return
	}

	_ = c.SyncAll(ctx)
	if !c.LoadFromCloud() {
		c.LoadFromLocal()
	}
}

// LoadFromCloud reads the last-known-remote replicas into memory. It reports
// whether at least one replica existed.
func (c *Coordinator) LoadFromCloud() bool {
	var products []models.Product
	var sales []models.Sale

	foundProducts := c.loadSnapshot(localstore.KeyCloudProducts, &products)
	foundSales := c.loadSnapshot(localstore.KeyCloudSales, &sales)

	c.mu.Lock()
	if foundProducts {
		c.products = products
	}
	if foundSales {
		c.sales = sales
	}
	c.mu.Unlock()

	return foundProducts || foundSales
}

// LoadFromLocal reads the local write snapshots into memory.
func (c *Coordinator) LoadFromLocal() {
	var products []models.Product
	var sales []models.Sale

	foundProducts := c.loadSnapshot(localstore.KeyProducts, &products)
	foundSales := c.loadSnapshot(localstore.KeySales, &sales)

	c.mu.Lock()
	if foundProducts {
		c.products = products
	}
	if foundSales {
		c.sales = sales
	}
	c.mu.Unlock()
}

func (c *Coordinator) loadSnapshot(key string, v any) bool {
	found, err := c.local.Load(key, v)
	if err != nil {
		// Corrupt snapshots are treated as absent; divergence is tolerated.
		c.logger.Warn("unreadable snapshot treated as absent", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (c *Coordinator) syncFailed(stage string, err error) error {
	c.failures.Add(1)
	c.logger.Error("sync failed", zap.String("stage", stage), zap.Error(err))
	c.notifier.Notify(NoticeError, "Error de sincronización")
	return err
}

func (c *Coordinator) remoteEnabled() bool {
	return c.mode != ModeLocal && c.remote != nil
}

// pushRemote attempts a best-effort remote write after the local commit. A
// failure never propagates: it degrades to a warning notice and a bump of
// the failure counter, leaving the periodic refresh as the only retry.
func (c *Coordinator) pushRemote(ctx context.Context, op string, fn func(context.Context) error, okMsg, localMsg string) {
	if !c.remoteEnabled() {
		return
	}

	if !c.online.Load() {
		c.failures.Add(1)
		c.notifier.Notify(NoticeWarning, localMsg)
		return
	}

	if err := fn(ctx); err != nil {
		c.failures.Add(1)
		c.logger.Warn("remote write failed", zap.String("op", op), zap.Error(err))
		c.notifier.Notify(NoticeWarning, localMsg)
		return
	}

	c.failures.Store(0)
	c.notifier.Notify(NoticeSuccess, okMsg)
}

func (c *Coordinator) productIndexLocked(id string) int {
	for i, p := range c.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c *Coordinator) profitLocked(items []models.SaleItem) float64 {
	var total float64
	for _, item := range items {
		idx := c.productIndexLocked(item.ProductID)
		if idx < 0 {
			c.logger.Debug("profit line skipped, product missing", zap.String("product_id", item.ProductID))
			continue
		}
		p := c.products[idx]
		total += (p.SalePrice - p.PurchasePrice) * float64(item.Quantity)
	}
	return total
}

func (c *Coordinator) persistProductsLocked() {
	if err := c.local.Save(localstore.KeyProducts, c.products); err != nil {
		c.logger.Error("failed persisting products snapshot", zap.Error(err))
	}
}

func (c *Coordinator) persistSalesLocked() {
	if err := c.local.Save(localstore.KeySales, c.sales); err != nil {
		c.logger.Error("failed persisting sales snapshot", zap.Error(err))
	}
}
