// Command seed loads a demo product catalog into the local snapshot store,
// useful for trying the POS client without a remote store.
package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/config"
	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/localstore"
	"github.com/lmendez/inventario/internal/service/coordinator"
	"github.com/lmendez/inventario/pkg/logger"
)

var demoProducts = []models.ProductInput{
	{Name: "Smartphone Samsung Galaxy A54", PurchasePrice: 8500, SalePrice: 12000, Stock: 15},
	{Name: "Auriculares Bluetooth", PurchasePrice: 350, SalePrice: 650, Stock: 25},
	{Name: "Funda para Móvil", PurchasePrice: 80, SalePrice: 150, Stock: 8},
	{Name: "Cable USB-C", PurchasePrice: 45, SalePrice: 89, Stock: 12},
	{Name: "Cargador Inalámbrico", PurchasePrice: 280, SalePrice: 450, Stock: 6},
	{Name: "Power Bank 10000mAh", PurchasePrice: 320, SalePrice: 580, Stock: 18},
	{Name: "Protector de Pantalla", PurchasePrice: 25, SalePrice: 59, Stock: 30},
	{Name: "Smartwatch Básico", PurchasePrice: 1200, SalePrice: 1850, Stock: 4},
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	local, err := localstore.New(cfg.Storage.DataDir, baseLogger.Named("localstore"))
	if err != nil {
		baseLogger.Fatal("failed to init local store", zap.Error(err))
	}

	coord := coordinator.New(coordinator.ModeLocal, local, nil, nil, baseLogger.Named("seed"))
	coord.LoadFromLocal()

	ctx := context.Background()
	for _, input := range demoProducts {
		product := coord.AddProduct(ctx, input)
		baseLogger.Info("product seeded", zap.String("id", product.ID), zap.String("name", product.Name))
	}

	baseLogger.Info("seed completed", zap.Int("products", len(demoProducts)))
}
