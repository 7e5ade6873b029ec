// Package store implements the remote store actions exposed by the sheet
// backed endpoint: CRUD over the Productos and Ventas worksheets, wrapped in
// the uniform success/data envelope.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/config"
	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/repository/sheets"
)

// Service dispatches store actions against the backing worksheets.
type Service struct {
	table         sheets.Table
	productsSheet string
	salesSheet    string
	logger        *zap.Logger
}

// NewService builds the store service on top of a Table implementation.
func NewService(table sheets.Table, cfg config.SheetsConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		table:         table,
		productsSheet: cfg.ProductsSheet,
		salesSheet:    cfg.SalesSheet,
		logger:        logger,
	}
}

// Dispatch routes an action request to its handler and returns the response
// envelope. Unknown actions yield a failure envelope naming the action.
func (s *Service) Dispatch(ctx context.Context, req models.ActionRequest) models.Envelope {
	switch req.Action {
	case models.ActionGetProducts:
		return s.GetProducts(ctx)
	case models.ActionAddProduct:
		return s.AddProduct(ctx, req.Product)
	case models.ActionUpdateProduct:
		return s.UpdateProduct(ctx, req.Product)
	case models.ActionDeleteProduct:
		return s.DeleteProduct(ctx, req.ID)
	case models.ActionGetSales:
		return s.GetSales(ctx)
	case models.ActionAddSale:
		return s.AddSale(ctx, req.Sale)
	default:
		return models.Fail(fmt.Sprintf("Acción no reconocida: %s", req.Action))
	}
}

// GetProducts returns every product row. A missing worksheet is not an
// error: the result is an empty list.
func (s *Service) GetProducts(ctx context.Context) models.Envelope {
	rows, err := s.table.Rows(ctx, s.productsSheet)
	if err == sheets.ErrSheetMissing {
		return models.OK(fmt.Sprintf("Hoja %s no existe", s.productsSheet), []models.Product{})
	}
	if err != nil {
		s.logger.Error("failed reading products", zap.Error(err))
		return models.Fail("Error al obtener productos: " + err.Error())
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromRow(row))
	}

	return models.OK("Productos obtenidos correctamente", products)
}

// AddProduct appends a product row with both timestamps set to now. There is
// deliberately no duplicate-identifier check; the caller owns id generation.
func (s *Service) AddProduct(ctx context.Context, product *models.Product) models.Envelope {
	if product == nil {
		return models.Fail("Producto no proporcionado")
	}

	stamped := *product
	now := nowUTC()
	stamped.CreatedAt = now
	stamped.UpdatedAt = now

	if err := s.table.Append(ctx, s.productsSheet, productToRow(stamped)); err != nil {
		if err == sheets.ErrSheetMissing {
			return models.Fail(fmt.Sprintf("Hoja %s no existe", s.productsSheet))
		}
		s.logger.Error("failed appending product", zap.String("id", product.ID), zap.Error(err))
		return models.Fail("Error al agregar producto: " + err.Error())
	}

	return models.OK("Producto agregado correctamente", stamped)
}

// UpdateProduct overwrites name, prices and stock of the first row whose
// identifier matches, bumping the updated timestamp.
func (s *Service) UpdateProduct(ctx context.Context, product *models.Product) models.Envelope {
	if product == nil {
		return models.Fail("Producto no proporcionado")
	}

	rows, err := s.table.Rows(ctx, s.productsSheet)
	if err == sheets.ErrSheetMissing {
		return models.Fail(fmt.Sprintf("Hoja %s no existe", s.productsSheet))
	}
	if err != nil {
		s.logger.Error("failed reading products", zap.Error(err))
		return models.Fail("Error al actualizar producto: " + err.Error())
	}

	for i, row := range rows {
		existing := productFromRow(row)
		if existing.ID != product.ID {
			continue
		}

		existing.Name = product.Name
		existing.PurchasePrice = product.PurchasePrice
		existing.SalePrice = product.SalePrice
		existing.Stock = product.Stock
		existing.UpdatedAt = nowUTC()

		if err := s.table.Update(ctx, s.productsSheet, i, productToRow(existing)); err != nil {
			s.logger.Error("failed updating product row", zap.String("id", product.ID), zap.Error(err))
			return models.Fail("Error al actualizar producto: " + err.Error())
		}

		return models.OK("Producto actualizado correctamente", existing)
	}

	return models.Fail("Producto no encontrado")
}

// DeleteProduct removes the row whose identifier matches. Deletion is keyed
// by identifier on both sides of the wire; row positions are an internal
// detail of the worksheet.
func (s *Service) DeleteProduct(ctx context.Context, id string) models.Envelope {
	if id == "" {
		return models.Fail("Identificador no proporcionado")
	}

	rows, err := s.table.Rows(ctx, s.productsSheet)
	if err == sheets.ErrSheetMissing {
		return models.Fail(fmt.Sprintf("Hoja %s no existe", s.productsSheet))
	}
	if err != nil {
		s.logger.Error("failed reading products", zap.Error(err))
		return models.Fail("Error al eliminar producto: " + err.Error())
	}

	for i, row := range rows {
		if productFromRow(row).ID != id {
			continue
		}
		if err := s.table.Delete(ctx, s.productsSheet, i); err != nil {
			s.logger.Error("failed deleting product row", zap.String("id", id), zap.Error(err))
			return models.Fail("Error al eliminar producto: " + err.Error())
		}
		return models.OK("Producto eliminado correctamente", nil)
	}

	return models.Fail("Producto no encontrado")
}

// GetSales returns every sale row. Line items are stored serialized in one
// cell; rows whose cell no longer parses come back with an empty item list
// and a logged warning rather than failing the whole read.
func (s *Service) GetSales(ctx context.Context) models.Envelope {
	rows, err := s.table.Rows(ctx, s.salesSheet)
	if err == sheets.ErrSheetMissing {
		return models.OK(fmt.Sprintf("Hoja %s no existe", s.salesSheet), []models.Sale{})
	}
	if err != nil {
		s.logger.Error("failed reading sales", zap.Error(err))
		return models.Fail("Error al obtener ventas: " + err.Error())
	}

	sales := make([]models.Sale, 0, len(rows))
	for _, row := range rows {
		sale, parseErr := saleFromRow(row)
		if parseErr != nil {
			s.logger.Warn("sale items column unparseable, defaulting to empty list",
				zap.String("sale_id", sale.ID), zap.Error(parseErr))
		}
		sales = append(sales, sale)
	}

	return models.OK("Ventas obtenidas correctamente", sales)
}

// AddSale appends a sale row. The paid flag and profit are stored verbatim
// from the caller; the store never recomputes them.
func (s *Service) AddSale(ctx context.Context, sale *models.Sale) models.Envelope {
	if sale == nil {
		return models.Fail("Venta no proporcionada")
	}

	stamped := *sale
	stamped.Date = nowUTC()

	if err := s.table.Append(ctx, s.salesSheet, saleToRow(stamped)); err != nil {
		if err == sheets.ErrSheetMissing {
			return models.Fail(fmt.Sprintf("Hoja %s no existe", s.salesSheet))
		}
		s.logger.Error("failed appending sale", zap.String("id", sale.ID), zap.Error(err))
		return models.Fail("Error al agregar venta: " + err.Error())
	}

	return models.OK("Venta agregada correctamente", stamped)
}

// Health returns the static health/version payload served to GET requests.
func (s *Service) Health() models.Envelope {
	return models.OK("Inventario App Backend funcionando", map[string]any{
		"version":   "2.0",
		"status":    "active",
		"timestamp": nowUTC(),
	})
}
