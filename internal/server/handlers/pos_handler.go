package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/service/coordinator"
	"github.com/lmendez/inventario/internal/service/reporting"
)

// PosHandler exposes the coordinator to the UI layer over HTTP. It holds no
// business logic; it binds input, applies form-level validation and maps
// coordinator errors to statuses.
type PosHandler struct {
	coord        *coordinator.Coordinator
	reportingSvc *reporting.Service
	logger       *zap.Logger
}

// NewPosHandler constructs the POS HTTP handler.
func NewPosHandler(coord *coordinator.Coordinator, reportingSvc *reporting.Service, logger *zap.Logger) *PosHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PosHandler{coord: coord, reportingSvc: reportingSvc, logger: logger}
}

// ListProducts returns the in-memory product collection.
func (h *PosHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.coord.Products())
}

// CreateProduct validates and registers a new product.
func (h *PosHandler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if msg := validateProductInput(input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	product := h.coord.AddProduct(c.Request.Context(), input)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update to a product.
func (h *PosHandler) UpdateProduct(c *gin.Context) {
	var updates models.ProductUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.coord.UpdateProduct(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		if errors.Is(err, coordinator.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("failed updating product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product by identifier.
func (h *PosHandler) DeleteProduct(c *gin.Context) {
	if err := h.coord.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, coordinator.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("failed deleting product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSales returns the in-memory sale collection.
func (h *PosHandler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.coord.Sales())
}

// CreateSale validates and records a sale.
func (h *PosHandler) CreateSale(c *gin.Context) {
	var input models.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if input.CustomerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name is required"})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one line item is required"})
		return
	}
	if !input.PaymentMethod.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
		return
	}

	sale := h.coord.AddSale(c.Request.Context(), input)
	c.JSON(http.StatusCreated, sale)
}

// PaySale settles a credit sale.
func (h *PosHandler) PaySale(c *gin.Context) {
	if err := h.coord.MarkSaleAsPaid(c.Param("id")); err != nil {
		if errors.Is(err, coordinator.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
			return
		}
		h.logger.Error("failed settling sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusOK)
}

// Summary returns the dashboard figures.
func (h *PosHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportingSvc.Summary(time.Now()))
}

// Sync triggers a refresh from the remote store.
func (h *PosHandler) Sync(c *gin.Context) {
	if err := h.coord.SyncAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lastSync": h.coord.LastSync(),
		"failures": h.coord.Failures(),
	})
}

// validateProductInput applies the form-level rules the original UI
// enforced. They are input checks only, not invariants.
func validateProductInput(input models.ProductInput) string {
	switch {
	case input.Name == "":
		return "name is required"
	case input.PurchasePrice < 0 || input.SalePrice < 0:
		return "prices must not be negative"
	case input.SalePrice <= input.PurchasePrice:
		return "sale price must exceed purchase price"
	case input.Stock < 0:
		return "stock must not be negative"
	}
	return ""
}
