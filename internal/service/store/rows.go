package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/lmendez/inventario/internal/domain/models"
)

// Worksheet layouts, mirroring the original spreadsheet:
//   Productos: id, name, purchasePrice, salePrice, stock, createdAt, updatedAt
//   Ventas:    id, customerName, items (JSON), total, paymentMethod, isPaid, date, profit

func productToRow(p models.Product) []any {
	return []any{
		p.ID,
		p.Name,
		p.PurchasePrice,
		p.SalePrice,
		p.Stock,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	}
}

func productFromRow(row []any) models.Product {
	return models.Product{
		ID:            cellString(row, 0),
		Name:          cellString(row, 1),
		PurchasePrice: cellFloat(row, 2),
		SalePrice:     cellFloat(row, 3),
		Stock:         cellInt(row, 4),
		CreatedAt:     cellTime(row, 5),
		UpdatedAt:     cellTime(row, 6),
	}
}

func saleToRow(s models.Sale) []any {
	items, err := json.Marshal(s.Items)
	if err != nil {
		items = []byte("[]")
	}
	return []any{
		s.ID,
		s.CustomerName,
		string(items),
		s.Total,
		string(s.PaymentMethod),
		s.IsPaid,
		s.Date.Format(time.RFC3339),
		s.Profit,
	}
}

// saleFromRow decodes a sale row. A non-nil error means the items cell was
// unparseable; the returned sale is still usable with an empty item list.
func saleFromRow(row []any) (models.Sale, error) {
	sale := models.Sale{
		ID:            cellString(row, 0),
		CustomerName:  cellString(row, 1),
		Items:         []models.SaleItem{},
		Total:         cellFloat(row, 3),
		PaymentMethod: models.PaymentMethod(cellString(row, 4)),
		IsPaid:        cellBool(row, 5),
		Date:          cellTime(row, 6),
		Profit:        cellFloat(row, 7),
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = models.PaymentCash
	}

	raw := cellString(row, 2)
	if raw == "" {
		return sale, nil
	}

	var items []models.SaleItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return sale, fmt.Errorf("decode sale items: %w", err)
	}
	sale.Items = items

	return sale, nil
}

// Cell accessors are lenient by design: sheet cells come back as strings,
// numbers or booleans depending on how the value was written, and a damaged
// cell degrades to the zero value instead of failing the row.

func cellString(row []any, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func cellFloat(row []any, i int) float64 {
	if i >= len(row) || row[i] == nil {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func cellInt(row []any, i int) int {
	return int(cellFloat(row, i))
}

func cellBool(row []any, i int) bool {
	if i >= len(row) || row[i] == nil {
		return false
	}
	switch v := row[i].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "TRUE"
	}
	return false
}

func cellTime(row []any, i int) time.Time {
	s := cellString(row, i)
	if s == "" {
		return nowUTC()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nowUTC()
	}
	return t
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
